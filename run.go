package main

import (
	"time"

	"github.com/google/uuid"
)

// RunContext identifies one comparison run in logs and responses.
type RunContext struct {
	ID    string
	Start time.Time
}

func NewRunContext() RunContext {
	return RunContext{ID: uuid.NewString(), Start: time.Now()}
}
