package main

import (
	"sync/atomic"
	"time"
)

type Metrics struct {
	start time.Time

	version   string
	commit    string
	buildDate string

	runsOK atomic.Int64
	runsNG atomic.Int64

	fetchOK atomic.Int64
	fetchNG atomic.Int64

	renderSkipped atomic.Int64

	lastRunLatencyMs   atomic.Int64
	lastRunAtMs        atomic.Int64
	lastRunUnavailable atomic.Int64
}

func NewMetrics(start time.Time, version, commit, buildDate string) *Metrics {
	return &Metrics{
		start:     start,
		version:   version,
		commit:    commit,
		buildDate: buildDate,
	}
}

func (m *Metrics) FetchSucceeded() { m.fetchOK.Add(1) }
func (m *Metrics) FetchFailed()    { m.fetchNG.Add(1) }
func (m *Metrics) RenderSkipped()  { m.renderSkipped.Add(1) }
func (m *Metrics) RunFailed()      { m.runsNG.Add(1) }

func (m *Metrics) RunSucceeded(latency time.Duration, unavailable int) {
	m.runsOK.Add(1)
	m.lastRunLatencyMs.Store(latency.Milliseconds())
	m.lastRunAtMs.Store(time.Now().UnixMilli())
	m.lastRunUnavailable.Store(int64(unavailable))
}

func (m *Metrics) Snapshot() map[string]any {
	uptime := time.Since(m.start)

	return map[string]any{
		"ok": true,

		"uptime_ms": uptime.Milliseconds(),
		"uptime":    uptime.String(),

		"build": map[string]any{
			"version":    m.version,
			"commit":     m.commit,
			"build_date": m.buildDate,
		},

		"runs": map[string]any{
			"success":                m.runsOK.Load(),
			"failed":                 m.runsNG.Load(),
			"last_latency_ms":        m.lastRunLatencyMs.Load(),
			"last_at_unix_ms":        m.lastRunAtMs.Load(),
			"last_unavailable_total": m.lastRunUnavailable.Load(),
		},

		"fetch": map[string]any{
			"success": m.fetchOK.Load(),
			"failed":  m.fetchNG.Load(),
		},

		"render": map[string]any{
			"skipped_total": m.renderSkipped.Load(),
		},
	}
}
