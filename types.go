package main

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	// ErrDataUnavailable marks a network or parse failure for one asset.
	ErrDataUnavailable = errors.New("market data unavailable")
	// ErrInvalidReference aborts a run: nothing can be compared against it.
	ErrInvalidReference = errors.New("invalid reference market cap")
	// ErrRenderTargetMissing is reported when a ranked record has no slot to draw into.
	ErrRenderTargetMissing = errors.New("render target missing")
)

// Asset is a coin as known to the provider plus its display label and text.
type Asset struct {
	ID    string `yaml:"id" json:"id"`
	Label string `yaml:"label" json:"label"`
	Text  string `yaml:"text,omitempty" json:"text,omitempty"`
}

// MarketCapReading is one fetched USD market cap, or the error that replaced it.
type MarketCapReading struct {
	Asset     Asset
	USD       decimal.Decimal
	FetchedAt time.Time
	Err       error // non-nil => USD is meaningless
}

func (r MarketCapReading) Available() bool { return r.Err == nil }

// RankedRecord is a comparison asset annotated with its share of the reference cap.
type RankedRecord struct {
	Label        string          `json:"label"`
	MarketCapUSD decimal.Decimal `json:"market_cap_usd"`
	Percentage   float64         `json:"percentage"`
	Text         string          `json:"text"`
	Available    bool            `json:"available"`
	Error        string          `json:"error,omitempty"`
}
