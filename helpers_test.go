package main

import (
	"context"
	"fmt"
	"io"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

func testLogger() *Logger { return newLoggerTo(io.Discard, "debug", false) }

func testMetrics() *Metrics { return NewMetrics(time.Now(), "test", "none", "unknown") }

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	return decimal.RequireFromString(s)
}

// fakeFetcher answers from fixed tables. Blocked ids wait for cancellation.
type fakeFetcher struct {
	caps    map[string]string
	errs    map[string]error
	blocked map[string]bool

	calls atomic.Int64
}

func (f *fakeFetcher) FetchMarketCap(ctx context.Context, id string) (decimal.Decimal, error) {
	f.calls.Add(1)
	if f.blocked[id] {
		<-ctx.Done()
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, id, ctx.Err())
	}
	if err := f.errs[id]; err != nil {
		return decimal.Zero, err
	}
	v, ok := f.caps[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("%w: %s: unknown coin", ErrDataUnavailable, id)
	}
	return decimal.RequireFromString(v), nil
}

type mockFetcher struct {
	mock.Mock
}

func (m *mockFetcher) FetchMarketCap(ctx context.Context, id string) (decimal.Decimal, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

func testCoins() CoinTable {
	return CoinTable{
		Reference: Asset{ID: "ref", Label: "REF"},
		Comparisons: []Asset{
			{ID: "a", Label: "A", Text: "alpha"},
			{ID: "b", Label: "B"},
			{ID: "c", Label: "C", Text: "gamma"},
		},
	}
}
