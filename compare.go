package main

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// ComparatorConfig holds the coin table and run bound for a Comparator.
type ComparatorConfig struct {
	Coins      CoinTable
	RunTimeout time.Duration
	Log        *Logger
}

// Comparator runs one reference-vs-comparisons market cap ranking per call.
type Comparator struct {
	cfg     ComparatorConfig
	fetcher MarketCapFetcher
	texts   TextTable
	m       *Metrics
}

func NewComparator(cfg ComparatorConfig, f MarketCapFetcher, m *Metrics) *Comparator {
	if cfg.RunTimeout <= 0 {
		cfg.RunTimeout = 30 * time.Second
	}
	return &Comparator{cfg: cfg, fetcher: f, texts: cfg.Coins.Texts(), m: m}
}

func (c *Comparator) Coins() CoinTable { return c.cfg.Coins }

// Run fetches the reference and every comparison asset concurrently and
// ranks the result. A reference failure cancels the outstanding fetches and
// fails the run; comparison failures only mark their record unavailable.
func (c *Comparator) Run(ctx context.Context) (*ComparisonRun, error) {
	run := NewRunContext()
	log := c.cfg.Log.With("run_id", run.ID)

	ctx, cancel := context.WithTimeout(ctx, c.cfg.RunTimeout)
	defer cancel()

	ref := c.cfg.Coins.Reference
	comps := c.cfg.Coins.Comparisons

	var refCap decimal.Decimal
	readings := make([]MarketCapReading, len(comps))

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		v, err := c.fetcher.FetchMarketCap(gctx, ref.ID)
		c.observeFetch(ctx, gctx, err)
		if err != nil {
			return fmt.Errorf("%w: reference %s: %w", ErrInvalidReference, ref.Label, err)
		}
		refCap = v
		return nil
	})
	for i, a := range comps {
		i, a := i, a
		g.Go(func() error {
			v, err := c.fetcher.FetchMarketCap(gctx, a.ID)
			if c.observeFetch(ctx, gctx, err) {
				log.Warnf("fetch %s (%s) failed: %v", a.Label, a.ID, err)
			}
			readings[i] = MarketCapReading{Asset: a, USD: v, FetchedAt: time.Now(), Err: err}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		c.m.RunFailed()
		log.Errorf("comparison aborted: %v", err)
		return nil, err
	}

	records, err := Rank(refCap, readings, c.texts)
	if err != nil {
		c.m.RunFailed()
		log.Errorf("comparison aborted: %v", err)
		return nil, err
	}

	out := &ComparisonRun{
		ID:        run.ID,
		StartedAt: run.Start,
		Elapsed:   time.Since(run.Start),
		Reference: ReferenceView{Label: ref.Label, MarketCapUSD: refCap},
		Records:   records,
	}
	c.m.RunSucceeded(out.Elapsed, out.Unavailable())
	log.Infof("comparison done: reference=%s cap=%s records=%d unavailable=%d in %s",
		ref.Label, refCap.StringFixed(0), len(records), out.Unavailable(), out.Elapsed.Round(time.Millisecond))
	return out, nil
}

// observeFetch counts one fetch outcome and reports whether it was a
// provider failure. Fetches cut short because the group was cancelled by a
// sibling are not counted.
func (c *Comparator) observeFetch(ctx, gctx context.Context, err error) bool {
	if err == nil {
		c.m.FetchSucceeded()
		return false
	}
	if gctx.Err() != nil && ctx.Err() == nil {
		return false
	}
	c.m.FetchFailed()
	return true
}

// ReferenceView is the reference asset's reading as shown to clients.
type ReferenceView struct {
	Label        string          `json:"label"`
	MarketCapUSD decimal.Decimal `json:"market_cap_usd"`
}

// ComparisonRun is the ranked outcome of one Comparator.Run.
type ComparisonRun struct {
	ID        string         `json:"run_id"`
	StartedAt time.Time      `json:"started_at"`
	Elapsed   time.Duration  `json:"-"`
	Reference ReferenceView  `json:"reference"`
	Records   []RankedRecord `json:"records"`
}

func (r *ComparisonRun) Unavailable() int {
	n := 0
	for _, rec := range r.Records {
		if !rec.Available {
			n++
		}
	}
	return n
}
