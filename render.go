package main

import (
	"fmt"
	"sort"
	"strconv"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// ChartView is everything the page needs to draw one flippening bar.
type ChartView struct {
	Slot           int     `json:"slot"`
	CanvasID       string  `json:"canvas_id"`
	MarketCapID    string  `json:"market_cap_id"`
	TextID         string  `json:"text_id"`
	Title          string  `json:"title"`
	ReferenceLabel string  `json:"reference_label"`
	Label          string  `json:"label"`
	ReferenceShare float64 `json:"reference_share"`
	Remainder      float64 `json:"remainder"`
	Annotation     string  `json:"annotation"`
	Summary        string  `json:"summary"`
	Text           string  `json:"text"`
}

// ChartBoard owns the charts currently drawn, keyed by slot. Drawing into an
// occupied slot replaces what was there.
type ChartBoard struct {
	slots   int
	refName string

	mu     sync.Mutex
	charts map[int]ChartView
}

func NewChartBoard(slots int, referenceLabel string) *ChartBoard {
	return &ChartBoard{
		slots:   slots,
		refName: referenceLabel,
		charts:  make(map[int]ChartView, slots),
	}
}

func (b *ChartBoard) Slots() int { return b.slots }

func canvasID(slot int) string { return "chart" + strconv.Itoa(slot) }

// Render draws one comparison into slot (1-based).
func (b *ChartBoard) Render(slot int, label string, otherCap, refCap decimal.Decimal, text string) (ChartView, error) {
	if slot < 1 || slot > b.slots {
		return ChartView{}, fmt.Errorf("%w: %s", ErrRenderTargetMissing, canvasID(slot))
	}
	if !otherCap.IsPositive() {
		return ChartView{}, fmt.Errorf("%w: %s market cap is %s", ErrDataUnavailable, label, otherCap.String())
	}

	share := Percentage(refCap, otherCap)
	n := strconv.Itoa(slot)
	cv := ChartView{
		Slot:           slot,
		CanvasID:       canvasID(slot),
		MarketCapID:    "marketCap" + n,
		TextID:         "specificText" + n,
		Title:          fmt.Sprintf("The flippening from %s to %s is completed at...", titleCase(b.refName), label),
		ReferenceLabel: b.refName,
		Label:          label,
		ReferenceShare: share,
		Remainder:      100 - share,
		Annotation:     strconv.FormatFloat(share, 'f', 1, 64) + "%",
		Summary:        MarketCapSummary(label, otherCap, b.refName, refCap),
		Text:           text,
	}

	b.mu.Lock()
	b.charts[slot] = cv
	b.mu.Unlock()
	return cv, nil
}

// Clear removes the chart in slot, if any.
func (b *ChartBoard) Clear(slot int) {
	b.mu.Lock()
	delete(b.charts, slot)
	b.mu.Unlock()
}

func (b *ChartBoard) Charts() []ChartView {
	b.mu.Lock()
	out := make([]ChartView, 0, len(b.charts))
	for _, cv := range b.charts {
		out = append(out, cv)
	}
	b.mu.Unlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Slot < out[j].Slot })
	return out
}

var usdPrinter = message.NewPrinter(language.AmericanEnglish)

func formatUSD(v decimal.Decimal) string {
	return "$" + usdPrinter.Sprintf("%d", v.Round(0).IntPart())
}

func MarketCapSummary(label string, otherCap decimal.Decimal, refLabel string, refCap decimal.Decimal) string {
	return fmt.Sprintf("%s Market Cap: %s, %s Market Cap: %s", label, formatUSD(otherCap), refLabel, formatUSD(refCap))
}

// "KUJIRA" -> "Kujira"
func titleCase(s string) string {
	if len(s) < 2 {
		return s
	}
	b := []byte(s)
	for i := 1; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

type Diagnostic struct {
	Label  string `json:"label"`
	Slot   int    `json:"slot"`
	Reason string `json:"reason"`
}

type Dashboard struct {
	Run         *ComparisonRun `json:"run"`
	Charts      []ChartView    `json:"charts"`
	Diagnostics []Diagnostic   `json:"diagnostics,omitempty"`
}

// RenderRun hands every ranked record to the board. Records that cannot be
// drawn are skipped with a diagnostic and their slot is cleared.
func RenderRun(b *ChartBoard, run *ComparisonRun, log *Logger, m *Metrics) Dashboard {
	d := Dashboard{Run: run}
	refCap := run.Reference.MarketCapUSD

	for i, rec := range run.Records {
		slot := i + 1
		if !rec.Available {
			b.Clear(slot)
			d.Diagnostics = append(d.Diagnostics, Diagnostic{Label: rec.Label, Slot: slot, Reason: rec.Error})
			m.RenderSkipped()
			log.Warnf("render skip %s slot=%d: %s", rec.Label, slot, rec.Error)
			continue
		}
		cv, err := b.Render(slot, rec.Label, rec.MarketCapUSD, refCap, rec.Text)
		if err != nil {
			b.Clear(slot)
			d.Diagnostics = append(d.Diagnostics, Diagnostic{Label: rec.Label, Slot: slot, Reason: err.Error()})
			m.RenderSkipped()
			log.Warnf("render skip %s slot=%d: %v", rec.Label, slot, err)
			continue
		}
		d.Charts = append(d.Charts, cv)
	}
	return d
}
