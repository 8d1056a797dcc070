package main

import (
	"fmt"
	"sort"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Rank turns readings into records ordered by percentage of the reference
// cap, ascending. Ties keep input order; unavailable readings trail the
// available ones, also in input order. Every reading yields one record.
func Rank(reference decimal.Decimal, readings []MarketCapReading, texts TextTable) ([]RankedRecord, error) {
	if !reference.IsPositive() {
		return nil, fmt.Errorf("%w: %s", ErrInvalidReference, reference.String())
	}

	out := make([]RankedRecord, 0, len(readings))
	for _, rd := range readings {
		rec := RankedRecord{
			Label: rd.Asset.Label,
			Text:  texts.Lookup(rd.Asset.Label),
		}
		if rd.Err != nil {
			rec.Error = rd.Err.Error()
		} else {
			rec.Available = true
			rec.MarketCapUSD = rd.USD
			rec.Percentage = Percentage(rd.USD, reference)
		}
		out = append(out, rec)
	}

	sortRanked(out)
	return out, nil
}

// Percentage is 100*part/whole. whole must be positive.
func Percentage(part, whole decimal.Decimal) float64 {
	return part.Mul(hundred).Div(whole).InexactFloat64()
}

func sortRanked(rows []RankedRecord) {
	sort.SliceStable(rows, func(i, j int) bool {
		a, b := rows[i], rows[j]
		if a.Available != b.Available {
			return a.Available
		}
		if !a.Available {
			return false
		}
		return a.Percentage < b.Percentage
	})
}
