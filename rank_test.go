package main

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func reading(t *testing.T, label, usd string) MarketCapReading {
	return MarketCapReading{Asset: Asset{ID: label, Label: label}, USD: dec(t, usd)}
}

func labels(recs []RankedRecord) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.Label
	}
	return out
}

func TestRankOrdersByPercentage(t *testing.T) {
	readings := []MarketCapReading{
		reading(t, "A", "250000"),
		reading(t, "B", "2000000"),
		reading(t, "C", "1000000"),
	}

	recs, err := Rank(dec(t, "1000000"), readings, TextTable{"B": "bee"})
	require.NoError(t, err)
	require.Len(t, recs, 3)

	assert.Equal(t, []string{"A", "C", "B"}, labels(recs))
	assert.Equal(t, 25.0, recs[0].Percentage)
	assert.Equal(t, 100.0, recs[1].Percentage)
	assert.Equal(t, 200.0, recs[2].Percentage)
	assert.Equal(t, "bee", recs[2].Text)
	assert.Empty(t, recs[0].Text)
	assert.True(t, recs[0].MarketCapUSD.Equal(dec(t, "250000")))
}

func TestRankIsStableOnTies(t *testing.T) {
	readings := []MarketCapReading{
		reading(t, "X", "500"),
		reading(t, "LOW", "100"),
		reading(t, "Y", "500"),
		reading(t, "Z", "500"),
	}

	recs, err := Rank(dec(t, "1000"), readings, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"LOW", "X", "Y", "Z"}, labels(recs))
}

func TestRankMarksUnavailable(t *testing.T) {
	failed := MarketCapReading{
		Asset: Asset{ID: "b", Label: "B"},
		Err:   fmt.Errorf("%w: b: HTTP 500", ErrDataUnavailable),
	}
	readings := []MarketCapReading{
		reading(t, "A", "300"),
		failed,
		reading(t, "C", "100"),
	}

	recs, err := Rank(dec(t, "1000"), readings, nil)
	require.NoError(t, err)
	require.Len(t, recs, len(readings))

	assert.Equal(t, []string{"C", "A", "B"}, labels(recs))
	assert.True(t, recs[0].Available)
	assert.True(t, recs[1].Available)
	assert.False(t, recs[2].Available)
	assert.Contains(t, recs[2].Error, "HTTP 500")
	assert.Zero(t, recs[2].Percentage)
}

func TestRankRejectsNonPositiveReference(t *testing.T) {
	for _, ref := range []string{"0", "-5"} {
		recs, err := Rank(dec(t, ref), []MarketCapReading{reading(t, "A", "1")}, nil)
		assert.True(t, errors.Is(err, ErrInvalidReference), "ref=%s", ref)
		assert.Nil(t, recs)
	}
}

func TestRankEmptyInput(t *testing.T) {
	recs, err := Rank(dec(t, "1"), nil, nil)
	require.NoError(t, err)
	assert.Empty(t, recs)
}

func TestPercentageMonotonicInPart(t *testing.T) {
	ref := dec(t, "123456.789")
	prev := -1.0
	for _, c := range []string{"0", "1", "10.5", "1000", "123456.789", "999999999"} {
		p := Percentage(dec(t, c), ref)
		assert.Greater(t, p, prev, "cap=%s", c)
		prev = p
	}
	assert.InDelta(t, 100.0, Percentage(ref, ref), 1e-9)
}
