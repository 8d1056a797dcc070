package main

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCoinGecko(t *testing.T, h http.HandlerFunc, timeout time.Duration) *CoinGeckoClient {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return NewCoinGeckoClient(CoinGeckoConfig{BaseURL: srv.URL + "/", Timeout: timeout, Log: testLogger()})
}

func TestCoinGeckoFetchMarketCap(t *testing.T) {
	var gotPath, gotKey string
	c := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-cg-demo-api-key")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"kujira","market_data":{"market_cap":{"usd":123456789.5,"eur":1}}}`))
	}, time.Second)

	v, err := c.FetchMarketCap(context.Background(), "kujira")
	require.NoError(t, err)
	assert.True(t, v.Equal(dec(t, "123456789.5")), "got %s", v)
	assert.Equal(t, "/coins/kujira", gotPath)
	assert.Empty(t, gotKey)
}

func TestCoinGeckoSendsAPIKey(t *testing.T) {
	var gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-cg-demo-api-key")
		_, _ = w.Write([]byte(`{"market_data":{"market_cap":{"usd":1}}}`))
	}))
	defer srv.Close()

	c := NewCoinGeckoClient(CoinGeckoConfig{BaseURL: srv.URL, APIKey: "demo-key"})
	_, err := c.FetchMarketCap(context.Background(), "osmosis")
	require.NoError(t, err)
	assert.Equal(t, "demo-key", gotKey)
}

func TestCoinGeckoFailuresAreDataUnavailable(t *testing.T) {
	cases := map[string]http.HandlerFunc{
		"status": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"rate limited"}`, http.StatusTooManyRequests)
		},
		"bad json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"market_data":`))
		},
		"no market data": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"id":"x"}`))
		},
		"no usd": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"market_data":{"market_cap":{"eur":10}}}`))
		},
		"null usd": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"market_data":{"market_cap":{"usd":null}}}`))
		},
		"negative": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"market_data":{"market_cap":{"usd":-1}}}`))
		},
	}
	for name, h := range cases {
		t.Run(name, func(t *testing.T) {
			c := newTestCoinGecko(t, h, time.Second)
			_, err := c.FetchMarketCap(context.Background(), "x")
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrDataUnavailable), "err=%v", err)
		})
	}
}

func TestCoinGeckoTimeout(t *testing.T) {
	c := newTestCoinGecko(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}, 50*time.Millisecond)

	start := time.Now()
	_, err := c.FetchMarketCap(context.Background(), "slow")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDataUnavailable))
	assert.Less(t, time.Since(start), time.Second)
}

func TestCoinGeckoDefaultBaseURL(t *testing.T) {
	c := NewCoinGeckoClient(CoinGeckoConfig{})
	assert.Equal(t, defaultCoinGeckoURL, c.cfg.BaseURL)
	assert.Equal(t, 10*time.Second, c.http.Timeout)
}
