package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const defaultCoinGeckoURL = "https://api.coingecko.com/api/v3"

// MarketCapFetcher resolves a provider coin id to its USD market cap.
type MarketCapFetcher interface {
	FetchMarketCap(ctx context.Context, coinID string) (decimal.Decimal, error)
}

// CoinGeckoConfig configures a CoinGeckoClient.
type CoinGeckoConfig struct {
	BaseURL string
	APIKey  string // optional demo key
	Timeout time.Duration
	Log     *Logger
}

// CoinGeckoClient reads market caps from the CoinGecko coin-detail endpoint.
type CoinGeckoClient struct {
	cfg  CoinGeckoConfig
	http *http.Client
}

func NewCoinGeckoClient(cfg CoinGeckoConfig) *CoinGeckoClient {
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultCoinGeckoURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	return &CoinGeckoClient{
		cfg: cfg,
		http: &http.Client{
			Timeout: cfg.Timeout,
			Transport: &http.Transport{
				MaxIdleConns:        10,
				MaxIdleConnsPerHost: 10,
				IdleConnTimeout:     30 * time.Second,
			},
		},
	}
}

type coinDetail struct {
	ID         string `json:"id"`
	MarketData *struct {
		MarketCap map[string]*decimal.Decimal `json:"market_cap"`
	} `json:"market_data"`
}

// FetchMarketCap returns the current USD market cap for a CoinGecko coin id.
// Every failure wraps ErrDataUnavailable.
func (c *CoinGeckoClient) FetchMarketCap(ctx context.Context, coinID string) (decimal.Decimal, error) {
	u := c.cfg.BaseURL + "/coins/" + url.PathEscape(coinID) +
		"?localization=false&tickers=false&community_data=false&developer_data=false&sparkline=false"

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: build request: %v", ErrDataUnavailable, coinID, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.cfg.APIKey != "" {
		req.Header.Set("x-cg-demo-api-key", c.cfg.APIKey)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: %v", ErrDataUnavailable, coinID, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return decimal.Zero, fmt.Errorf("%w: %s: HTTP %d: %s", ErrDataUnavailable, coinID, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var cd coinDetail
	if err := json.NewDecoder(resp.Body).Decode(&cd); err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s: decode: %v", ErrDataUnavailable, coinID, err)
	}
	if cd.MarketData == nil {
		return decimal.Zero, fmt.Errorf("%w: %s: response has no market_data", ErrDataUnavailable, coinID)
	}
	usd := cd.MarketData.MarketCap["usd"]
	if usd == nil {
		return decimal.Zero, fmt.Errorf("%w: %s: response has no usd market cap", ErrDataUnavailable, coinID)
	}
	if usd.IsNegative() {
		return decimal.Zero, fmt.Errorf("%w: %s: negative market cap %s", ErrDataUnavailable, coinID, usd.String())
	}

	if c.cfg.Log != nil {
		c.cfg.Log.Debugf("coingecko %s market_cap_usd=%s in %s", coinID, usd.String(), time.Since(start).Round(time.Millisecond))
	}
	return *usd, nil
}
