package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

var (
	version   = "dev"
	commit    = "none"
	buildDate = "unknown"
)

type CLIConfig struct {
	Port      int
	Coins     string
	LogLevel  string
	LogPretty bool
	Once      bool
	Slots     int

	CoinGeckoURL   string
	CoinGeckoKey   string
	FetchTimeoutMS int
	RunTimeoutMS   int
}

func main() {
	_ = godotenv.Load()

	cfg := CLIConfig{}

	flag.IntVar(&cfg.Port, "port", envInt("PORT", 8093), "HTTP port")
	flag.StringVar(&cfg.Coins, "coins", envString("COINS_FILE", "./coins.yaml"), "Path to coins.yaml (built-in table if missing)")
	flag.StringVar(&cfg.LogLevel, "log-level", envString("LOG_LEVEL", "info"), "Log level: debug|info|warn|error")
	flag.BoolVar(&cfg.LogPretty, "log-pretty", envBool("LOG_PRETTY", false), "Human readable console logs")
	flag.BoolVar(&cfg.Once, "once", false, "Run a single comparison, log the ranking and exit")
	flag.IntVar(&cfg.Slots, "slots", envInt("CHART_SLOTS", 0), "Chart slots on the page (0 = one per comparison asset)")

	flag.StringVar(&cfg.CoinGeckoURL, "coingecko-url", envString("COINGECKO_URL", defaultCoinGeckoURL), "CoinGecko API base URL")
	flag.StringVar(&cfg.CoinGeckoKey, "coingecko-key", envString("COINGECKO_API_KEY", ""), "Optional CoinGecko demo API key")
	flag.IntVar(&cfg.FetchTimeoutMS, "fetch-timeout-ms", envInt("FETCH_TIMEOUT_MS", 10_000), "Per-request timeout (ms)")
	flag.IntVar(&cfg.RunTimeoutMS, "run-timeout-ms", envInt("RUN_TIMEOUT_MS", 30_000), "Whole comparison timeout (ms)")

	flag.Parse()

	log := NewLogger(cfg.LogLevel, cfg.LogPretty)

	coins, fromFile, err := LoadCoinTable(cfg.Coins)
	if err != nil {
		log.Errorf("failed to load coins: %v", err)
		os.Exit(1)
	}
	if fromFile {
		log.Infof("loaded coins reference=%s comparisons=%d (%s)", coins.Reference.Label, len(coins.Comparisons), filepath.Base(cfg.Coins))
	} else {
		log.Infof("using built-in coins reference=%s comparisons=%d", coins.Reference.Label, len(coins.Comparisons))
	}

	slots := cfg.Slots
	if slots <= 0 {
		slots = len(coins.Comparisons)
	}

	metrics := NewMetrics(time.Now(), version, commit, buildDate)

	cg := NewCoinGeckoClient(CoinGeckoConfig{
		BaseURL: cfg.CoinGeckoURL,
		APIKey:  cfg.CoinGeckoKey,
		Timeout: time.Duration(cfg.FetchTimeoutMS) * time.Millisecond,
		Log:     log,
	})

	cmp := NewComparator(ComparatorConfig{
		Coins:      coins,
		RunTimeout: time.Duration(cfg.RunTimeoutMS) * time.Millisecond,
		Log:        log,
	}, cg, metrics)

	board := NewChartBoard(slots, coins.Reference.Label)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Once {
		if err := runOnce(ctx, cmp, board, log, metrics); err != nil {
			os.Exit(1)
		}
		return
	}

	httpSrv := NewHTTPServer(HTTPConfig{
		Addr:       fmt.Sprintf(":%d", cfg.Port),
		Log:        log,
		Comparator: cmp,
		Board:      board,
		M:          metrics,
	})

	go func() {
		log.Infof("http listening on http://localhost:%d (version=%s)", cfg.Port, version)
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Errorf("http server error: %v", err)
			stop()
		}
	}()

	<-ctx.Done()

	shCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	log.Infof("shutting down...")
	_ = httpSrv.Shutdown(shCtx)
	log.Infof("bye")
}

func runOnce(ctx context.Context, cmp *Comparator, board *ChartBoard, log *Logger, m *Metrics) error {
	run, err := cmp.Run(ctx)
	if err != nil {
		return err
	}
	d := RenderRun(board, run, log, m)
	for _, cv := range d.Charts {
		log.Infof("#%d %s %s | %s", cv.Slot, cv.Label, cv.Annotation, cv.Summary)
	}
	for _, dg := range d.Diagnostics {
		log.Warnf("#%d %s omitted: %s", dg.Slot, dg.Label, dg.Reason)
	}
	return nil
}

func envString(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return def
}

func envBool(k string, def bool) bool {
	v := strings.TrimSpace(strings.ToLower(os.Getenv(k)))
	if v == "" {
		return def
	}
	switch v {
	case "1", "true", "t", "yes", "y", "on":
		return true
	case "0", "false", "f", "no", "n", "off":
		return false
	default:
		return def
	}
}
