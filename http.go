package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type HTTPConfig struct {
	Addr       string
	Log        *Logger
	Comparator *Comparator
	Board      *ChartBoard
	M          *Metrics
}

type HTTPServer struct {
	cfg HTTPConfig

	// one comparison+render at a time so the board matches the response
	renderMu sync.Mutex
}

func NewHTTPServer(cfg HTTPConfig) *http.Server {
	hs := &HTTPServer{cfg: cfg}
	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      hs.Routes(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 60 * time.Second,
	}
}

func (hs *HTTPServer) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/", hs.handleDashboard)
	r.Get("/health", hs.handleHealth)
	r.Get("/coins", hs.handleCoins)

	r.Route("/api", func(r chi.Router) {
		r.Get("/compare", hs.handleCompare)
		r.Get("/charts", hs.handleCharts)
	})
	return r
}

func (hs *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, hs.cfg.M.Snapshot())
}

func (hs *HTTPServer) handleCoins(w http.ResponseWriter, r *http.Request) {
	coins := hs.cfg.Comparator.Coins()
	writeJSON(w, http.StatusOK, map[string]any{
		"reference":   coins.Reference,
		"comparisons": coins.Comparisons,
		"slots":       hs.cfg.Board.Slots(),
	})
}

func (hs *HTTPServer) handleCompare(w http.ResponseWriter, r *http.Request) {
	hs.renderMu.Lock()
	defer hs.renderMu.Unlock()

	run, err := hs.cfg.Comparator.Run(r.Context())
	if err != nil {
		status := http.StatusBadGateway
		if r.Context().Err() != nil {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, map[string]any{
			"error":             err.Error(),
			"invalid_reference": errors.Is(err, ErrInvalidReference),
			"data_unavailable":  errors.Is(err, ErrDataUnavailable),
		})
		return
	}

	writeJSON(w, http.StatusOK, RenderRun(hs.cfg.Board, run, hs.cfg.Log, hs.cfg.M))
}

func (hs *HTTPServer) handleCharts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"charts": hs.cfg.Board.Charts(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (hs *HTTPServer) handleDashboard(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	fmt.Fprint(w, dashboardHTML(hs.cfg.Board.Slots()))
}
