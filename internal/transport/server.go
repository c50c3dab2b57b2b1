// Package transport serves the read API and the websocket broadcast channel.
package transport

import (
	"encoding/json"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

type Config struct {
	AllowedOrigins []string
	// IndexFile is served at / when set.
	IndexFile string
}

type handler struct {
	state  StateReader
	phases PhaseReader
	prices PriceFetcher
	logger *zap.Logger
}

// NewHandler routes the read API, metrics, websocket and optional index page.
func NewHandler(cfg Config, state StateReader, phases PhaseReader, prices PriceFetcher, hub *Hub, logger *zap.Logger) http.Handler {
	h := &handler{state: state, phases: phases, prices: prices, logger: logger}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/supply", h.supply)
	mux.HandleFunc("GET /api/current", h.current)
	mux.HandleFunc("GET /api/daily", h.daily)
	mux.HandleFunc("GET /prices", h.fetchPrices)
	mux.HandleFunc("GET /health", h.health)
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.HandleFunc("/ws", hub.ServeWS)
	if cfg.IndexFile != "" {
		mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
			http.ServeFile(w, r, cfg.IndexFile)
		})
	}

	c := cors.Default()
	if len(cfg.AllowedOrigins) > 0 {
		c = cors.New(cors.Options{AllowedOrigins: cfg.AllowedOrigins})
	}
	return c.Handler(mux)
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Debug("write response", zap.Error(err))
	}
}

func (h *handler) supply(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state.Supply())
}

func (h *handler) current(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state.Snapshot())
}

func (h *handler) daily(w http.ResponseWriter, _ *http.Request) {
	h.writeJSON(w, http.StatusOK, h.state.Daily())
}

func (h *handler) fetchPrices(w http.ResponseWriter, r *http.Request) {
	info, err := h.prices.Fetch(r.Context())
	if err != nil {
		h.logger.Warn("price lookup failed", zap.Error(err))
		h.writeJSON(w, http.StatusBadGateway, map[string]string{"error": "price lookup failed"})
		return
	}
	h.writeJSON(w, http.StatusOK, info)
}

func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	phase := h.phases.Phase()
	height := h.state.Snapshot().Height
	h.writeJSON(w, http.StatusOK, map[string]any{"phase": phase.String(), "height": height})
}
