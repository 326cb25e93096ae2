package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Teara-exe/starryCafeBot/core/log"
)

// WatchCounter reports how many messages are currently monitored
type WatchCounter interface {
	Count() int
}

// OpsHandler serves the health and metrics endpoints
type OpsHandler struct {
	gatherer prometheus.Gatherer
	tracking WatchCounter
}

func NewOpsHandler(gatherer prometheus.Gatherer, tracking WatchCounter) *OpsHandler {
	return &OpsHandler{
		gatherer: gatherer,
		tracking: tracking,
	}
}

// SetupEndpoints registers the ops routes on router
func (h *OpsHandler) SetupEndpoints(router *mux.Router) {
	router.HandleFunc("/health", h.handleHealth).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
}

func (h *OpsHandler) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	body := map[string]any{
		"status":           "ok",
		"watched_messages": h.tracking.Count(),
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error("❌ Failed to write health check response", "error", err)
	}
}
