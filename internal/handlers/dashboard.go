package handlers

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/mg3/promag-api/internal/services"
)

const serviceName = "promag-backend"

var dashboardResource = resource{singular: "dashboard summary", plural: "dashboard summary", label: "Dashboard"}

// HealthResponse is the liveness payload.
type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	Timestamp time.Time `json:"timestamp"`
}

// HealthRouter registers the unauthenticated liveness probe.
func HealthRouter(r chi.Router) {
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Service:   serviceName,
			Timestamp: time.Now().UTC(),
		})
	})
}

// DashboardHandler serves the summary counters.
type DashboardHandler struct {
	service *services.DashboardService
	log     *zap.Logger
}

func NewDashboardHandler(service *services.DashboardService, log *zap.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log}
}

func DashboardRouter(r chi.Router, handler *DashboardHandler) {
	r.Get("/summary", handler.Summary)
}

func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	summary, err := h.service.Summary(r.Context())
	if err != nil {
		writeStoreError(w, r, h.log, dashboardResource, "load", dashboardResource.singular, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
