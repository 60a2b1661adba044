package health

import (
	"context"
	"net/http"
	"time"

	"github.com/disha2301/employee-payroll-application/internal/httputil"
	"github.com/disha2301/employee-payroll-application/internal/metrics"

	"github.com/go-chi/chi/v5"
)

const checkTimeout = 2 * time.Second

// Check probes one dependency. A nil error means ready.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

type Handler struct {
	checks  []Check
	metrics *metrics.HealthMetrics
}

func NewHandler(m *metrics.HealthMetrics, checks ...Check) *Handler {
	return &Handler{
		checks:  checks,
		metrics: m,
	}
}

func (h *Handler) RegisterRoutes(router chi.Router) {
	router.Get("/health", h.Health)
	router.Get("/ready", h.Ready)
}

type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
}

func (h *Handler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), checkTimeout)
	defer cancel()

	results := make(map[string]string, len(h.checks))
	ready := true
	for _, check := range h.checks {
		start := time.Now()
		err := check.Probe(ctx)
		h.metrics.RecordDependencyCheck(ctx, check.Name, time.Since(start), err)

		if err != nil {
			ready = false
			results[check.Name] = err.Error()
			continue
		}
		results[check.Name] = "ok"
	}

	if !ready {
		httputil.RespondWithJSON(w, http.StatusServiceUnavailable, HealthResponse{Status: "not ready", Checks: results})
		return
	}
	httputil.RespondWithJSON(w, http.StatusOK, HealthResponse{Status: "ready", Checks: results})
}
