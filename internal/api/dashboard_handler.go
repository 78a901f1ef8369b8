package api

import (
	"net/http"

	"github.com/clubworks/clubd/internal/stats"
)

// dashboardHandler serves the admin dashboard summary.
type dashboardHandler struct {
	stats *stats.Service
}

func newDashboardHandler(service *stats.Service) *dashboardHandler {
	return &dashboardHandler{stats: service}
}

// GetDashboard handles GET /api/admin/dashboard.
func (h *dashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.stats.Summarize(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "failed to compute dashboard stats")
		return
	}
	writeSuccess(w, http.StatusOK, map[string]any{"stats": summary})
}
