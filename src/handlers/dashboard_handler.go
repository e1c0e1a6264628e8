// src/handlers/dashboard_handler.go
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/username/fintrack/src/logger"
	"github.com/username/fintrack/src/services"
)

// DashboardHandler composes the dashboard summary: period resolution plus
// the aggregation engine's dashboard payload. No logic of its own beyond
// parameter parsing.
type DashboardHandler struct {
	analyticsService services.AnalyticsService
}

func NewDashboardHandler(analyticsService services.AnalyticsService) *DashboardHandler {
	return &DashboardHandler{analyticsService: analyticsService}
}

// HandleSummary serves GET /api/summary: income/expense totals and balance
// for the requested period plus the latest activity.
func (h *DashboardHandler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	month, year, ok := parsePeriodParams(w, r)
	if !ok {
		return
	}

	result, err := h.analyticsService.DashboardSummary(userID, services.ResolvePeriod(month, year))
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to compute dashboard summary", "error", err)
		sendJSONError(w, "Failed to retrieve dashboard summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}
