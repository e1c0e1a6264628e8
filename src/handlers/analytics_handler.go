// src/handlers/analytics_handler.go
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/username/fintrack/src/logger"
	"github.com/username/fintrack/src/model"
	"github.com/username/fintrack/src/security/validation"
	"github.com/username/fintrack/src/services"
)

type AnalyticsHandler struct {
	analyticsService services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// HandleCategorySummary serves GET /api/analytics/category-summary: spending
// (or income) grouped by category over an optional month/year period.
func (h *AnalyticsHandler) HandleCategorySummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	month, year, ok := parsePeriodParams(w, r)
	if !ok {
		return
	}

	txType := r.URL.Query().Get("type")
	if txType == "" {
		txType = model.TypeExpense
	}
	if err := validation.ValidateTransactionType(txType); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.analyticsService.CategorySummary(userID, txType, services.ResolvePeriod(month, year))
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to compute category summary", "error", err)
		sendJSONError(w, "Failed to retrieve category summary", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// parsePeriodParams reads optional month/year query parameters, 0 meaning
// absent. Non-numeric values are rejected; range checking is left to the
// period resolver's deterministic arithmetic.
func parsePeriodParams(w http.ResponseWriter, r *http.Request) (month, year int, ok bool) {
	query := r.URL.Query()
	if v := query.Get("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			sendJSONError(w, "month must be an integer", http.StatusBadRequest)
			return 0, 0, false
		}
		month = m
	}
	if v := query.Get("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			sendJSONError(w, "year must be an integer", http.StatusBadRequest)
			return 0, 0, false
		}
		year = y
	}
	return month, year, true
}
