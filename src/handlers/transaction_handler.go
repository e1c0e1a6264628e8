// src/handlers/transaction_handler.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/username/fintrack/src/logger"
	"github.com/username/fintrack/src/security/validation"
	"github.com/username/fintrack/src/services"
)

type TransactionHandler struct {
	transactionService services.TransactionService
}

func NewTransactionHandler(transactionService services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: transactionService}
}

// HandleListTransactions serves GET /api/transactions with optional date
// range, substring and pagination parameters.
func (h *TransactionHandler) HandleListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	query := r.URL.Query()
	params := services.ListTransactionsParams{
		Category:    query.Get("category"),
		Description: query.Get("description"),
	}

	if v := query.Get("startDate"); v != "" {
		t, err := time.Parse(validation.DateLayout, v)
		if err != nil {
			sendJSONError(w, "startDate must be a valid date in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
		params.StartDate = &t
	}
	if v := query.Get("endDate"); v != "" {
		t, err := time.Parse(validation.DateLayout, v)
		if err != nil {
			sendJSONError(w, "endDate must be a valid date in YYYY-MM-DD format", http.StatusBadRequest)
			return
		}
		params.EndDate = &t
	}
	if v := query.Get("page"); v != "" {
		if page, err := strconv.Atoi(v); err == nil {
			params.Page = page
		}
	}
	if v := query.Get("limit"); v != "" {
		if limit, err := strconv.Atoi(v); err == nil {
			params.Limit = limit
		}
	}

	result, err := h.transactionService.ListTransactions(userID, params)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to list transactions", "error", err)
		sendJSONError(w, "Failed to retrieve transactions", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(result)
}

// HandleCreateTransaction serves POST /api/transactions.
func (h *TransactionHandler) HandleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	input, ok := decodeTransactionInput(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.CreateTransaction(userID, input)
	if err != nil {
		logger.ErrorFromContext(r.Context(), "Failed to create transaction", "error", err)
		sendJSONError(w, "Failed to create transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(map[string]any{
		"message":     "Transaction created successfully",
		"transaction": tx,
	})
}

// HandleUpdateTransaction serves PUT /api/transactions/{id}. A transaction
// owned by another user is reported as not found.
func (h *TransactionHandler) HandleUpdateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	input, ok := decodeTransactionInput(w, r)
	if !ok {
		return
	}

	tx, err := h.transactionService.UpdateTransaction(userID, id, input)
	if err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to update transaction", "transactionID", id, "error", err)
		sendJSONError(w, "Failed to update transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]any{
		"message":     "Transaction updated successfully",
		"transaction": tx,
	})
}

// HandleDeleteTransaction serves DELETE /api/transactions/{id}.
func (h *TransactionHandler) HandleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserIDFromContext(r.Context())
	if !ok {
		sendJSONError(w, "authentication required", http.StatusUnauthorized)
		return
	}

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		sendJSONError(w, "Invalid transaction id", http.StatusBadRequest)
		return
	}

	if err := h.transactionService.DeleteTransaction(userID, id); err != nil {
		if errors.Is(err, services.ErrTransactionNotFound) {
			sendJSONError(w, "Transaction not found", http.StatusNotFound)
			return
		}
		logger.ErrorFromContext(r.Context(), "Failed to delete transaction", "transactionID", id, "error", err)
		sendJSONError(w, "Failed to delete transaction", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{
		"message": "Transaction deleted successfully",
	})
}

// decodeTransactionInput decodes, sanitizes and validates a create/update
// body. On failure it writes the error response and returns ok=false.
func decodeTransactionInput(w http.ResponseWriter, r *http.Request) (services.TransactionInput, bool) {
	var input services.TransactionInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		sendJSONError(w, "Invalid request body", http.StatusBadRequest)
		return input, false
	}

	input.Description = validation.SanitizeText(validation.StripUnprintable(strings.TrimSpace(input.Description)))
	input.Category = validation.SanitizeText(validation.StripUnprintable(strings.TrimSpace(input.Category)))
	input.Type = strings.TrimSpace(input.Type)
	input.Date = strings.TrimSpace(input.Date)

	if err := validation.ValidateDateString(input.Date, "date"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	if err := validation.ValidateStringNotEmpty(input.Description, "description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	if err := validation.ValidateStringMaxLength(input.Description, validation.MaxDescriptionLength, "description"); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	if err := validation.ValidateAmount(input.Amount); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	if err := validation.ValidateTransactionType(input.Type); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}
	if err := validation.ValidateCategoryForType(input.Category, input.Type); err != nil {
		sendJSONError(w, err.Error(), http.StatusBadRequest)
		return input, false
	}

	return input, true
}
