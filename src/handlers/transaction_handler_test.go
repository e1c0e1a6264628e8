package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/username/fintrack/src/logger"
	"github.com/username/fintrack/src/model"
	"github.com/username/fintrack/src/services"
)

func TestMain(m *testing.M) {
	logger.InitLogger("error")
	os.Exit(m.Run())
}

// stubTransactionService records the arguments it was called with and returns
// canned results.
type stubTransactionService struct {
	listResult *services.TransactionListResult
	txResult   *model.Transaction
	err        error

	gotUserID int64
	gotID     int64
	gotParams services.ListTransactionsParams
	gotInput  services.TransactionInput
}

func (s *stubTransactionService) ListTransactions(userID int64, params services.ListTransactionsParams) (*services.TransactionListResult, error) {
	s.gotUserID, s.gotParams = userID, params
	return s.listResult, s.err
}

func (s *stubTransactionService) CreateTransaction(userID int64, input services.TransactionInput) (*model.Transaction, error) {
	s.gotUserID, s.gotInput = userID, input
	return s.txResult, s.err
}

func (s *stubTransactionService) UpdateTransaction(userID, id int64, input services.TransactionInput) (*model.Transaction, error) {
	s.gotUserID, s.gotID, s.gotInput = userID, id, input
	return s.txResult, s.err
}

func (s *stubTransactionService) DeleteTransaction(userID, id int64) error {
	s.gotUserID, s.gotID = userID, id
	return s.err
}

func authenticatedRequest(method, target, body string, userID int64) *http.Request {
	var r *http.Request
	if body == "" {
		r = httptest.NewRequest(method, target, nil)
	} else {
		r = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	return r.WithContext(context.WithValue(r.Context(), userIDContextKey, userID))
}

func withURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

func decodeErrorBody(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]string
	if err := json.NewDecoder(rr.Body).Decode(&body); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return body["error"]
}

func TestHandleListTransactions(t *testing.T) {
	stub := &stubTransactionService{listResult: &services.TransactionListResult{
		Transactions: []model.Transaction{},
		Pagination:   services.Pagination{CurrentPage: 1},
	}}
	h := NewTransactionHandler(stub)

	t.Run("passes filters through to the service", func(t *testing.T) {
		r := authenticatedRequest(http.MethodGet,
			"/api/transactions?category=food&description=coffee&startDate=2024-01-01&endDate=2024-01-31&page=2&limit=10", "", 7)
		rr := httptest.NewRecorder()
		h.HandleListTransactions(rr, r)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if stub.gotUserID != 7 {
			t.Errorf("userID = %d, want 7", stub.gotUserID)
		}
		p := stub.gotParams
		if p.Category != "food" || p.Description != "coffee" || p.Page != 2 || p.Limit != 10 {
			t.Errorf("params = %+v", p)
		}
		if p.StartDate == nil || p.StartDate.Format("2006-01-02") != "2024-01-01" {
			t.Errorf("startDate = %v", p.StartDate)
		}
		if p.EndDate == nil || p.EndDate.Format("2006-01-02") != "2024-01-31" {
			t.Errorf("endDate = %v", p.EndDate)
		}
	})

	t.Run("rejects a malformed date", func(t *testing.T) {
		r := authenticatedRequest(http.MethodGet, "/api/transactions?startDate=31-01-2024", "", 7)
		rr := httptest.NewRecorder()
		h.HandleListTransactions(rr, r)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("rejects an unauthenticated request", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/api/transactions", nil)
		rr := httptest.NewRecorder()
		h.HandleListTransactions(rr, r)

		if rr.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rr.Code)
		}
	})
}

func TestHandleCreateTransaction(t *testing.T) {
	validBody := `{"date":"2024-05-01","description":"lunch","amount":12.5,"category":"Food","type":"Expense"}`

	t.Run("creates and returns 201", func(t *testing.T) {
		stub := &stubTransactionService{txResult: &model.Transaction{ID: 42, Description: "lunch"}}
		h := NewTransactionHandler(stub)

		rr := httptest.NewRecorder()
		h.HandleCreateTransaction(rr, authenticatedRequest(http.MethodPost, "/api/transactions", validBody, 7))

		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
		}
		var resp struct {
			Message     string            `json:"message"`
			Transaction model.Transaction `json:"transaction"`
		}
		if err := json.NewDecoder(rr.Body).Decode(&resp); err != nil {
			t.Fatalf("decode response: %v", err)
		}
		if resp.Transaction.ID != 42 {
			t.Errorf("transaction id = %d, want 42", resp.Transaction.ID)
		}
	})

	t.Run("strips control characters from text fields", func(t *testing.T) {
		stub := &stubTransactionService{txResult: &model.Transaction{ID: 1}}
		h := NewTransactionHandler(stub)

		body := `{"date":"2024-05-01","description":"lu\u0000n\u0007ch","amount":12.5,"category":"Food","type":"Expense"}`
		rr := httptest.NewRecorder()
		h.HandleCreateTransaction(rr, authenticatedRequest(http.MethodPost, "/api/transactions", body, 7))

		if rr.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rr.Code, rr.Body.String())
		}
		if stub.gotInput.Description != "lunch" {
			t.Errorf("description = %q, want %q", stub.gotInput.Description, "lunch")
		}
	})

	invalidBodies := map[string]string{
		"malformed JSON":         `{"date":`,
		"bad date":               `{"date":"01/05/2024","description":"lunch","amount":12.5,"category":"Food","type":"Expense"}`,
		"empty description":      `{"date":"2024-05-01","description":" ","amount":12.5,"category":"Food","type":"Expense"}`,
		"zero amount":            `{"date":"2024-05-01","description":"lunch","amount":0,"category":"Food","type":"Expense"}`,
		"negative amount":        `{"date":"2024-05-01","description":"lunch","amount":-5,"category":"Food","type":"Expense"}`,
		"unknown type":           `{"date":"2024-05-01","description":"lunch","amount":12.5,"category":"Food","type":"Transfer"}`,
		"category of wrong type": `{"date":"2024-05-01","description":"lunch","amount":12.5,"category":"Salary","type":"Expense"}`,
	}
	for name, body := range invalidBodies {
		t.Run("rejects "+name, func(t *testing.T) {
			stub := &stubTransactionService{}
			h := NewTransactionHandler(stub)

			rr := httptest.NewRecorder()
			h.HandleCreateTransaction(rr, authenticatedRequest(http.MethodPost, "/api/transactions", body, 7))

			if rr.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want 400 (%s)", rr.Code, decodeErrorBody(t, rr))
			}
			if stub.gotInput.Date != "" {
				t.Error("service should not be called on invalid input")
			}
		})
	}
}

func TestHandleUpdateTransaction(t *testing.T) {
	validBody := `{"date":"2024-05-01","description":"lunch","amount":12.5,"category":"Food","type":"Expense"}`

	t.Run("updates by id", func(t *testing.T) {
		stub := &stubTransactionService{txResult: &model.Transaction{ID: 9, Description: "lunch"}}
		h := NewTransactionHandler(stub)

		r := withURLParam(authenticatedRequest(http.MethodPut, "/api/transactions/9", validBody, 7), "id", "9")
		rr := httptest.NewRecorder()
		h.HandleUpdateTransaction(rr, r)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rr.Code, rr.Body.String())
		}
		if stub.gotID != 9 || stub.gotUserID != 7 {
			t.Errorf("called with id=%d user=%d", stub.gotID, stub.gotUserID)
		}
	})

	t.Run("non-numeric id is a bad request", func(t *testing.T) {
		h := NewTransactionHandler(&stubTransactionService{})
		r := withURLParam(authenticatedRequest(http.MethodPut, "/api/transactions/abc", validBody, 7), "id", "abc")
		rr := httptest.NewRecorder()
		h.HandleUpdateTransaction(rr, r)

		if rr.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rr.Code)
		}
	})

	t.Run("missing or foreign transaction is 404", func(t *testing.T) {
		h := NewTransactionHandler(&stubTransactionService{err: services.ErrTransactionNotFound})
		r := withURLParam(authenticatedRequest(http.MethodPut, "/api/transactions/9", validBody, 7), "id", "9")
		rr := httptest.NewRecorder()
		h.HandleUpdateTransaction(rr, r)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
		if msg := decodeErrorBody(t, rr); msg != "Transaction not found" {
			t.Errorf("error = %q", msg)
		}
	})
}

func TestHandleDeleteTransaction(t *testing.T) {
	t.Run("deletes by id", func(t *testing.T) {
		stub := &stubTransactionService{}
		h := NewTransactionHandler(stub)

		r := withURLParam(authenticatedRequest(http.MethodDelete, "/api/transactions/3", "", 7), "id", "3")
		rr := httptest.NewRecorder()
		h.HandleDeleteTransaction(rr, r)

		if rr.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rr.Code)
		}
		if stub.gotID != 3 || stub.gotUserID != 7 {
			t.Errorf("called with id=%d user=%d", stub.gotID, stub.gotUserID)
		}
	})

	t.Run("missing or foreign transaction is 404", func(t *testing.T) {
		h := NewTransactionHandler(&stubTransactionService{err: services.ErrTransactionNotFound})
		r := withURLParam(authenticatedRequest(http.MethodDelete, "/api/transactions/3", "", 7), "id", "3")
		rr := httptest.NewRecorder()
		h.HandleDeleteTransaction(rr, r)

		if rr.Code != http.StatusNotFound {
			t.Errorf("status = %d, want 404", rr.Code)
		}
	})
}
