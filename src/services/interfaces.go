// src/services/interfaces.go
package services

import (
	"errors"
	"time"

	"github.com/username/fintrack/src/model"
)

// ErrTransactionNotFound is returned when a transaction does not exist or
// belongs to a different user. The two cases are deliberately
// indistinguishable so that existence is never leaked to a non-owner.
var ErrTransactionNotFound = errors.New("transaction not found")

// TransactionInput carries the mutable fields of a create or update request.
// Values are assumed to have passed field validation upstream.
type TransactionInput struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
}

// ListTransactionsParams are the filter and pagination parameters of the
// listing endpoint.
type ListTransactionsParams struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Category    string
	Description string
	Page        int
	Limit       int
}

// Pagination describes the page of results returned by a listing query.
type Pagination struct {
	CurrentPage       int  `json:"currentPage"`
	TotalPages        int  `json:"totalPages"`
	TotalTransactions int  `json:"totalTransactions"`
	HasNext           bool `json:"hasNext"`
	HasPrev           bool `json:"hasPrev"`
}

type TransactionListResult struct {
	Transactions []model.Transaction `json:"transactions"`
	Pagination   Pagination          `json:"pagination"`
}

// CategoryBreakdown is one aggregation row of the category summary.
// Percentages are rounded per row independently and are not normalized to
// sum to exactly 100.
type CategoryBreakdown struct {
	Category   string  `json:"category"`
	Total      float64 `json:"total"`
	Count      int     `json:"count"`
	Percentage int     `json:"percentage"`
}

type CategorySummaryResult struct {
	Categories  []CategoryBreakdown `json:"categories"`
	TotalAmount float64             `json:"totalAmount"`
	Type        string              `json:"type"`
	Period      string              `json:"period"`
}

type DashboardSummaryResult struct {
	Balance            float64                 `json:"balance"`
	TotalIncome        float64                 `json:"totalIncome"`
	TotalExpense       float64                 `json:"totalExpense"`
	RecentTransactions []model.TransactionView `json:"recentTransactions"`
	Period             string                  `json:"period"`
}

// TransactionService owns the transaction listing and single-record
// mutations. All operations are scoped to the calling user.
type TransactionService interface {
	ListTransactions(userID int64, params ListTransactionsParams) (*TransactionListResult, error)
	CreateTransaction(userID int64, input TransactionInput) (*model.Transaction, error)
	UpdateTransaction(userID int64, id int64, input TransactionInput) (*model.Transaction, error)
	DeleteTransaction(userID int64, id int64) error
}

// AnalyticsService computes grouped summaries over a user's transactions.
type AnalyticsService interface {
	CategorySummary(userID int64, txType string, period Period) (*CategorySummaryResult, error)
	DashboardSummary(userID int64, period Period) (*DashboardSummaryResult, error)
}
