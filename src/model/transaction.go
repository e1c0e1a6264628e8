package model

import "time"

// Transaction types. The category list is partitioned by type for input
// validation only; query and aggregation code treats categories as opaque
// strings and dispatches on Type alone.
const (
	TypeIncome  = "Income"
	TypeExpense = "Expense"
)

var (
	IncomeCategories = []string{
		"Salary", "Business", "Investment", "Freelance", "Other Income",
	}
	ExpenseCategories = []string{
		"Food", "Transport", "Shopping", "Entertainment", "Bills",
		"Healthcare", "Education", "Travel", "Other Expense",
	}
)

// Transaction is a single ledger entry owned by one user.
// Date carries day granularity only and is stored as YYYY-MM-DD text.
type Transaction struct {
	ID          int64     `json:"id"`
	UserID      int64     `json:"userId"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Amount      float64   `json:"amount"`
	Category    string    `json:"category"`
	Type        string    `json:"type"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TransactionView is the trimmed projection returned in the dashboard's
// recent activity list.
type TransactionView struct {
	Date        string  `json:"date"`
	Description string  `json:"description"`
	Amount      float64 `json:"amount"`
	Category    string  `json:"category"`
	Type        string  `json:"type"`
}

// View projects a transaction onto its dashboard representation, dropping
// bookkeeping fields.
func (t *Transaction) View() TransactionView {
	return TransactionView{
		Date:        t.Date,
		Description: t.Description,
		Amount:      t.Amount,
		Category:    t.Category,
		Type:        t.Type,
	}
}
