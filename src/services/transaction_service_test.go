package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/patrickmn/go-cache"
)

func newTestTransactionService() (TransactionService, *cache.Cache) {
	c := cache.New(time.Minute, time.Minute)
	return NewTransactionService(c), c
}

func TestListTransactions_Pagination(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	insertTx(t, db, 1, "2024-03-01", "groceries", 30, "Food", "Expense", "2024-03-01 10:00:00")
	insertTx(t, db, 1, "2024-03-02", "bus ticket", 5, "Transport", "Expense", "2024-03-02 10:00:00")
	insertTx(t, db, 1, "2024-03-03", "cinema", 12, "Entertainment", "Expense", "2024-03-03 10:00:00")

	t.Run("second page of two", func(t *testing.T) {
		result, err := svc.ListTransactions(1, ListTransactionsParams{Page: 2, Limit: 2})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(result.Transactions) != 1 {
			t.Fatalf("items = %d, want 1", len(result.Transactions))
		}
		p := result.Pagination
		if p.CurrentPage != 2 || p.TotalPages != 2 || p.TotalTransactions != 3 {
			t.Errorf("pagination = %+v", p)
		}
		if p.HasNext {
			t.Error("hasNext should be false on the last page")
		}
		if !p.HasPrev {
			t.Error("hasPrev should be true on page 2")
		}
	})

	t.Run("page beyond the last is empty, not an error", func(t *testing.T) {
		result, err := svc.ListTransactions(1, ListTransactionsParams{Page: 5, Limit: 2})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(result.Transactions) != 0 {
			t.Errorf("items = %d, want 0", len(result.Transactions))
		}
		if result.Pagination.HasNext {
			t.Error("hasNext should be false beyond the last page")
		}
	})

	t.Run("defaults applied", func(t *testing.T) {
		result, err := svc.ListTransactions(1, ListTransactionsParams{})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if result.Pagination.CurrentPage != 1 {
			t.Errorf("currentPage = %d, want 1", result.Pagination.CurrentPage)
		}
		if len(result.Transactions) != 3 {
			t.Errorf("items = %d, want 3", len(result.Transactions))
		}
	})
}

func TestListTransactions_EmptySet(t *testing.T) {
	setupTestDB(t)
	svc, _ := newTestTransactionService()

	result, err := svc.ListTransactions(1, ListTransactionsParams{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	p := result.Pagination
	if p.TotalPages != 0 || p.TotalTransactions != 0 {
		t.Errorf("pagination = %+v, want zero totals", p)
	}
	if p.HasNext || p.HasPrev {
		t.Errorf("hasNext/hasPrev = %v/%v, want false/false", p.HasNext, p.HasPrev)
	}
	if result.Transactions == nil {
		t.Error("transactions should be an empty slice, not nil")
	}
}

func TestListTransactions_Ordering(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	// Same date, different creation times: newest creation first.
	insertTx(t, db, 1, "2024-03-05", "first entry", 10, "Food", "Expense", "2024-03-05 08:00:00")
	insertTx(t, db, 1, "2024-03-05", "second entry", 20, "Food", "Expense", "2024-03-05 09:00:00")
	insertTx(t, db, 1, "2024-03-06", "newest date", 30, "Food", "Expense", "2024-03-05 07:00:00")

	result, err := svc.ListTransactions(1, ListTransactionsParams{})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	var got []string
	for _, tx := range result.Transactions {
		got = append(got, tx.Description)
	}
	want := []string{"newest date", "second entry", "first entry"}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("order = %v, want %v", got, want)
		}
	}
}

func TestListTransactions_Filters(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	insertTx(t, db, 1, "2024-01-15", "Morning Coffee", 3.5, "Food", "Expense", "2024-01-15 08:00:00")
	insertTx(t, db, 1, "2024-02-15", "train ticket", 25, "Transport", "Expense", "2024-02-15 08:00:00")
	insertTx(t, db, 1, "2024-03-15", "salary payment", 2000, "Salary", "Income", "2024-03-15 08:00:00")

	t.Run("category substring is case-insensitive", func(t *testing.T) {
		result, err := svc.ListTransactions(1, ListTransactionsParams{Category: "foo"})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(result.Transactions) != 1 || result.Transactions[0].Category != "Food" {
			t.Errorf("unexpected result: %+v", result.Transactions)
		}
	})

	t.Run("description substring is case-insensitive", func(t *testing.T) {
		result, err := svc.ListTransactions(1, ListTransactionsParams{Description: "COFFEE"})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(result.Transactions) != 1 || result.Transactions[0].Description != "Morning Coffee" {
			t.Errorf("unexpected result: %+v", result.Transactions)
		}
	})

	t.Run("inclusive date range", func(t *testing.T) {
		start := time.Date(2024, 2, 15, 0, 0, 0, 0, time.UTC)
		end := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
		result, err := svc.ListTransactions(1, ListTransactionsParams{StartDate: &start, EndDate: &end})
		if err != nil {
			t.Fatalf("ListTransactions: %v", err)
		}
		if len(result.Transactions) != 2 {
			t.Errorf("items = %d, want 2 (bounds are inclusive)", len(result.Transactions))
		}
	})
}

func TestListTransactions_OwnerScoping(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	insertTx(t, db, 1, "2024-03-01", "mine", 10, "Food", "Expense", "2024-03-01 10:00:00")
	insertTx(t, db, 2, "2024-03-01", "someone else's", 10, "Food", "Expense", "2024-03-01 10:00:00")

	result, err := svc.ListTransactions(1, ListTransactionsParams{Category: "Food"})
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(result.Transactions) != 1 || result.Transactions[0].Description != "mine" {
		t.Errorf("listing leaked another owner's records: %+v", result.Transactions)
	}
}

func TestCreateTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	tx, err := svc.CreateTransaction(1, TransactionInput{
		Date:        "2024-05-01",
		Description: "electricity bill",
		Amount:      60.456,
		Category:    "Bills",
		Type:        "Expense",
	})
	if err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if tx.ID == 0 {
		t.Error("created transaction should have an id")
	}
	if tx.Amount != 60.46 {
		t.Errorf("amount = %v, want 60.46 (two-decimal rounding)", tx.Amount)
	}

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM transactions WHERE user_id = 1").Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("stored rows = %d, want 1", count)
	}
}

func TestUpdateTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	insertTx(t, db, 1, "2024-05-01", "lunch", 15, "Food", "Expense", "2024-05-01 12:00:00")

	t.Run("owner can update", func(t *testing.T) {
		tx, err := svc.UpdateTransaction(1, 1, TransactionInput{
			Date:        "2024-05-02",
			Description: "dinner",
			Amount:      22,
			Category:    "Food",
			Type:        "Expense",
		})
		if err != nil {
			t.Fatalf("UpdateTransaction: %v", err)
		}
		if tx.Description != "dinner" || tx.Date != "2024-05-02" || tx.Amount != 22 {
			t.Errorf("updated transaction = %+v", tx)
		}
	})

	t.Run("foreign owner is told not found", func(t *testing.T) {
		_, err := svc.UpdateTransaction(2, 1, TransactionInput{
			Date:        "2024-05-02",
			Description: "hijack",
			Amount:      1,
			Category:    "Food",
			Type:        "Expense",
		})
		if !errors.Is(err, ErrTransactionNotFound) {
			t.Errorf("err = %v, want ErrTransactionNotFound", err)
		}
	})

	t.Run("missing record is not found", func(t *testing.T) {
		_, err := svc.UpdateTransaction(1, 999, TransactionInput{
			Date:        "2024-05-02",
			Description: "ghost",
			Amount:      1,
			Category:    "Food",
			Type:        "Expense",
		})
		if !errors.Is(err, ErrTransactionNotFound) {
			t.Errorf("err = %v, want ErrTransactionNotFound", err)
		}
	})
}

func TestDeleteTransaction(t *testing.T) {
	db := setupTestDB(t)
	svc, _ := newTestTransactionService()

	insertTx(t, db, 1, "2024-05-01", "lunch", 15, "Food", "Expense", "2024-05-01 12:00:00")

	if err := svc.DeleteTransaction(2, 1); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("foreign delete err = %v, want ErrTransactionNotFound", err)
	}
	if err := svc.DeleteTransaction(1, 1); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if err := svc.DeleteTransaction(1, 1); !errors.Is(err, ErrTransactionNotFound) {
		t.Errorf("second delete err = %v, want ErrTransactionNotFound", err)
	}
}

func TestMutationsInvalidateSummaryCache(t *testing.T) {
	db := setupTestDB(t)
	c := cache.New(time.Minute, time.Minute)
	svc := NewTransactionService(c)

	insertTx(t, db, 1, "2024-05-01", "lunch", 15, "Food", "Expense", "2024-05-01 12:00:00")

	seed := func() {
		c.Set(fmt.Sprintf(ckCategorySummary, int64(1), "Expense", 0, 0), &CategorySummaryResult{}, cache.DefaultExpiration)
		c.Set(fmt.Sprintf(ckDashboardSummary, int64(2), 0, 0), &DashboardSummaryResult{}, cache.DefaultExpiration)
	}

	seed()
	if _, err := svc.CreateTransaction(1, TransactionInput{
		Date: "2024-05-02", Description: "snack", Amount: 3, Category: "Food", Type: "Expense",
	}); err != nil {
		t.Fatalf("CreateTransaction: %v", err)
	}
	if _, found := c.Get(fmt.Sprintf(ckCategorySummary, int64(1), "Expense", 0, 0)); found {
		t.Error("create should invalidate the owner's cached summaries")
	}
	if _, found := c.Get(fmt.Sprintf(ckDashboardSummary, int64(2), 0, 0)); !found {
		t.Error("create must not invalidate another user's cached summaries")
	}

	seed()
	if err := svc.DeleteTransaction(1, 1); err != nil {
		t.Fatalf("DeleteTransaction: %v", err)
	}
	if _, found := c.Get(fmt.Sprintf(ckCategorySummary, int64(1), "Expense", 0, 0)); found {
		t.Error("delete should invalidate the owner's cached summaries")
	}
}
