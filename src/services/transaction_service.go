// src/services/transaction_service.go
package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/patrickmn/go-cache"
	"github.com/username/fintrack/src/database"
	"github.com/username/fintrack/src/logger"
	"github.com/username/fintrack/src/model"
	"github.com/username/fintrack/src/utils"
)

const transactionColumns = "id, user_id, date, description, amount, category, type, created_at, updated_at"

const (
	DefaultPage  = 1
	DefaultLimit = 50
)

type transactionServiceImpl struct {
	reportCache *cache.Cache
}

func NewTransactionService(reportCache *cache.Cache) TransactionService {
	return &transactionServiceImpl{reportCache: reportCache}
}

func (s *transactionServiceImpl) ListTransactions(userID int64, params ListTransactionsParams) (*TransactionListResult, error) {
	page := params.Page
	if page < 1 {
		page = DefaultPage
	}
	limit := params.Limit
	if limit < 1 {
		limit = DefaultLimit
	}

	filter := TransactionFilter{
		UserID:      userID,
		StartDate:   params.StartDate,
		EndDate:     params.EndDate,
		Category:    params.Category,
		Description: params.Description,
	}
	where, args := filter.WhereClause()

	var total int
	countQuery := "SELECT COUNT(*) FROM transactions WHERE " + where
	if err := database.DB.QueryRow(countQuery, args...).Scan(&total); err != nil {
		return nil, fmt.Errorf("failed to count transactions for user %d: %w", userID, err)
	}

	offset := (page - 1) * limit
	listQuery := "SELECT " + transactionColumns + " FROM transactions WHERE " + where +
		" ORDER BY date DESC, created_at DESC, id DESC LIMIT ? OFFSET ?"
	listArgs := append(args, limit, offset)

	rows, err := database.DB.Query(listQuery, listArgs...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	transactions := []model.Transaction{}
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(
			&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Amount,
			&tx.Category, &tx.Type, &tx.CreatedAt, &tx.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction for user %d: %w", userID, err)
		}
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions for user %d: %w", userID, err)
	}

	// Integer ceiling; zero matches yield zero pages.
	totalPages := (total + limit - 1) / limit

	return &TransactionListResult{
		Transactions: transactions,
		Pagination: Pagination{
			CurrentPage:       page,
			TotalPages:        totalPages,
			TotalTransactions: total,
			HasNext:           page*limit < total,
			HasPrev:           page > 1,
		},
	}, nil
}

func (s *transactionServiceImpl) CreateTransaction(userID int64, input TransactionInput) (*model.Transaction, error) {
	now := time.Now()
	tx := &model.Transaction{
		UserID:      userID,
		Date:        input.Date,
		Description: input.Description,
		Amount:      utils.RoundFloat(input.Amount, 2),
		Category:    input.Category,
		Type:        input.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	res, err := database.DB.Exec(`
		INSERT INTO transactions (user_id, date, description, amount, category, type, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		tx.UserID, tx.Date, tx.Description, tx.Amount, tx.Category, tx.Type, tx.CreatedAt, tx.UpdatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert transaction for user %d: %w", userID, err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read inserted transaction id: %w", err)
	}
	tx.ID = id

	invalidateUserSummaries(s.reportCache, userID)
	logger.L.Info("Transaction created", "userID", userID, "transactionID", id, "type", tx.Type)
	return tx, nil
}

func (s *transactionServiceImpl) UpdateTransaction(userID int64, id int64, input TransactionInput) (*model.Transaction, error) {
	res, err := database.DB.Exec(`
		UPDATE transactions
		SET date = ?, description = ?, amount = ?, category = ?, type = ?, updated_at = ?
		WHERE id = ? AND user_id = ?`,
		input.Date, input.Description, utils.RoundFloat(input.Amount, 2), input.Category, input.Type,
		time.Now(), id, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update transaction %d for user %d: %w", id, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		// Absent and foreign-owned rows are reported identically.
		return nil, ErrTransactionNotFound
	}

	row := database.DB.QueryRow(
		"SELECT "+transactionColumns+" FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	var tx model.Transaction
	if err := row.Scan(
		&tx.ID, &tx.UserID, &tx.Date, &tx.Description, &tx.Amount,
		&tx.Category, &tx.Type, &tx.CreatedAt, &tx.UpdatedAt,
	); err != nil {
		return nil, fmt.Errorf("failed to re-read updated transaction %d: %w", id, err)
	}

	invalidateUserSummaries(s.reportCache, userID)
	logger.L.Info("Transaction updated", "userID", userID, "transactionID", id)
	return &tx, nil
}

func (s *transactionServiceImpl) DeleteTransaction(userID int64, id int64) error {
	res, err := database.DB.Exec("DELETE FROM transactions WHERE id = ? AND user_id = ?", id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete transaction %d for user %d: %w", id, userID, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read delete result: %w", err)
	}
	if affected == 0 {
		return ErrTransactionNotFound
	}

	invalidateUserSummaries(s.reportCache, userID)
	logger.L.Info("Transaction deleted", "userID", userID, "transactionID", id)
	return nil
}

// invalidateUserSummaries drops every cached summary report belonging to the
// user. Summary keys vary by period and type, so the cache is swept by key
// prefix rather than by enumerating keys.
func invalidateUserSummaries(c *cache.Cache, userID int64) {
	if c == nil {
		return
	}
	prefix := fmt.Sprintf(ckUserSummaryPrefix, userID)
	for key := range c.Items() {
		if strings.HasPrefix(key, prefix) {
			c.Delete(key)
		}
	}
}
