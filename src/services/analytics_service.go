// src/services/analytics_service.go
package services

import (
	"fmt"
	"math"

	"github.com/patrickmn/go-cache"
	"github.com/username/fintrack/src/database"
	"github.com/username/fintrack/src/model"
	"github.com/username/fintrack/src/utils"
)

const (
	ckUserSummaryPrefix = "summary_user_%d_"
	ckCategorySummary   = "summary_user_%d_category_%s_m%d_y%d"
	ckDashboardSummary  = "summary_user_%d_dashboard_m%d_y%d"

	recentTransactionsLimit = 5
)

type analyticsServiceImpl struct {
	reportCache *cache.Cache
}

func NewAnalyticsService(reportCache *cache.Cache) AnalyticsService {
	return &analyticsServiceImpl{reportCache: reportCache}
}

// CategorySummary groups the user's transactions of one type by category and
// computes per-group totals, counts and percentage share of the overall total.
func (s *analyticsServiceImpl) CategorySummary(userID int64, txType string, period Period) (*CategorySummaryResult, error) {
	cacheKey := fmt.Sprintf(ckCategorySummary, userID, txType, period.Month, period.Year)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*CategorySummaryResult), nil
	}

	filter := TransactionFilter{UserID: userID, Type: txType, Period: period}
	where, args := filter.WhereClause()

	// Category ASC tie-break keeps equal totals in a deterministic order.
	query := "SELECT category, SUM(amount) AS total, COUNT(*) FROM transactions WHERE " + where +
		" GROUP BY category ORDER BY total DESC, category ASC"

	rows, err := database.DB.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate categories for user %d: %w", userID, err)
	}
	defer rows.Close()

	categories := []CategoryBreakdown{}
	var totalAmount float64
	for rows.Next() {
		var row CategoryBreakdown
		if err := rows.Scan(&row.Category, &row.Total, &row.Count); err != nil {
			return nil, fmt.Errorf("failed to scan category aggregate for user %d: %w", userID, err)
		}
		row.Total = utils.RoundFloat(row.Total, 2)
		totalAmount += row.Total
		categories = append(categories, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate category aggregates for user %d: %w", userID, err)
	}

	// Each row's share is rounded independently; the percentages may not sum
	// to exactly 100 and are intentionally not normalized.
	for i := range categories {
		if totalAmount > 0 {
			categories[i].Percentage = int(math.Round(categories[i].Total / totalAmount * 100))
		}
	}

	result := &CategorySummaryResult{
		Categories:  categories,
		TotalAmount: utils.RoundFloat(totalAmount, 2),
		Type:        txType,
		Period:      period.Label(),
	}
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

// DashboardSummary computes period-scoped income/expense totals and balance,
// plus the user's five most recently created transactions. The recent list is
// a global activity view and deliberately ignores the period filter.
func (s *analyticsServiceImpl) DashboardSummary(userID int64, period Period) (*DashboardSummaryResult, error) {
	cacheKey := fmt.Sprintf(ckDashboardSummary, userID, period.Month, period.Year)
	if cached, found := s.reportCache.Get(cacheKey); found {
		return cached.(*DashboardSummaryResult), nil
	}

	filter := TransactionFilter{UserID: userID, Period: period}
	where, args := filter.WhereClause()

	rows, err := database.DB.Query(
		"SELECT type, SUM(amount) FROM transactions WHERE "+where+" GROUP BY type", args...)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate totals for user %d: %w", userID, err)
	}
	defer rows.Close()

	// A type with no rows in range simply keeps its zero total.
	var totalIncome, totalExpense float64
	for rows.Next() {
		var txType string
		var total float64
		if err := rows.Scan(&txType, &total); err != nil {
			return nil, fmt.Errorf("failed to scan type aggregate for user %d: %w", userID, err)
		}
		switch txType {
		case model.TypeIncome:
			totalIncome = total
		case model.TypeExpense:
			totalExpense = total
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate type aggregates for user %d: %w", userID, err)
	}

	recent, err := s.recentTransactions(userID)
	if err != nil {
		return nil, err
	}

	totalIncome = utils.RoundFloat(totalIncome, 2)
	totalExpense = utils.RoundFloat(totalExpense, 2)

	result := &DashboardSummaryResult{
		Balance:            utils.RoundFloat(totalIncome-totalExpense, 2),
		TotalIncome:        totalIncome,
		TotalExpense:       totalExpense,
		RecentTransactions: recent,
		Period:             period.Label(),
	}
	s.reportCache.Set(cacheKey, result, cache.DefaultExpiration)
	return result, nil
}

func (s *analyticsServiceImpl) recentTransactions(userID int64) ([]model.TransactionView, error) {
	rows, err := database.DB.Query(`
		SELECT date, description, amount, category, type
		FROM transactions
		WHERE user_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?`, userID, recentTransactionsLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent transactions for user %d: %w", userID, err)
	}
	defer rows.Close()

	recent := []model.TransactionView{}
	for rows.Next() {
		var tx model.Transaction
		if err := rows.Scan(&tx.Date, &tx.Description, &tx.Amount, &tx.Category, &tx.Type); err != nil {
			return nil, fmt.Errorf("failed to scan recent transaction for user %d: %w", userID, err)
		}
		recent = append(recent, tx.View())
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate recent transactions for user %d: %w", userID, err)
	}
	return recent, nil
}
