// src/services/filter.go
package services

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// TransactionFilter assembles the WHERE predicate shared by the listing and
// aggregation queries. The owner constraint is always present; every other
// field is optional and contributes nothing when absent. All constraints are
// AND-combined.
type TransactionFilter struct {
	UserID int64

	// Period bounds resolved from month/year parameters.
	Period Period

	// Explicit inclusive date bounds, used by the listing path independently
	// of the period resolver. Each side is optional.
	StartDate *time.Time
	EndDate   *time.Time

	// Case-insensitive unanchored substring matches.
	Category    string
	Description string

	// Exact type match (Income or Expense).
	Type string
}

// WhereClause renders the filter as a SQL fragment plus bind arguments.
// Dates are stored as YYYY-MM-DD text, so inclusive range checks are plain
// lexicographic comparisons.
func (f TransactionFilter) WhereClause() (string, []any) {
	conditions := []string{"user_id = ?"}
	args := []any{f.UserID}

	if f.Period.Bounded {
		conditions = append(conditions, "date >= ?", "date <= ?")
		args = append(args, f.Period.Start.Format(dateLayout), f.Period.End.Format(dateLayout))
	}
	if f.StartDate != nil {
		conditions = append(conditions, "date >= ?")
		args = append(args, f.StartDate.Format(dateLayout))
	}
	if f.EndDate != nil {
		conditions = append(conditions, "date <= ?")
		args = append(args, f.EndDate.Format(dateLayout))
	}
	if f.Category != "" {
		conditions = append(conditions, "LOWER(category) LIKE '%' || LOWER(?) || '%'")
		args = append(args, f.Category)
	}
	if f.Description != "" {
		conditions = append(conditions, "LOWER(description) LIKE '%' || LOWER(?) || '%'")
		args = append(args, f.Description)
	}
	if f.Type != "" {
		conditions = append(conditions, "type = ?")
		args = append(args, f.Type)
	}

	return strings.Join(conditions, " AND "), args
}
