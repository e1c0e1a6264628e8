// src/security/validation/field_validator.go
package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/username/fintrack/src/model"
)

var ErrValidationFailed = fmt.Errorf("validation failed")

const (
	MaxDescriptionLength = 200
	MinTransactionAmount = 0.01
	DateLayout           = "2006-01-02"
)

// --- String Validators ---

// ValidateStringNotEmpty checks if a string is not empty after trimming.
func ValidateStringNotEmpty(s, fieldName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s cannot be empty", ErrValidationFailed, fieldName)
	}
	return nil
}

// ValidateStringMaxLength checks if a string's UTF-8 character count is within max bounds.
func ValidateStringMaxLength(s string, maxLength int, fieldName string) error {
	if utf8.RuneCountInString(s) > maxLength {
		return fmt.Errorf("%w: %s exceeds maximum length of %d characters", ErrValidationFailed, fieldName, maxLength)
	}
	return nil
}

// ValidateDateString checks that a string is a calendar date in YYYY-MM-DD form.
func ValidateDateString(s, fieldName string) error {
	if _, err := time.Parse(DateLayout, s); err != nil {
		return fmt.Errorf("%w: %s must be a valid date in YYYY-MM-DD format", ErrValidationFailed, fieldName)
	}
	return nil
}

// --- Transaction field validators ---

// ValidateAmount checks that an amount is a positive currency value.
func ValidateAmount(amount float64) error {
	if amount < MinTransactionAmount {
		return fmt.Errorf("%w: amount must be at least %.2f", ErrValidationFailed, MinTransactionAmount)
	}
	return nil
}

// ValidateTransactionType checks that a type is one of the known enumeration values.
func ValidateTransactionType(txType string) error {
	if txType != model.TypeIncome && txType != model.TypeExpense {
		return fmt.Errorf("%w: type must be either %s or %s", ErrValidationFailed, model.TypeIncome, model.TypeExpense)
	}
	return nil
}

// ValidateCategoryForType checks that a category belongs to the enumeration
// partition of the declared type.
func ValidateCategoryForType(category, txType string) error {
	var allowed []string
	switch txType {
	case model.TypeIncome:
		allowed = model.IncomeCategories
	case model.TypeExpense:
		allowed = model.ExpenseCategories
	default:
		return fmt.Errorf("%w: type must be either %s or %s", ErrValidationFailed, model.TypeIncome, model.TypeExpense)
	}
	for _, c := range allowed {
		if c == category {
			return nil
		}
	}
	return fmt.Errorf("%w: category '%s' is not valid for type %s", ErrValidationFailed, category, txType)
}
