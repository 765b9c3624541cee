package core

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	Income  TxType = "income"
	Expense TxType = "expense"

	// DateLayout is the calendar date format stored in the date column.
	DateLayout = "2006-01-02"
	// MonthLayout identifies a calendar month, e.g. "2024-01".
	MonthLayout = "2006-01"
)

type (
	TxType string

	// Transaction is one ledger entry as stored.
	Transaction struct {
		ID          int64     `json:"id"`
		Date        string    `json:"date"`
		Description string    `json:"description"`
		Category    string    `json:"category"`
		Amount      Money     `json:"amount"`
		Type        TxType    `json:"type"`
		CreatedAt   time.Time `json:"created_at"`
	}

	// TransactionInput carries the caller-supplied fields of a create or update.
	TransactionInput struct {
		Date        string `json:"date"`
		Description string `json:"description"`
		Category    string `json:"category"`
		Amount      Money  `json:"amount"`
		Type        TxType `json:"type"`
	}

	// ValidationError lists the required fields that were missing or empty.
	ValidationError struct {
		Missing []string
	}
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrPersistence = errors.New("persistence failed")
	ErrNotFound    = errors.New("transaction not found")
)

func (e *ValidationError) Error() string {
	return fmt.Sprintf("missing required fields: %s", strings.Join(e.Missing, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Valid reports whether t is one of the two known kinds. The store enforces
// this independently.
func (t TxType) Valid() bool {
	return t == Income || t == Expense
}

// Label returns the Indonesian display name used in reports.
func (t TxType) Label() string {
	if t == Income {
		return "Pemasukan"
	}
	return "Pengeluaran"
}

// Validate checks presence only: every field must be non-empty and the
// amount non-zero. Format, enumeration and sign are not checked here.
func (in TransactionInput) Validate() error {
	var missing []string
	if in.Date == "" {
		missing = append(missing, "date")
	}
	if in.Description == "" {
		missing = append(missing, "description")
	}
	if in.Category == "" {
		missing = append(missing, "category")
	}
	if in.Amount.IsZero() {
		missing = append(missing, "amount")
	}
	if in.Type == "" {
		missing = append(missing, "type")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// ParseDate parses the leading YYYY-MM-DD of s as a UTC midnight.
func ParseDate(s string) (time.Time, bool) {
	if len(s) < len(DateLayout) {
		return time.Time{}, false
	}
	t, err := time.Parse(DateLayout, s[:len(DateLayout)])
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// MonthKey returns the "YYYY-MM" month of a stored date.
func MonthKey(date string) (string, bool) {
	t, ok := ParseDate(date)
	if !ok {
		return "", false
	}
	return t.Format(MonthLayout), true
}

// ParseMonth parses a "YYYY-MM" month identifier.
func ParseMonth(s string) (time.Time, bool) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
