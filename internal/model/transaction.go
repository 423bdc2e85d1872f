// Package model defines the core domain models used throughout the application.
package model

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionKind indicates the cash-flow direction of a transaction.
type TransactionKind string

const (
	// KindExpense represents money leaving the user's accounts.
	KindExpense TransactionKind = "expense"
	// KindIncome represents money entering the user's accounts.
	KindIncome TransactionKind = "income"
)

// Transaction represents a single expense or income entry.
//
// Amount is always positive; the cash-flow direction is carried by Kind,
// never by the sign of the amount.
type Transaction struct {
	Date              time.Time
	CreatedAt         time.Time
	Kind              TransactionKind
	Description       string
	Merchant          string
	Category          string // expense category, authoritative
	PredictedCategory string // model prediction recorded for audit
	Source            string // income source
	Amount            decimal.Decimal
	ID                int64
}

// Validate checks the transaction's structural invariants.
func (t *Transaction) Validate() error {
	if t.Kind != KindExpense && t.Kind != KindIncome {
		return fmt.Errorf("invalid transaction kind: %q", t.Kind)
	}
	if !t.Amount.IsPositive() {
		return fmt.Errorf("amount must be greater than 0, got %s", t.Amount)
	}
	if t.Date.IsZero() {
		return fmt.Errorf("date is required")
	}
	if t.Kind == KindExpense && t.Description == "" {
		return fmt.Errorf("description is required for expenses")
	}
	if t.Kind == KindIncome && t.Source == "" {
		return fmt.Errorf("source is required for income")
	}
	return nil
}

// IsExpense reports whether the transaction is an expense.
func (t *Transaction) IsExpense() bool {
	return t.Kind == KindExpense
}

// MonthKey returns the transaction's calendar month formatted as "2006-01".
func (t *Transaction) MonthKey() string {
	return t.Date.Format("2006-01")
}
