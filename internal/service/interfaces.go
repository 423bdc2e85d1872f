// Package service defines the interfaces wiring the CLI, the storage layer
// and the analytics engine together.
package service

import (
	"context"
	"time"

	"github.com/centsible/centsible/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	Category  string
	Limit     int
	Offset    int
}

// Storage defines the contract for the persistence layer. The analytics
// engine never talks to it directly; callers fetch transaction snapshots and
// hand them to the engine.
type Storage interface {
	// Transaction operations.
	SaveTransaction(ctx context.Context, txn *model.Transaction) (int64, error)
	GetTransaction(ctx context.Context, id int64) (*model.Transaction, error)
	DeleteTransaction(ctx context.Context, id int64) error
	UpdateTransactionCategory(ctx context.Context, id int64, category, predicted string) error
	ListExpenses(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)
	ListIncomes(ctx context.Context, filter TransactionFilter) ([]model.Transaction, error)

	// Lifecycle.
	Migrate(ctx context.Context) error
	Close() error
}

// Classifier maps transaction text to an expense category. Implementations
// must be safe for unsynchronized concurrent use and must never fail on
// malformed input; they degrade to the fallback category instead.
type Classifier interface {
	Classify(description, merchant string) model.ClassificationResult
}
