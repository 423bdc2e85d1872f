package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/centsible/centsible/internal/common"
	"github.com/centsible/centsible/internal/model"
	"github.com/centsible/centsible/internal/service"
)

const transactionColumns = `id, kind, amount, date, description, merchant,
	category, predicted_category, source, created_at`

// SaveTransaction persists a transaction and returns its assigned ID.
func (s *SQLiteStorage) SaveTransaction(ctx context.Context, txn *model.Transaction) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateTransaction(txn); err != nil {
		return 0, err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions
			(kind, amount, date, description, merchant, category, predicted_category, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		string(txn.Kind), txn.Amount.String(), txn.Date,
		txn.Description, txn.Merchant, txn.Category, txn.PredictedCategory, txn.Source)
	if err != nil {
		return 0, fmt.Errorf("failed to save transaction: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get transaction id: %w", err)
	}

	slog.Debug("saved transaction", "id", id, "kind", txn.Kind, "amount", txn.Amount)
	return id, nil
}

// GetTransaction returns a transaction by ID.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		`SELECT `+transactionColumns+` FROM transactions WHERE id = ?`, id)

	txn, err := scanTransaction(row)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction: %w", err)
	}
	return txn, nil
}

// DeleteTransaction removes a transaction by ID.
func (s *SQLiteStorage) DeleteTransaction(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete transaction: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: transaction %d", common.ErrNotFound, id)
	}
	return nil
}

// UpdateTransactionCategory updates an expense's category and recorded
// prediction.
func (s *SQLiteStorage) UpdateTransactionCategory(ctx context.Context, id int64, category, predicted string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE transactions SET category = ?, predicted_category = ?
		WHERE id = ? AND kind = ?`,
		category, predicted, id, string(model.KindExpense))
	if err != nil {
		return fmt.Errorf("failed to update transaction category: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: expense %d", common.ErrNotFound, id)
	}
	return nil
}

// ListExpenses returns expenses matching the filter, newest first.
func (s *SQLiteStorage) ListExpenses(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	return s.listTransactions(ctx, model.KindExpense, filter)
}

// ListIncomes returns incomes matching the filter, newest first.
func (s *SQLiteStorage) ListIncomes(ctx context.Context, filter service.TransactionFilter) ([]model.Transaction, error) {
	return s.listTransactions(ctx, model.KindIncome, filter)
}

func (s *SQLiteStorage) listTransactions(ctx context.Context, kind model.TransactionKind, filter service.TransactionFilter) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if filter.StartDate != nil && filter.EndDate != nil && filter.StartDate.After(*filter.EndDate) {
		return nil, ErrInvalidDateRange
	}

	var sb strings.Builder
	sb.WriteString(`SELECT ` + transactionColumns + ` FROM transactions WHERE kind = ?`)
	args := []any{string(kind)}

	if filter.StartDate != nil {
		sb.WriteString(` AND date >= ?`)
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		sb.WriteString(` AND date <= ?`)
		args = append(args, *filter.EndDate)
	}
	if filter.Category != "" {
		sb.WriteString(` AND category = ?`)
		args = append(args, filter.Category)
	}

	sb.WriteString(` ORDER BY date DESC, id DESC`)
	if filter.Limit > 0 {
		sb.WriteString(` LIMIT ?`)
		args = append(args, filter.Limit)
		if filter.Offset > 0 {
			sb.WriteString(` OFFSET ?`)
			args = append(args, filter.Offset)
		}
	}

	rows, err := s.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer rows.Close()

	var txns []model.Transaction
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txns = append(txns, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	slog.Debug("retrieved transactions", "kind", kind, "count", len(txns))
	return txns, nil
}

// scanner abstracts over *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (*model.Transaction, error) {
	var (
		txn       model.Transaction
		kind      string
		amount    string
		date      time.Time
		createdAt time.Time
	)

	if err := row.Scan(&txn.ID, &kind, &amount, &date,
		&txn.Description, &txn.Merchant, &txn.Category,
		&txn.PredictedCategory, &txn.Source, &createdAt); err != nil {
		return nil, err
	}

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount %q: %w", amount, err)
	}

	txn.Kind = model.TransactionKind(kind)
	txn.Amount = parsed
	txn.Date = date
	txn.CreatedAt = createdAt
	return &txn, nil
}
