package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"savings/internal/core"
)

// DefaultTransactionLimit bounds FindAll when the caller passes no limit.
const DefaultTransactionLimit = 100

const transactionColumns = `id, accountId, amount, category, description, date, type, createdAt, updatedAt`

type TransactionRepository struct {
	gw  *Gateway
	now func() time.Time
}

func NewTransactionRepository(gw *Gateway, now func() time.Time) *TransactionRepository {
	return &TransactionRepository{gw: gw, now: now}
}

func scanTransaction(s Scanner) (core.Transaction, error) {
	var (
		t                          core.Transaction
		accountID                  sql.NullInt64
		amount                     int64
		category                   sql.NullString
		date, createdAt, updatedAt string
		kind                       string
	)
	if err := s.Scan(&t.ID, &accountID, &amount, &category, &t.Description, &date, &kind, &createdAt, &updatedAt); err != nil {
		return core.Transaction{}, err
	}
	t.AccountID = idPtr(accountID)
	t.Amount = core.FromMinorUnits(amount)
	t.Category = category.String
	t.Type = core.TransactionType(kind)

	var err error
	if t.Date, err = parseTimestamp(date); err != nil {
		return core.Transaction{}, err
	}
	if t.CreatedAt, t.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return core.Transaction{}, err
	}
	return t, nil
}

func (r *TransactionRepository) Create(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	now := formatTimestamp(r.now())
	id, err := r.gw.ExecuteInsert(ctx, `
		INSERT INTO "Transaction" (accountId, amount, category, description, date, type, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		nullableID(d.AccountID), core.ToMinorUnits(d.Amount), d.Category, d.Description,
		formatTimestamp(d.Date), string(d.Type), now, now)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("create transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction recorded",
		"id", id,
		"type", d.Type,
		"amount", d.Amount.String(),
		"category", d.Category)

	t, found, err := r.FindByID(ctx, id)
	if err != nil {
		return core.Transaction{}, err
	}
	if !found {
		return core.Transaction{}, &core.StorageError{Op: "reload", Err: fmt.Errorf("transaction %d vanished after insert", id)}
	}
	return t, nil
}

// FindAll returns up to limit transactions, most recent date first,
// restricted to accountID when it is set.
func (r *TransactionRepository) FindAll(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error) {
	if limit <= 0 {
		limit = DefaultTransactionLimit
	}

	var (
		txs []core.Transaction
		err error
	)
	if accountID != nil {
		txs, err = Execute(ctx, r.gw, scanTransaction,
			`SELECT `+transactionColumns+` FROM "Transaction" WHERE accountId = ? ORDER BY date DESC, id DESC LIMIT ?`,
			*accountID, limit)
	} else {
		txs, err = Execute(ctx, r.gw, scanTransaction,
			`SELECT `+transactionColumns+` FROM "Transaction" ORDER BY date DESC, id DESC LIMIT ?`, limit)
	}
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

func (r *TransactionRepository) FindByID(ctx context.Context, id int64) (core.Transaction, bool, error) {
	t, found, err := ExecuteOne(ctx, r.gw, scanTransaction, `SELECT `+transactionColumns+` FROM "Transaction" WHERE id = ?`, id)
	if err != nil {
		return core.Transaction{}, false, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, found, nil
}

func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.gw.ExecuteStatement(ctx, `DELETE FROM "Transaction" WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Transaction deleted", "id", id)
	return nil
}
