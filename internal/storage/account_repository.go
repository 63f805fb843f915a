package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"savings/internal/core"
)

const accountColumns = `id, name, bank, accountNumber, currentBalance, createdAt, updatedAt`

type AccountRepository struct {
	gw  *Gateway
	now func() time.Time
}

func NewAccountRepository(gw *Gateway, now func() time.Time) *AccountRepository {
	return &AccountRepository{gw: gw, now: now}
}

func scanAccount(s Scanner) (core.Account, error) {
	var (
		a                    core.Account
		balance              int64
		createdAt, updatedAt string
	)
	if err := s.Scan(&a.ID, &a.Name, &a.Bank, &a.AccountNumber, &balance, &createdAt, &updatedAt); err != nil {
		return core.Account{}, err
	}
	a.CurrentBalance = core.FromMinorUnits(balance)

	var err error
	if a.CreatedAt, a.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return core.Account{}, err
	}
	return a, nil
}

func (r *AccountRepository) Create(ctx context.Context, name, bank, accountNumber string, startingBalance decimal.Decimal) (core.Account, error) {
	now := formatTimestamp(r.now())
	id, err := r.gw.ExecuteInsert(ctx, `
		INSERT INTO Account (name, bank, accountNumber, currentBalance, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?)`,
		name, bank, accountNumber, core.ToMinorUnits(startingBalance), now, now)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}

	slog.InfoContext(ctx, "Account created", "id", id, "bank", bank)

	a, found, err := r.FindByID(ctx, id)
	if err != nil {
		return core.Account{}, err
	}
	if !found {
		return core.Account{}, &core.StorageError{Op: "reload", Err: fmt.Errorf("account %d vanished after insert", id)}
	}
	return a, nil
}

// FindAll returns every account ordered by name.
func (r *AccountRepository) FindAll(ctx context.Context) ([]core.Account, error) {
	accounts, err := Execute(ctx, r.gw, scanAccount, `SELECT `+accountColumns+` FROM Account ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	return accounts, nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (core.Account, bool, error) {
	a, found, err := ExecuteOne(ctx, r.gw, scanAccount, `SELECT `+accountColumns+` FROM Account WHERE id = ?`, id)
	if err != nil {
		return core.Account{}, false, fmt.Errorf("get account %d: %w", id, err)
	}
	return a, found, nil
}

// UpdateBalance overwrites the stored balance. Callers computing newBalance
// from a prior read race with other writers.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) error {
	_, err := r.gw.ExecuteStatement(ctx, `UPDATE Account SET currentBalance = ?, updatedAt = ? WHERE id = ?`,
		core.ToMinorUnits(newBalance), formatTimestamp(r.now()), id)
	if err != nil {
		return fmt.Errorf("update balance of account %d: %w", id, err)
	}
	return nil
}
