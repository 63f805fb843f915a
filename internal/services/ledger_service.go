package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"savings/internal/core"
	"savings/internal/log"
)

// LedgerService records accounts and their income/expense transactions.
type LedgerService struct {
	accounts     AccountStore
	transactions TransactionStore
}

func NewLedgerService(accounts AccountStore, transactions TransactionStore) *LedgerService {
	return &LedgerService{
		accounts:     accounts,
		transactions: transactions,
	}
}

func (s *LedgerService) CreateAccount(ctx context.Context, name, bank, accountNumber string, startingBalance decimal.Decimal) (core.Account, error) {
	if strings.TrimSpace(name) == "" {
		return core.Account{}, &core.ValidationError{Field: "name", Err: core.ErrEmptyName}
	}
	return s.accounts.Create(ctx, name, bank, accountNumber, startingBalance)
}

func (s *LedgerService) ListAccounts(ctx context.Context) ([]core.Account, error) {
	return s.accounts.FindAll(ctx)
}

// RecordTransaction stores the transaction and then moves the owning
// account's balance. The two writes are independent calls: if the balance
// update fails the transaction stays recorded and the error is returned
// alongside it.
func (s *LedgerService) RecordTransaction(ctx context.Context, d core.TransactionDraft) (core.Transaction, error) {
	if err := d.Validate(); err != nil {
		return core.Transaction{}, err
	}

	var account core.Account
	if d.AccountID != nil {
		a, found, err := s.accounts.FindByID(ctx, *d.AccountID)
		if err != nil {
			return core.Transaction{}, err
		}
		if !found {
			return core.Transaction{}, &core.NotFoundError{Entity: "account", ID: *d.AccountID}
		}
		account = a
	}

	t, err := s.transactions.Create(ctx, d)
	if err != nil {
		return core.Transaction{}, err
	}

	if d.AccountID == nil {
		return t, nil
	}

	balance := account.CurrentBalance.Add(signedAmount(t))
	if err := s.accounts.UpdateBalance(ctx, account.ID, balance); err != nil {
		slog.ErrorContext(ctx, "Transaction recorded but account balance not adjusted",
			"transaction_id", t.ID,
			log.FieldAccountID, account.ID,
			log.FieldError, err)
		return t, fmt.Errorf("adjust balance of account %d: %w", account.ID, err)
	}

	return t, nil
}

func signedAmount(t core.Transaction) decimal.Decimal {
	if t.Type == core.Expense {
		return t.Amount.Neg()
	}
	return t.Amount
}

// ListTransactions returns the most recent transactions, optionally for one account.
func (s *LedgerService) ListTransactions(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error) {
	return s.transactions.FindAll(ctx, accountID, limit)
}

// DeleteTransaction removes a transaction. Account balances are left as they are.
func (s *LedgerService) DeleteTransaction(ctx context.Context, id int64) error {
	_, found, err := s.transactions.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return &core.NotFoundError{Entity: "transaction", ID: id}
	}
	return s.transactions.Delete(ctx, id)
}
