package services

import (
	"context"

	"github.com/shopspring/decimal"

	"savings/internal/core"
)

// Ports onto the storage repositories.
type (
	GoalStore interface {
		Create(ctx context.Context, d core.GoalDraft) (core.Goal, error)
		FindAll(ctx context.Context, userID *int64) ([]core.Goal, error)
		FindByID(ctx context.Context, id int64) (core.Goal, bool, error)
		Update(ctx context.Context, id int64, p core.GoalPatch) (core.Goal, bool, error)
		Delete(ctx context.Context, id int64) error
		AddAmount(ctx context.Context, id int64, amount decimal.Decimal) (core.Goal, bool, error)
	}

	// TransactionReader is the read side the metrics engine needs.
	TransactionReader interface {
		FindAll(ctx context.Context, accountID *int64, limit int) ([]core.Transaction, error)
	}

	TransactionStore interface {
		TransactionReader
		Create(ctx context.Context, d core.TransactionDraft) (core.Transaction, error)
		FindByID(ctx context.Context, id int64) (core.Transaction, bool, error)
		Delete(ctx context.Context, id int64) error
	}

	AccountStore interface {
		Create(ctx context.Context, name, bank, accountNumber string, startingBalance decimal.Decimal) (core.Account, error)
		FindAll(ctx context.Context) ([]core.Account, error)
		FindByID(ctx context.Context, id int64) (core.Account, bool, error)
		UpdateBalance(ctx context.Context, id int64, newBalance decimal.Decimal) error
	}

	UserStore interface {
		Create(ctx context.Context, d core.UserDraft) (core.User, error)
		FindAll(ctx context.Context) ([]core.User, error)
		FindByID(ctx context.Context, id int64) (core.User, bool, error)
		FindByUsername(ctx context.Context, username string) (core.User, bool, error)
		FindByEmail(ctx context.Context, email string) (core.User, bool, error)
		UpdateName(ctx context.Context, id int64, name string) (core.User, bool, error)
		VerifyPassword(storedHash, candidate string) bool
	}
)
