package storage

import (
	"database/sql"
	"fmt"
	"time"

	"savings/internal/core"
)

// timestampLayout is fixed-width so that text ordering matches time ordering.
const timestampLayout = "2006-01-02T15:04:05.000000Z07:00"

// Store bundles the entity repositories over one gateway.
type Store struct {
	Goals        *GoalRepository
	Accounts     *AccountRepository
	Transactions *TransactionRepository
	Users        *UserRepository
}

// Option customises the repositories built by NewStore.
type Option func(*options)

type options struct {
	now          func() time.Time
	passwordCost int
}

// WithClock replaces time.Now as the source of createdAt/updatedAt.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPasswordCost sets the bcrypt cost used for new password hashes.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

func NewStore(g *Gateway, opts ...Option) *Store {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	users := NewUserRepository(g, o.now)
	if o.passwordCost != 0 {
		users.cost = o.passwordCost
	}
	return &Store{
		Goals:        NewGoalRepository(g, o.now),
		Accounts:     NewAccountRepository(g, o.now),
		Transactions: NewTransactionRepository(g, o.now),
		Users:        users,
	}
}

func formatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

// readLayouts are tried in order. Rows written by other tools may carry a
// bare date or a timestamp without offset; both are read as UTC.
var readLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
	core.DateLayout,
}

func parseTimestamp(s string) (time.Time, error) {
	var firstErr error
	for _, layout := range readLayouts {
		t, err := time.Parse(layout, s)
		if err == nil {
			return t, nil
		}
		if firstErr == nil {
			firstErr = err
		}
	}
	return time.Time{}, fmt.Errorf("parse timestamp %q: %w", s, firstErr)
}

func parseTimestamps(created, updated string) (time.Time, time.Time, error) {
	c, err := parseTimestamp(created)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	u, err := parseTimestamp(updated)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	return c, u, nil
}

func nullableID(id *int64) sql.NullInt64 {
	if id == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *id, Valid: true}
}

func idPtr(n sql.NullInt64) *int64 {
	if !n.Valid {
		return nil
	}
	v := n.Int64
	return &v
}

func nullableDate(d *core.Date) sql.NullString {
	if d == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: d.String(), Valid: true}
}

func nullableString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}
