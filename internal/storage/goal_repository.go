package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"savings/internal/core"
)

const goalColumns = `id, name, targetAmount, currentAmount, deadline, userId, createdAt, updatedAt`

type GoalRepository struct {
	gw  *Gateway
	now func() time.Time
}

func NewGoalRepository(gw *Gateway, now func() time.Time) *GoalRepository {
	return &GoalRepository{gw: gw, now: now}
}

func scanGoal(s Scanner) (core.Goal, error) {
	var (
		g                    core.Goal
		target, current      int64
		deadline             sql.NullString
		userID               sql.NullInt64
		createdAt, updatedAt string
	)
	if err := s.Scan(&g.ID, &g.Name, &target, &current, &deadline, &userID, &createdAt, &updatedAt); err != nil {
		return core.Goal{}, err
	}

	g.TargetAmount = core.FromMinorUnits(target)
	g.CurrentAmount = core.FromMinorUnits(current)
	g.UserID = idPtr(userID)

	if deadline.Valid {
		d, err := core.ParseDate(deadline.String)
		if err != nil {
			return core.Goal{}, fmt.Errorf("parse deadline %q: %w", deadline.String, err)
		}
		g.Deadline = &d
	}

	var err error
	if g.CreatedAt, g.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return core.Goal{}, err
	}
	return g, nil
}

// Create inserts a goal with currentAmount 0 and reloads it.
func (r *GoalRepository) Create(ctx context.Context, d core.GoalDraft) (core.Goal, error) {
	now := formatTimestamp(r.now())
	id, err := r.gw.ExecuteInsert(ctx, `
		INSERT INTO SavingsGoal (name, targetAmount, currentAmount, deadline, userId, createdAt, updatedAt)
		VALUES (?, ?, 0, ?, ?, ?, ?)`,
		d.Name, core.ToMinorUnits(d.TargetAmount), nullableDate(d.Deadline), nullableID(d.UserID), now, now)
	if err != nil {
		return core.Goal{}, fmt.Errorf("create goal: %w", err)
	}

	slog.InfoContext(ctx, "Savings goal created", "id", id, "name", d.Name, "target", d.TargetAmount.String())

	return r.reload(ctx, id)
}

// FindAll returns goals newest first, restricted to userID when it is set.
func (r *GoalRepository) FindAll(ctx context.Context, userID *int64) ([]core.Goal, error) {
	var (
		goals []core.Goal
		err   error
	)
	if userID != nil {
		goals, err = Execute(ctx, r.gw, scanGoal,
			`SELECT `+goalColumns+` FROM SavingsGoal WHERE userId = ? ORDER BY createdAt DESC, id DESC`, *userID)
	} else {
		goals, err = Execute(ctx, r.gw, scanGoal,
			`SELECT `+goalColumns+` FROM SavingsGoal ORDER BY createdAt DESC, id DESC`)
	}
	if err != nil {
		return nil, fmt.Errorf("list goals: %w", err)
	}
	return goals, nil
}

func (r *GoalRepository) FindByID(ctx context.Context, id int64) (core.Goal, bool, error) {
	g, found, err := ExecuteOne(ctx, r.gw, scanGoal, `SELECT `+goalColumns+` FROM SavingsGoal WHERE id = ?`, id)
	if err != nil {
		return core.Goal{}, false, fmt.Errorf("get goal %d: %w", id, err)
	}
	return g, found, nil
}

// Update rewrites only the fields set in p, plus updatedAt, in one statement.
func (r *GoalRepository) Update(ctx context.Context, id int64, p core.GoalPatch) (core.Goal, bool, error) {
	var (
		sets []string
		args []any
	)
	if p.Name.Set {
		sets = append(sets, "name = ?")
		args = append(args, p.Name.Value)
	}
	if p.TargetAmount.Set {
		sets = append(sets, "targetAmount = ?")
		args = append(args, core.ToMinorUnits(p.TargetAmount.Value))
	}
	if p.CurrentAmount.Set {
		sets = append(sets, "currentAmount = ?")
		args = append(args, core.ToMinorUnits(p.CurrentAmount.Value))
	}
	if p.Deadline.Set {
		sets = append(sets, "deadline = ?")
		args = append(args, nullableDate(p.Deadline.Value))
	}
	sets = append(sets, "updatedAt = ?")
	args = append(args, formatTimestamp(r.now()), id)

	query := `UPDATE SavingsGoal SET ` + strings.Join(sets, ", ") + ` WHERE id = ?`
	if _, err := r.gw.ExecuteStatement(ctx, query, args...); err != nil {
		return core.Goal{}, false, fmt.Errorf("update goal %d: %w", id, err)
	}

	return r.FindByID(ctx, id)
}

// Delete hard-deletes a goal. Deleting a missing id is not an error here.
func (r *GoalRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.gw.ExecuteStatement(ctx, `DELETE FROM SavingsGoal WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete goal %d: %w", id, err)
	}
	slog.InfoContext(ctx, "Savings goal deleted", "id", id)
	return nil
}

// AddAmount increments currentAmount with a single statement so concurrent
// deposits never lose updates. The amount is not capped at targetAmount.
func (r *GoalRepository) AddAmount(ctx context.Context, id int64, amount decimal.Decimal) (core.Goal, bool, error) {
	_, err := r.gw.ExecuteStatement(ctx, `
		UPDATE SavingsGoal
		SET currentAmount = currentAmount + ?, updatedAt = ?
		WHERE id = ?`,
		core.ToMinorUnits(amount), formatTimestamp(r.now()), id)
	if err != nil {
		return core.Goal{}, false, fmt.Errorf("add amount to goal %d: %w", id, err)
	}

	return r.FindByID(ctx, id)
}

func (r *GoalRepository) reload(ctx context.Context, id int64) (core.Goal, error) {
	g, found, err := r.FindByID(ctx, id)
	if err != nil {
		return core.Goal{}, err
	}
	if !found {
		return core.Goal{}, &core.StorageError{Op: "reload", Err: fmt.Errorf("goal %d vanished after insert", id)}
	}
	return g, nil
}
