package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/crypto/bcrypt"

	"savings/internal/core"
)

const userColumns = `id, username, name, email, passwordHash, phone, createdAt, updatedAt`

type UserRepository struct {
	gw   *Gateway
	now  func() time.Time
	cost int
}

func NewUserRepository(gw *Gateway, now func() time.Time) *UserRepository {
	return &UserRepository{gw: gw, now: now, cost: bcrypt.DefaultCost}
}

func scanUser(s Scanner) (core.User, error) {
	var (
		u                    core.User
		phone                sql.NullString
		createdAt, updatedAt string
	)
	if err := s.Scan(&u.ID, &u.Username, &u.Name, &u.Email, &u.PasswordHash, &phone, &createdAt, &updatedAt); err != nil {
		return core.User{}, err
	}
	if phone.Valid {
		p := phone.String
		u.Phone = &p
	}

	var err error
	if u.CreatedAt, u.UpdatedAt, err = parseTimestamps(createdAt, updatedAt); err != nil {
		return core.User{}, err
	}
	return u, nil
}

// Create stores a user with a salted bcrypt hash of d.Password.
func (r *UserRepository) Create(ctx context.Context, d core.UserDraft) (core.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(d.Password), r.cost)
	if err != nil {
		return core.User{}, fmt.Errorf("hash password: %w", err)
	}

	now := formatTimestamp(r.now())
	id, err := r.gw.ExecuteInsert(ctx, `
		INSERT INTO "User" (username, name, email, passwordHash, phone, createdAt, updatedAt)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		d.Username, d.Name, d.Email, string(hash), nullableString(d.Phone), now, now)
	if err != nil {
		return core.User{}, fmt.Errorf("create user: %w", err)
	}

	slog.InfoContext(ctx, "User created", "id", id, "username", d.Username)

	u, found, err := r.FindByID(ctx, id)
	if err != nil {
		return core.User{}, err
	}
	if !found {
		return core.User{}, &core.StorageError{Op: "reload", Err: fmt.Errorf("user %d vanished after insert", id)}
	}
	return u, nil
}

// FindAll returns every user by id.
func (r *UserRepository) FindAll(ctx context.Context) ([]core.User, error) {
	users, err := Execute(ctx, r.gw, scanUser, `SELECT `+userColumns+` FROM "User" ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (r *UserRepository) FindByID(ctx context.Context, id int64) (core.User, bool, error) {
	return r.findOne(ctx, "id", id)
}

func (r *UserRepository) FindByUsername(ctx context.Context, username string) (core.User, bool, error) {
	return r.findOne(ctx, "username", username)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (core.User, bool, error) {
	return r.findOne(ctx, "email", email)
}

// column is always one of the literals above, never caller input.
func (r *UserRepository) findOne(ctx context.Context, column string, value any) (core.User, bool, error) {
	u, found, err := ExecuteOne(ctx, r.gw, scanUser, `SELECT `+userColumns+` FROM "User" WHERE `+column+` = ?`, value)
	if err != nil {
		return core.User{}, false, fmt.Errorf("get user by %s: %w", column, err)
	}
	return u, found, nil
}

func (r *UserRepository) UpdateName(ctx context.Context, id int64, name string) (core.User, bool, error) {
	_, err := r.gw.ExecuteStatement(ctx, `UPDATE "User" SET name = ?, updatedAt = ? WHERE id = ?`,
		name, formatTimestamp(r.now()), id)
	if err != nil {
		return core.User{}, false, fmt.Errorf("rename user %d: %w", id, err)
	}
	return r.FindByID(ctx, id)
}

// VerifyPassword reports whether candidate matches storedHash. Malformed
// hashes never match.
func (r *UserRepository) VerifyPassword(storedHash, candidate string) bool {
	return VerifyPassword(storedHash, candidate)
}

func VerifyPassword(storedHash, candidate string) bool {
	return bcrypt.CompareHashAndPassword([]byte(storedHash), []byte(candidate)) == nil
}
