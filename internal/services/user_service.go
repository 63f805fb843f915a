package services

import (
	"context"
	"strings"

	"savings/internal/core"
)

type UserService struct {
	users UserStore
}

func NewUserService(users UserStore) *UserService {
	return &UserService{users: users}
}

// Register creates a user after checking username and email are free.
func (s *UserService) Register(ctx context.Context, d core.UserDraft) (core.User, error) {
	if err := d.Validate(); err != nil {
		return core.User{}, err
	}

	if _, found, err := s.users.FindByUsername(ctx, d.Username); err != nil {
		return core.User{}, err
	} else if found {
		return core.User{}, &core.ValidationError{Field: "username", Err: core.ErrTaken}
	}

	if _, found, err := s.users.FindByEmail(ctx, d.Email); err != nil {
		return core.User{}, err
	} else if found {
		return core.User{}, &core.ValidationError{Field: "email", Err: core.ErrTaken}
	}

	return s.users.Create(ctx, d)
}

// Authenticate returns the user when password matches. Unknown usernames and
// wrong passwords both yield ErrInvalidCredentials.
func (s *UserService) Authenticate(ctx context.Context, username, password string) (core.User, error) {
	u, found, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return core.User{}, err
	}
	if !found || !s.users.VerifyPassword(u.PasswordHash, password) {
		return core.User{}, core.ErrInvalidCredentials
	}
	return u, nil
}

func (s *UserService) Rename(ctx context.Context, id int64, name string) (core.User, error) {
	if strings.TrimSpace(name) == "" {
		return core.User{}, &core.ValidationError{Field: "name", Err: core.ErrEmptyName}
	}

	if _, found, err := s.users.FindByID(ctx, id); err != nil {
		return core.User{}, err
	} else if !found {
		return core.User{}, &core.NotFoundError{Entity: "user", ID: id}
	}

	u, found, err := s.users.UpdateName(ctx, id, name)
	if err != nil {
		return core.User{}, err
	}
	if !found {
		return core.User{}, &core.NotFoundError{Entity: "user", ID: id}
	}
	return u, nil
}

// ListUsers returns every registered user.
func (s *UserService) ListUsers(ctx context.Context) ([]core.User, error) {
	return s.users.FindAll(ctx)
}
