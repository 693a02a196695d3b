package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mg3/promag-api/internal/credentials"
	"github.com/mg3/promag-api/internal/store"
	"github.com/mg3/promag-api/types"
)

// UserRepository defines persistence operations for users.
type UserRepository interface {
	GetByUsername(ctx context.Context, username string) (types.User, error)
	GetByToken(ctx context.Context, token string) (types.User, error)
	List(ctx context.Context) ([]types.User, error)
	SetToken(ctx context.Context, id int64, token *string) error
	Upsert(ctx context.Context, user types.User) (types.User, error)
}

// UserService encapsulates login, token checks and the user directory.
type UserService struct {
	repo UserRepository
}

func NewUserService(repo UserRepository) *UserService {
	return &UserService{repo: repo}
}

// Login verifies the password and issues a fresh token, replacing any token
// the user held before.
func (s *UserService) Login(ctx context.Context, username, password string) (string, types.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", types.Identity{}, invalid("Username and password are required.")
	}

	user, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", types.Identity{}, ErrInvalidCredential
		}
		return "", types.Identity{}, fmt.Errorf("load user: %w", err)
	}
	if !credentials.VerifyPassword(password, user.PasswordHash) {
		return "", types.Identity{}, ErrInvalidCredential
	}

	token, err := credentials.IssueToken()
	if err != nil {
		return "", types.Identity{}, err
	}
	if err := s.repo.SetToken(ctx, user.ID, &token); err != nil {
		return "", types.Identity{}, fmt.Errorf("store token: %w", err)
	}
	return token, user.Identity(), nil
}

// Logout revokes the caller's token.
func (s *UserService) Logout(ctx context.Context, identity types.Identity) error {
	return s.repo.SetToken(ctx, identity.ID, nil)
}

// Authenticate resolves a token to the user holding it.
func (s *UserService) Authenticate(ctx context.Context, token string) (types.Identity, error) {
	if token == "" {
		return types.Identity{}, ErrUnauthenticated
	}
	user, err := s.repo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return types.Identity{}, ErrInvalidCredential
		}
		return types.Identity{}, err
	}
	return user.Identity(), nil
}

func (s *UserService) List(ctx context.Context) ([]types.Identity, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	identities := make([]types.Identity, 0, len(users))
	for _, u := range users {
		identities = append(identities, u.Identity())
	}
	return identities, nil
}

// Seed creates the user or resets its email, name and password.
func (s *UserService) Seed(ctx context.Context, username, password, email, fullName string) (types.Identity, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return types.Identity{}, invalid("username is required.")
	}
	hash, err := credentials.HashPassword(password)
	if errors.Is(err, credentials.ErrEmptyPassword) {
		return types.Identity{}, invalid("password is required.")
	}
	if err != nil {
		return types.Identity{}, err
	}
	user, err := s.repo.Upsert(ctx, types.User{
		Username:     username,
		Email:        strings.TrimSpace(email),
		FullName:     strings.TrimSpace(fullName),
		PasswordHash: hash,
	})
	if err != nil {
		return types.Identity{}, err
	}
	return user.Identity(), nil
}
