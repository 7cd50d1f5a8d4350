package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	"github.com/polkiloo/habittracker/internal/domain/model"
	"github.com/polkiloo/habittracker/internal/domain/repository"
	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
)

// AuthUseCase handles user lifecycle and token management.
type AuthUseCase struct {
	users  repository.UserRepository
	hasher pkgAuth.PasswordHasher
	tokens pkgAuth.Strategy
}

// NewAuthUseCase constructs AuthUseCase.
func NewAuthUseCase(users repository.UserRepository, hasher pkgAuth.PasswordHasher, strategy pkgAuth.Strategy) *AuthUseCase {
	return &AuthUseCase{users: users, hasher: hasher, tokens: strategy}
}

// Register creates a new user. The password is stored only as a salted hash.
func (u *AuthUseCase) Register(ctx context.Context, username, password string) (*model.User, error) {
	username, err := ValidateUsername(username)
	if err != nil {
		return nil, err
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}

	hash, err := u.hasher.Hash(password)
	if err != nil {
		return nil, err
	}

	usr, err := u.users.Create(ctx, username, hash)
	if err != nil {
		if errors.Is(err, domainErrors.ErrAlreadyExists) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}

	return usr, nil
}

// Authenticate validates credentials and returns auth token. Unknown users
// and wrong passwords are indistinguishable to the caller.
func (u *AuthUseCase) Authenticate(ctx context.Context, username, password string) (*model.User, string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	usr, err := u.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return nil, "", domainErrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !u.hasher.Verify(usr.PasswordHash, password) {
		return nil, "", domainErrors.ErrInvalidCredentials
	}

	token, err := u.tokens.IssueToken(usr.ID)
	if err != nil {
		return nil, "", err
	}

	return usr, token, nil
}

// ParseToken verifies the token and resolves it to an existing user.
// A correctly signed token naming an unknown user is ErrInvalidToken.
func (u *AuthUseCase) ParseToken(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, pkgAuth.ErrInvalidToken
	}
	userID, err := u.tokens.ParseToken(token)
	if err != nil {
		return 0, err
	}

	if _, err := u.users.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domainErrors.ErrNotFound) {
			return 0, pkgAuth.ErrInvalidToken
		}
		return 0, fmt.Errorf("resolve token owner: %w", err)
	}
	return userID, nil
}
