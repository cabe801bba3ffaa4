// Package auth is the authentication collaborator: registration, lookup
// and credential verification on top of the repository contract, plus the
// cookie session plumbing for the web layer.
package auth

import (
	"errors"
	"fmt"

	"github.com/mrlokans/catalog/internal/entities"
	"github.com/mrlokans/catalog/internal/repository"
)

var (
	// ErrAccountExists is returned on registration with a taken username.
	// The store itself treats duplicate adds as a no-op; uniqueness is a
	// service-boundary rule.
	ErrAccountExists = errors.New("account already exists")

	// ErrUnknownAccount is returned when a lookup matches no account.
	ErrUnknownAccount = errors.New("unknown account")
)

// Service handles account registration and authentication.
type Service struct {
	repo       repository.Repository
	bcryptCost int
}

// NewService creates an authentication service over the given repository.
func NewService(repo repository.Repository, bcryptCost int) *Service {
	return &Service{repo: repo, bcryptCost: bcryptCost}
}

// Register creates a new account with a hashed credential. The username is
// normalized before the uniqueness check so "  Alice " and "alice" collide.
func (s *Service) Register(username, password string) (*entities.Account, error) {
	existing, err := s.repo.GetAccount(username)
	if err != nil {
		return nil, fmt.Errorf("failed to check existing account: %w", err)
	}
	if existing != nil {
		return nil, ErrAccountExists
	}

	hash, err := HashPassword(password, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	account := entities.NewAccount(username, hash)
	if err := s.repo.AddAccount(account); err != nil {
		return nil, fmt.Errorf("failed to create account: %w", err)
	}
	return account, nil
}

// GetAccount looks an account up by username.
func (s *Service) GetAccount(username string) (*entities.Account, error) {
	account, err := s.repo.GetAccount(username)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrUnknownAccount
	}
	return account, nil
}

// Authenticate verifies the credential and returns the account. Unknown
// usernames and credential mismatches surface as distinct errors.
func (s *Service) Authenticate(username, password string) (*entities.Account, error) {
	account, err := s.GetAccount(username)
	if err != nil {
		return nil, err
	}
	if err := CheckPassword(password, account.PasswordHash); err != nil {
		return nil, err
	}
	return account, nil
}
