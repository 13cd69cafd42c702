// Package accounts provides admin account and credential management.
package accounts

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/verzel/leadflow/internal/db"
	"github.com/verzel/leadflow/internal/db/sqlc"
)

// Service provides account (credential) management for the admin surface.
type Service struct {
	queries *sqlc.Queries
	logger  *slog.Logger
}

// Errors returned by account operations.
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInactiveAccount    = errors.New("account is inactive")
)

// NewService creates a new accounts service.
func NewService(log *slog.Logger, queries *sqlc.Queries) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{
		queries: queries,
		logger:  log.With(slog.String("service", "accounts")),
	}
}

// Login checks the username/password pair and returns the matching account.
func (s *Service) Login(ctx context.Context, username, password string) (Account, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return Account{}, ErrInvalidCredentials
	}

	row, err := s.queries.GetAccountByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Account{}, ErrInvalidCredentials
		}
		return Account{}, fmt.Errorf("get account: %w", err)
	}
	if !row.IsActive {
		return Account{}, ErrInactiveAccount
	}
	if err := bcrypt.CompareHashAndPassword([]byte(row.PasswordHash), []byte(password)); err != nil {
		return Account{}, ErrInvalidCredentials
	}
	return toAccount(row), nil
}

// EnsureAdmin creates the bootstrap admin account when it does not exist yet.
// A concurrent create by another instance is tolerated.
func (s *Service) EnsureAdmin(ctx context.Context, username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		s.logger.Warn("admin bootstrap skipped, credentials not configured")
		return nil
	}

	_, err := s.queries.GetAccountByUsername(ctx, username)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("get account: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if _, err := s.queries.CreateAccount(ctx, sqlc.CreateAccountParams{
		Username:     username,
		PasswordHash: string(hash),
		Role:         "admin",
	}); err != nil {
		if db.IsUniqueViolation(err) {
			return nil
		}
		return fmt.Errorf("create account: %w", err)
	}
	s.logger.Info("admin account created", slog.String("username", username))
	return nil
}

func toAccount(row sqlc.Account) Account {
	return Account{
		ID:        db.UUIDString(row.ID),
		Username:  row.Username,
		Role:      row.Role,
		IsActive:  row.IsActive,
		CreatedAt: db.TimeFromPg(row.CreatedAt),
		UpdatedAt: db.TimeFromPg(row.UpdatedAt),
	}
}
