// Package auth tracks who is signed in and remembers them across process restarts.
package auth

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

// AccountDirectory is the slice of the repository the session reads and writes.
type AccountDirectory interface {
	FindAccountByEmail(email string) *portalDatamodel.Account
}

// TokenSlot holds the remembered account email.
type TokenSlot interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}

// Session is the signed-in identity for the lifetime of the process.
type Session struct {
	accounts AccountDirectory
	token    TokenSlot
	current  *portalDatamodel.Account
	logger   *slog.Logger
}

func NewSession(accounts AccountDirectory, token TokenSlot, logger *slog.Logger) *Session {
	return &Session{
		accounts: accounts,
		token:    token,
		logger:   logger,
	}
}

// Login signs in a verified account whose email matches case-insensitively and whose
// password matches exactly. A failed attempt leaves the session untouched.
func (s *Session) Login(ctx context.Context, dto LoginDTO) (*portalDatamodel.Account, error) {
	dto = dto.Normalize()

	account := s.accounts.FindAccountByEmail(dto.Email)
	if account == nil || account.Password != dto.Password || !account.Verified {
		s.logger.Info("login rejected", "email", dto.Email)
		return nil, internal.ErrInvalidCredentials
	}

	if err := s.token.Set(ctx, account.Email); err != nil {
		return nil, internal.NewInternalError("failed to remember session", err)
	}
	s.current = account
	s.logger.Info("login succeeded", "account_id", account.ID)
	return s.Current(), nil
}

func (s *Session) Logout(ctx context.Context) error {
	s.current = nil
	if err := s.token.Clear(ctx); err != nil {
		return internal.NewInternalError("failed to forget session", err)
	}
	return nil
}

// Restore resolves a remembered token back into a session. Tokens that no longer point at
// a verified account are cleared.
func (s *Session) Restore(ctx context.Context) error {
	token, ok, err := s.token.Get(ctx)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	if !ok || token == "" {
		return nil
	}

	account := s.accounts.FindAccountByEmail(token)
	if account != nil && account.Verified {
		s.current = account
		s.logger.Debug("session restored", "account_id", account.ID)
		return nil
	}

	s.current = nil
	s.logger.Debug("clearing stale session token")
	if err := s.token.Clear(ctx); err != nil {
		return fmt.Errorf("restore session: %w", err)
	}
	return nil
}

// Current returns a copy of the signed-in account, or nil.
func (s *Session) Current() *portalDatamodel.Account {
	if s.current == nil {
		return nil
	}
	a := *s.current
	return &a
}

func (s *Session) IsAuthenticated() bool {
	return s.current != nil
}

func (s *Session) IsAdmin() bool {
	return s.current.IsAdmin()
}

// Refresh swaps in the latest version of the signed-in account after it was edited.
func (s *Session) Refresh(account portalDatamodel.Account) {
	if s.current != nil && s.current.ID == account.ID {
		s.current = &account
	}
}

// RenameEmail runs write with the remembered token already moved from oldEmail to
// newEmail and puts the token back if write fails. The signed-in account follows the
// new email only once write succeeds.
func (s *Session) RenameEmail(ctx context.Context, oldEmail, newEmail string, write func(ctx context.Context) error) error {
	token, hadToken, err := s.token.Get(ctx)
	if err != nil {
		return fmt.Errorf("rename email: %w", err)
	}

	moveToken := hadToken && portalDatamodel.SameEmail(token, oldEmail)
	if moveToken {
		if err := s.token.Set(ctx, newEmail); err != nil {
			return internal.NewInternalError("failed to update session", err)
		}
	}

	if err := write(ctx); err != nil {
		if moveToken {
			if rerr := s.token.Set(ctx, token); rerr != nil {
				s.logger.Error("failed to restore session token", "error", rerr)
			}
		}
		return err
	}

	if s.current != nil && portalDatamodel.SameEmail(s.current.Email, oldEmail) {
		s.current.Email = newEmail
	}
	s.logger.Info("email renamed", "token_updated", moveToken)
	return nil
}
