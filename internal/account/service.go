// Package account handles registration, verification and the admin account console.
package account

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/core/common/validation"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

type RepositoryAPI interface {
	FindAccountByEmail(email string) *portalDatamodel.Account
	GetAccountByID(id string) *portalDatamodel.Account
	AddAccount(ctx context.Context, a portalDatamodel.Account) error
	UpdateAccount(ctx context.Context, a portalDatamodel.Account) (portalDatamodel.Account, error)
	DeleteAccount(ctx context.Context, id string) (portalDatamodel.Account, error)
}

type SessionAPI interface {
	Current() *portalDatamodel.Account
	Refresh(a portalDatamodel.Account)
	RenameEmail(ctx context.Context, oldEmail, newEmail string, write func(ctx context.Context) error) error
}

// PendingSlot remembers the email waiting for simulated verification.
type PendingSlot interface {
	Get(ctx context.Context) (string, bool, error)
	Set(ctx context.Context, value string) error
	Clear(ctx context.Context) error
}

type Service struct {
	repo    RepositoryAPI
	session SessionAPI
	pending PendingSlot
	logger  *slog.Logger
}

func NewService(repo RepositoryAPI, session SessionAPI, pending PendingSlot, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		session: session,
		pending: pending,
		logger:  logger,
	}
}

// Register creates an unverified user account and marks its email as pending verification.
func (s *Service) Register(ctx context.Context, dto RegisterDTO) (*portalDatamodel.Account, error) {
	dto = dto.Normalize()

	validator := validation.NewValidator()
	validator.Field("email", dto.Email).RequiredAs(internal.ErrEmailRequired)
	validator.Field("password", dto.Password).MinLengthAs(validation.MinPasswordLength, internal.ErrPasswordTooShort)
	if err := validator.ValidateFirst(); err != nil {
		return nil, err
	}

	if s.repo.FindAccountByEmail(dto.Email) != nil {
		return nil, internal.ErrEmailTaken
	}

	account := portalDatamodel.Account{
		ID:        portalDatamodel.NewID(portalDatamodel.PrefixAccount),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Password:  dto.Password,
		Role:      portalDatamodel.RoleUser,
	}

	if err := s.repo.AddAccount(ctx, account); err != nil {
		return nil, err
	}
	if err := s.pending.Set(ctx, account.Email); err != nil {
		return nil, internal.NewInternalError("failed to save data", err)
	}

	s.logger.Info("account registered", "account_id", account.ID)
	return &account, nil
}

// Verify marks the pending account verified and clears the pending slot.
func (s *Service) Verify(ctx context.Context) (*portalDatamodel.Account, error) {
	email, ok, err := s.pending.Get(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to read verification state", err)
	}
	if !ok || email == "" {
		return nil, internal.ErrNoPendingEmail
	}

	account := s.repo.FindAccountByEmail(email)
	if account == nil {
		return nil, internal.NewNotFoundError("Account not found for verification.", internal.ErrCodeAccountNotFound)
	}

	account.Verified = true
	if _, err := s.repo.UpdateAccount(ctx, *account); err != nil {
		return nil, err
	}
	if err := s.pending.Clear(ctx); err != nil {
		s.logger.Warn("failed to clear pending verification", "error", err)
	}

	s.logger.Info("account verified", "account_id", account.ID)
	return account, nil
}

// Save adds an account when dto has no id and edits the existing one otherwise.
// It reports whether an account was created.
func (s *Service) Save(ctx context.Context, dto SaveAccountDTO) (*portalDatamodel.Account, bool, error) {
	dto = dto.Normalize()

	validator := validation.NewValidator()
	validator.Field("email", dto.Email).RequiredAs(internal.ErrEmailRequired)
	if !dto.IsEdit() || dto.Password != "" {
		validator.Field("password", dto.Password).MinLengthAs(validation.MinPasswordLength, internal.ErrPasswordTooShort)
	}
	if err := validator.ValidateFirst(); err != nil {
		return nil, false, err
	}

	if existing := s.repo.FindAccountByEmail(dto.Email); existing != nil && existing.ID != dto.ID {
		return nil, false, internal.ErrEmailTaken
	}

	if !dto.IsEdit() {
		account, err := s.add(ctx, dto)
		return account, true, err
	}
	account, err := s.edit(ctx, dto)
	return account, false, err
}

func (s *Service) add(ctx context.Context, dto SaveAccountDTO) (*portalDatamodel.Account, error) {
	account := portalDatamodel.Account{
		ID:        portalDatamodel.NewID(portalDatamodel.PrefixAccount),
		FirstName: dto.FirstName,
		LastName:  dto.LastName,
		Email:     dto.Email,
		Password:  dto.Password,
		Role:      dto.AccountRole(),
		Verified:  dto.Verified,
	}
	if err := s.repo.AddAccount(ctx, account); err != nil {
		return nil, err
	}
	s.logger.Info("account added", "account_id", account.ID, "role", account.Role)
	return &account, nil
}

func (s *Service) edit(ctx context.Context, dto SaveAccountDTO) (*portalDatamodel.Account, error) {
	current := s.repo.GetAccountByID(dto.ID)
	if current == nil {
		return nil, internal.ErrAccountNotFound
	}

	next := *current
	next.FirstName = dto.FirstName
	next.LastName = dto.LastName
	next.Email = dto.Email
	next.Role = dto.AccountRole()
	next.Verified = dto.Verified
	if dto.Password != "" {
		next.Password = dto.Password
	}

	var prev portalDatamodel.Account
	update := func(ctx context.Context) error {
		var err error
		prev, err = s.repo.UpdateAccount(ctx, next)
		return err
	}

	var err error
	if portalDatamodel.SameEmail(current.Email, next.Email) {
		err = update(ctx)
	} else {
		err = s.session.RenameEmail(ctx, current.Email, next.Email, update)
	}
	if err != nil {
		return nil, err
	}

	s.session.Refresh(next)
	s.logger.Info("account updated", "account_id", next.ID, "email_changed", prev.Email != next.Email)
	return &next, nil
}

func (s *Service) ResetPassword(ctx context.Context, dto ResetPasswordDTO) error {
	account := s.repo.GetAccountByID(dto.ID)
	if account == nil {
		return internal.ErrAccountNotFound
	}
	if err := validation.ValidatePassword(dto.Password); err != nil {
		return err
	}

	account.Password = dto.Password
	if _, err := s.repo.UpdateAccount(ctx, *account); err != nil {
		return err
	}
	s.session.Refresh(*account)
	s.logger.Info("password reset", "account_id", account.ID)
	return nil
}

// Delete removes the account with its employees and requests. The signed-in account
// cannot delete itself.
func (s *Service) Delete(ctx context.Context, dto DeleteAccountDTO) (*portalDatamodel.Account, error) {
	account := s.repo.GetAccountByID(dto.ID)
	if account == nil {
		return nil, internal.ErrAccountNotFound
	}

	if me := s.session.Current(); me != nil && (me.ID == account.ID || portalDatamodel.SameEmail(me.Email, account.Email)) {
		return nil, internal.ErrSelfDelete
	}

	removed, err := s.repo.DeleteAccount(ctx, account.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("account deleted", "account_id", removed.ID)
	return &removed, nil
}
