package account

import (
	"context"

	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
)

const (
	CommandRegister      = "register"
	CommandVerifyEmail   = "verify-email"
	CommandSave          = "account.save"
	CommandResetPassword = "account.reset-password"
	CommandDelete        = "account.delete"
)

type Handler struct {
	*command.BaseHandler
	Service *Service
	Guard   *auth.Guard
}

func NewHandler(base *command.BaseHandler, svc *Service, guard *auth.Guard) *Handler {
	return &Handler{
		BaseHandler: base,
		Service:     svc,
		Guard:       guard,
	}
}

func (h *Handler) RegisterCommands(d *command.Dispatcher) {
	d.Handle(CommandRegister, h.Register)
	d.Handle(CommandVerifyEmail, h.VerifyEmail)
	d.Handle(CommandSave, h.Guard.Protect(h, auth.Admin, h.Save))
	d.Handle(CommandResetPassword, h.Guard.Protect(h, auth.Admin, h.ResetPassword))
	d.Handle(CommandDelete, h.Guard.Protect(h, auth.Admin, h.Delete))
}

func (h *Handler) Register(ctx context.Context, p command.Payload) error {
	var dto RegisterDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Register(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Registered! Please verify your email (simulated).", notify.Warning, router.VerifyEmail)
	return nil
}

func (h *Handler) VerifyEmail(ctx context.Context, _ command.Payload) error {
	if _, err := h.Service.Verify(ctx); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Email verified. You can now login.", notify.Success, router.Login)
	return nil
}

func (h *Handler) Save(ctx context.Context, p command.Payload) error {
	var dto SaveAccountDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	_, created, err := h.Service.Save(ctx, dto)
	if err != nil {
		return h.Fail(ctx, err)
	}

	if created {
		h.Succeed(ctx, "Account added.", notify.Success, "")
	} else {
		h.Succeed(ctx, "Account updated.", notify.Success, "")
	}
	return nil
}

func (h *Handler) ResetPassword(ctx context.Context, p command.Payload) error {
	var dto ResetPasswordDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if err := h.Service.ResetPassword(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Password reset.", notify.Success, "")
	return nil
}

func (h *Handler) Delete(ctx context.Context, p command.Payload) error {
	var dto DeleteAccountDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Delete(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Account deleted.", notify.Secondary, "")
	return nil
}
