package auth

import (
	"context"

	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
)

const (
	CommandLogin  = "login"
	CommandLogout = "logout"
)

type Handler struct {
	*command.BaseHandler
	Session *Session
}

func NewHandler(base *command.BaseHandler, session *Session) *Handler {
	return &Handler{
		BaseHandler: base,
		Session:     session,
	}
}

func (h *Handler) RegisterCommands(d *command.Dispatcher) {
	d.Handle(CommandLogin, h.Login)
	d.Handle(CommandLogout, h.Logout)
}

func (h *Handler) Login(ctx context.Context, p command.Payload) error {
	var dto LoginDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Session.Login(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Welcome back!", notify.Success, router.Profile)
	return nil
}

func (h *Handler) Logout(ctx context.Context, _ command.Payload) error {
	if err := h.Session.Logout(ctx); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Logged out.", notify.Secondary, router.Home)
	return nil
}
