package employee

import (
	"context"

	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/notify"
)

const (
	CommandSave   = "employee.save"
	CommandDelete = "employee.delete"
)

type Handler struct {
	*command.BaseHandler
	Service *Service
	Guard   *auth.Guard
}

func NewHandler(base *command.BaseHandler, svc *Service, guard *auth.Guard) *Handler {
	return &Handler{BaseHandler: base, Service: svc, Guard: guard}
}

func (h *Handler) RegisterCommands(d *command.Dispatcher) {
	d.Handle(CommandSave, h.Guard.Protect(h, auth.Admin, h.Save))
	d.Handle(CommandDelete, h.Guard.Protect(h, auth.Admin, h.Delete))
}

func (h *Handler) Save(ctx context.Context, p command.Payload) error {
	var dto SaveEmployeeDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Save(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Employee saved.", notify.Success, "")
	return nil
}

func (h *Handler) Delete(ctx context.Context, p command.Payload) error {
	var dto DeleteEmployeeDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Delete(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Employee deleted.", notify.Secondary, "")
	return nil
}
