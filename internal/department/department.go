// Package department manages the department list of the admin console.
package department

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/auth"
	"github.com/frahmantamala/procurement-portal/internal/command"
	"github.com/frahmantamala/procurement-portal/internal/core/common/validation"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
)

const CommandSave = "department.save"

var ErrNameRequired = internal.NewValidationError("Department name is required.", internal.ErrCodeIncompleteForm)

type SaveDepartmentDTO struct {
	Name        string `json:"name" mapstructure:"name"`
	Description string `json:"description" mapstructure:"description"`
}

type RepositoryAPI interface {
	AddDepartment(ctx context.Context, d portalDatamodel.Department) error
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Save adds a department. Names are not required to be unique.
func (s *Service) Save(ctx context.Context, dto SaveDepartmentDTO) (*portalDatamodel.Department, error) {
	dto.Name = strings.TrimSpace(dto.Name)
	dto.Description = strings.TrimSpace(dto.Description)

	validator := validation.NewValidator()
	validator.Field("name", dto.Name).RequiredAs(ErrNameRequired)
	if err := validator.ValidateFirst(); err != nil {
		return nil, err
	}

	d := portalDatamodel.Department{
		ID:          portalDatamodel.NewID(portalDatamodel.PrefixDepartment),
		Name:        dto.Name,
		Description: dto.Description,
	}
	if err := s.repo.AddDepartment(ctx, d); err != nil {
		return nil, err
	}
	s.logger.Info("department added", "department_id", d.ID)
	return &d, nil
}

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
}

func (h *Handler) Save(ctx context.Context, p command.Payload) error {
	var dto SaveDepartmentDTO
	if err := h.Decode(p, &dto); err != nil {
		return h.Fail(ctx, err)
	}

	if _, err := h.Service.Save(ctx, dto); err != nil {
		return h.Fail(ctx, err)
	}

	h.Succeed(ctx, "Department saved.", notify.Success, "")
	return nil
}
