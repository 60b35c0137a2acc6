// Package employee links accounts to departments as employee records.
package employee

import (
	"context"
	"log/slog"

	"github.com/frahmantamala/procurement-portal/internal"
	"github.com/frahmantamala/procurement-portal/internal/core/common/validation"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

type RepositoryAPI interface {
	FindAccountByEmail(email string) *portalDatamodel.Account
	GetDepartmentByID(id string) *portalDatamodel.Department
	AddEmployee(ctx context.Context, e portalDatamodel.Employee) error
	DeleteEmployee(ctx context.Context, id string) (portalDatamodel.Employee, error)
}

type Service struct {
	repo   RepositoryAPI
	logger *slog.Logger
}

func NewService(repo RepositoryAPI, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Save adds an employee record. The user email must resolve to an account and is stored in
// that account's spelling.
func (s *Service) Save(ctx context.Context, dto SaveEmployeeDTO) (*portalDatamodel.Employee, error) {
	dto = dto.Normalize()

	validator := validation.NewValidator()
	validator.Field("employeeId", dto.EmployeeID).RequiredAs(internal.ErrIncompleteForm)
	validator.Field("userEmail", dto.UserEmail).RequiredAs(internal.ErrIncompleteForm)
	validator.Field("position", dto.Position).RequiredAs(internal.ErrIncompleteForm)
	validator.Field("deptId", dto.DeptID).RequiredAs(internal.ErrIncompleteForm)
	validator.Field("hireDate", dto.HireDate).RequiredAs(internal.ErrIncompleteForm)
	if err := validator.ValidateFirst(); err != nil {
		return nil, err
	}

	account := s.repo.FindAccountByEmail(dto.UserEmail)
	if account == nil {
		return nil, internal.ErrUnknownAccount
	}

	dept := s.repo.GetDepartmentByID(dto.DeptID)
	if dept == nil {
		return nil, internal.ErrDepartmentNotFound
	}

	e := portalDatamodel.Employee{
		ID:         portalDatamodel.NewID(portalDatamodel.PrefixEmployee),
		EmployeeID: dto.EmployeeID,
		UserEmail:  account.Email,
		Position:   dto.Position,
		DeptID:     dept.ID,
		HireDate:   dto.HireDate,
	}
	if err := s.repo.AddEmployee(ctx, e); err != nil {
		return nil, err
	}

	s.logger.Info("employee saved", "employee_id", e.ID, "department_id", dept.ID)
	return &e, nil
}

func (s *Service) Delete(ctx context.Context, dto DeleteEmployeeDTO) (*portalDatamodel.Employee, error) {
	removed, err := s.repo.DeleteEmployee(ctx, dto.ID)
	if err != nil {
		return nil, err
	}
	s.logger.Info("employee deleted", "employee_id", removed.ID)
	return &removed, nil
}
