package portal

import (
	"context"

	"github.com/frahmantamala/procurement-portal/internal"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

func (r *Repository) AddAccount(ctx context.Context, a portalDatamodel.Account) error {
	return r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		doc.Accounts = append(doc.Accounts, a)
		return nil
	})
}

// UpdateAccount replaces the account with the same id and returns the previous version.
// An email change moves the account's employees and requests along in the same write.
func (r *Repository) UpdateAccount(ctx context.Context, a portalDatamodel.Account) (portalDatamodel.Account, error) {
	var prev portalDatamodel.Account
	moved := 0
	err := r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		i := indexOfAccount(doc, a.ID)
		if i < 0 {
			return internal.ErrAccountNotFound
		}
		prev = doc.Accounts[i]
		doc.Accounts[i] = a
		if err := requireAdmin(doc); err != nil {
			return err
		}
		if !portalDatamodel.SameEmail(prev.Email, a.Email) {
			moved = replaceEmail(doc, prev.Email, a.Email)
		}
		return nil
	})
	if err == nil && moved > 0 {
		r.logger.Info("records moved to new email", "account_id", a.ID, "records", moved)
	}
	return prev, err
}

// DeleteAccount removes the account and every employee and request referencing its email.
func (r *Repository) DeleteAccount(ctx context.Context, id string) (portalDatamodel.Account, error) {
	var removed portalDatamodel.Account
	err := r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		i := indexOfAccount(doc, id)
		if i < 0 {
			return internal.ErrAccountNotFound
		}
		removed = doc.Accounts[i]
		doc.Accounts = append(doc.Accounts[:i], doc.Accounts[i+1:]...)
		if err := requireAdmin(doc); err != nil {
			return err
		}

		employees := doc.Employees[:0]
		for _, e := range doc.Employees {
			if !portalDatamodel.SameEmail(e.UserEmail, removed.Email) {
				employees = append(employees, e)
			}
		}
		doc.Employees = employees

		requests := doc.Requests[:0]
		for _, req := range doc.Requests {
			if !portalDatamodel.SameEmail(req.EmployeeEmail, removed.Email) {
				requests = append(requests, req)
			}
		}
		doc.Requests = requests
		return nil
	})
	return removed, err
}

func (r *Repository) AddDepartment(ctx context.Context, d portalDatamodel.Department) error {
	return r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		doc.Departments = append(doc.Departments, d)
		return nil
	})
}

func (r *Repository) AddEmployee(ctx context.Context, e portalDatamodel.Employee) error {
	return r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		doc.Employees = append(doc.Employees, e)
		return nil
	})
}

func (r *Repository) DeleteEmployee(ctx context.Context, id string) (portalDatamodel.Employee, error) {
	var removed portalDatamodel.Employee
	err := r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		for i := range doc.Employees {
			if doc.Employees[i].ID == id {
				removed = doc.Employees[i]
				doc.Employees = append(doc.Employees[:i], doc.Employees[i+1:]...)
				return nil
			}
		}
		return internal.ErrEmployeeNotFound
	})
	return removed, err
}

func (r *Repository) AddRequest(ctx context.Context, req portalDatamodel.Request) error {
	return r.Mutate(ctx, func(doc *portalDatamodel.Document) error {
		doc.Requests = append(doc.Requests, req)
		return nil
	})
}

func indexOfAccount(doc *portalDatamodel.Document, id string) int {
	for i := range doc.Accounts {
		if doc.Accounts[i].ID == id {
			return i
		}
	}
	return -1
}

func requireAdmin(doc *portalDatamodel.Document) error {
	for i := range doc.Accounts {
		if doc.Accounts[i].IsAdmin() {
			return nil
		}
	}
	return internal.ErrLastAdmin
}

// replaceEmail re-points every employee and request owned by oldEmail to newEmail.
func replaceEmail(doc *portalDatamodel.Document, oldEmail, newEmail string) int {
	changed := 0
	for i := range doc.Employees {
		if portalDatamodel.SameEmail(doc.Employees[i].UserEmail, oldEmail) {
			doc.Employees[i].UserEmail = newEmail
			changed++
		}
	}
	for i := range doc.Requests {
		if portalDatamodel.SameEmail(doc.Requests[i].EmployeeEmail, oldEmail) {
			doc.Requests[i].EmployeeEmail = newEmail
			changed++
		}
	}
	return changed
}
