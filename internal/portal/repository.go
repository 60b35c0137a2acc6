// Package portal holds the in-memory portal document and every query and mutation on it.
package portal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/frahmantamala/procurement-portal/internal"
	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

// Store is the persistence side of the repository.
type Store interface {
	Load(ctx context.Context) (portalDatamodel.Document, error)
	Save(ctx context.Context, doc portalDatamodel.Document) error
}

// Repository owns the loaded document. It is built once per process and mutated in place;
// every mutation is persisted before it returns.
type Repository struct {
	store  Store
	doc    portalDatamodel.Document
	logger *slog.Logger
}

// Open loads the document from store.
func Open(ctx context.Context, store Store, logger *slog.Logger) (*Repository, error) {
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}
	logger.Debug("document loaded",
		"accounts", len(doc.Accounts),
		"departments", len(doc.Departments),
		"employees", len(doc.Employees),
		"requests", len(doc.Requests))
	return &Repository{store: store, doc: doc, logger: logger}, nil
}

// Document returns a copy of the whole document.
func (r *Repository) Document() portalDatamodel.Document {
	return r.doc.Clone()
}

func (r *Repository) Accounts() []portalDatamodel.Account {
	return append([]portalDatamodel.Account{}, r.doc.Accounts...)
}

func (r *Repository) Departments() []portalDatamodel.Department {
	return append([]portalDatamodel.Department{}, r.doc.Departments...)
}

func (r *Repository) Employees() []portalDatamodel.Employee {
	return append([]portalDatamodel.Employee{}, r.doc.Employees...)
}

// FindAccountByEmail matches trimmed, case-insensitive. It returns nil when nothing matches.
func (r *Repository) FindAccountByEmail(email string) *portalDatamodel.Account {
	key := portalDatamodel.EmailKey(email)
	for i := range r.doc.Accounts {
		if portalDatamodel.EmailKey(r.doc.Accounts[i].Email) == key {
			a := r.doc.Accounts[i]
			return &a
		}
	}
	return nil
}

func (r *Repository) GetAccountByID(id string) *portalDatamodel.Account {
	for i := range r.doc.Accounts {
		if r.doc.Accounts[i].ID == id {
			a := r.doc.Accounts[i]
			return &a
		}
	}
	return nil
}

func (r *Repository) GetDepartmentByID(id string) *portalDatamodel.Department {
	for i := range r.doc.Departments {
		if r.doc.Departments[i].ID == id {
			d := r.doc.Departments[i]
			return &d
		}
	}
	return nil
}

func (r *Repository) GetEmployeeByID(id string) *portalDatamodel.Employee {
	for i := range r.doc.Employees {
		if r.doc.Employees[i].ID == id {
			e := r.doc.Employees[i]
			return &e
		}
	}
	return nil
}

// RequestsFor lists the requests owned by email, newest first.
func (r *Repository) RequestsFor(email string) []portalDatamodel.Request {
	key := portalDatamodel.EmailKey(email)
	out := make([]portalDatamodel.Request, 0)
	for _, req := range r.doc.Requests {
		if portalDatamodel.EmailKey(req.EmployeeEmail) == key {
			req.Items = append([]portalDatamodel.Item{}, req.Items...)
			out = append(out, req)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date > out[j].Date
	})
	return out
}

// Mutate applies fn to a copy of the document and, if fn succeeds, swaps the copy in and
// persists it. On any error the in-memory document is left as it was.
func (r *Repository) Mutate(ctx context.Context, fn func(doc *portalDatamodel.Document) error) error {
	next := r.doc.Clone()
	if err := fn(&next); err != nil {
		return err
	}

	prev := r.doc
	r.doc = next
	if err := r.Persist(ctx); err != nil {
		r.doc = prev
		return err
	}
	return nil
}

// Persist writes the current document through the store.
func (r *Repository) Persist(ctx context.Context) error {
	if err := r.store.Save(ctx, r.doc); err != nil {
		r.logger.Error("failed to persist document", "error", err)
		return internal.NewInternalError("failed to save data", err)
	}
	return nil
}

// Reset replaces the whole document, e.g. when reseeding.
func (r *Repository) Reset(ctx context.Context, doc portalDatamodel.Document) error {
	return r.Mutate(ctx, func(d *portalDatamodel.Document) error {
		*d = doc.Clone()
		return nil
	})
}
