// Package view renders repository state into markup for named containers.
package view

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"io"
	"log/slog"
	"strings"
	"time"

	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/frahmantamala/procurement-portal/internal/notify"
	"github.com/frahmantamala/procurement-portal/internal/router"
)

//go:embed templates/*.html
var templateFS embed.FS

// Source is the read side of the repository.
type Source interface {
	Accounts() []portalDatamodel.Account
	Departments() []portalDatamodel.Department
	Employees() []portalDatamodel.Employee
	GetDepartmentByID(id string) *portalDatamodel.Department
	RequestsFor(email string) []portalDatamodel.Request
}

// Viewer reports the signed-in account.
type Viewer interface {
	Current() *portalDatamodel.Account
}

// PendingEmail is the slot holding the address awaiting verification.
type PendingEmail interface {
	Get(ctx context.Context) (string, bool, error)
}

type Renderer struct {
	tmpl    *template.Template
	source  Source
	viewer  Viewer
	pending PendingEmail
	surface Surface
	logger  *slog.Logger
}

func NewRenderer(source Source, viewer Viewer, pending PendingEmail, surface Surface, logger *slog.Logger) (*Renderer, error) {
	tmpl, err := template.New("view").ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	return &Renderer{
		tmpl:    tmpl,
		source:  source,
		viewer:  viewer,
		pending: pending,
		surface: surface,
		logger:  logger,
	}, nil
}

// Bind registers the page enter callbacks on r.
func (v *Renderer) Bind(r *router.Router) {
	r.OnEnter(router.PageVerifyEmail, v.VerifyEmail)
	r.OnEnter(router.PageProfile, v.Profile)
	r.OnEnter(router.PageRequests, v.Requests)
	r.OnEnter(router.PageAccounts, v.Accounts)
	r.OnEnter(router.PageDepartments, v.Departments)
	r.OnEnter(router.PageEmployees, v.Employees)
}

// PageContainers lists the containers each page shows.
var PageContainers = map[router.Page][]string{
	router.PageVerifyEmail: {ContainerVerifyEmail},
	router.PageProfile:     {ContainerProfile},
	router.PageRequests:    {ContainerRequests},
	router.PageAccounts:    {ContainerAccounts},
	router.PageDepartments: {ContainerDepartments},
	router.PageEmployees:   {ContainerEmployees, ContainerDepartmentOptions},
}

func (v *Renderer) VerifyEmail(ctx context.Context) error {
	email, ok, err := v.pending.Get(ctx)
	if err != nil {
		return fmt.Errorf("read pending email: %w", err)
	}
	if !ok || email == "" {
		email = "your email"
	}
	return v.put(ContainerVerifyEmail, email)
}

func (v *Renderer) Profile(_ context.Context) error {
	return v.put(ContainerProfile, v.viewer.Current())
}

type accountRow struct {
	ID       string
	Name     string
	Email    string
	Role     portalDatamodel.Role
	IsAdmin  bool
	Verified bool
}

func (v *Renderer) Accounts(_ context.Context) error {
	accounts := v.source.Accounts()
	rows := make([]accountRow, 0, len(accounts))
	for _, a := range accounts {
		rows = append(rows, accountRow{
			ID:       a.ID,
			Name:     strings.TrimSpace(a.FirstName + " " + a.LastName),
			Email:    a.Email,
			Role:     a.Role,
			IsAdmin:  a.IsAdmin(),
			Verified: a.Verified,
		})
	}
	return v.put(ContainerAccounts, rows)
}

func (v *Renderer) Departments(_ context.Context) error {
	return v.put(ContainerDepartments, v.source.Departments())
}

type employeeRow struct {
	ID         string
	EmployeeID string
	UserEmail  string
	Position   string
	Department string
	HireDate   string
}

// Employees renders the employee table and the department picker of the employee form.
func (v *Renderer) Employees(_ context.Context) error {
	employees := v.source.Employees()
	rows := make([]employeeRow, 0, len(employees))
	for _, e := range employees {
		dept := "—"
		if d := v.source.GetDepartmentByID(e.DeptID); d != nil {
			dept = d.Name
		}
		hired := e.HireDate
		if hired == "" {
			hired = "—"
		}
		rows = append(rows, employeeRow{
			ID:         e.ID,
			EmployeeID: e.EmployeeID,
			UserEmail:  e.UserEmail,
			Position:   e.Position,
			Department: dept,
			HireDate:   hired,
		})
	}
	if err := v.put(ContainerEmployees, rows); err != nil {
		return err
	}
	return v.put(ContainerDepartmentOptions, v.source.Departments())
}

type requestRow struct {
	Type       string
	ItemCount  int
	Status     portalDatamodel.Status
	BadgeClass string
	Date       string
}

// Requests lists the signed-in account's requests, newest first.
func (v *Renderer) Requests(_ context.Context) error {
	email := ""
	if current := v.viewer.Current(); current != nil {
		email = current.Email
	}

	requests := v.source.RequestsFor(email)
	if email == "" {
		requests = nil
	}
	rows := make([]requestRow, 0, len(requests))
	for _, r := range requests {
		rows = append(rows, requestRow{
			Type:       r.Type,
			ItemCount:  len(r.Items),
			Status:     r.Status,
			BadgeClass: StatusBadgeClass(r.Status),
			Date:       displayDate(r.Date),
		})
	}
	return v.put(ContainerRequests, rows)
}

// StatusBadgeClass picks the badge style for a request status.
func StatusBadgeClass(s portalDatamodel.Status) string {
	switch s {
	case portalDatamodel.StatusApproved:
		return "bg-success"
	case portalDatamodel.StatusRejected:
		return "bg-danger"
	default:
		return "bg-warning text-dark"
	}
}

func displayDate(iso string) string {
	t, err := time.Parse(time.RFC3339Nano, iso)
	if err != nil {
		return iso
	}
	return t.UTC().Format("2006-01-02 15:04")
}

func (v *Renderer) put(container string, data any) error {
	var buf bytes.Buffer
	if err := v.tmpl.ExecuteTemplate(&buf, container, data); err != nil {
		v.logger.Error("render failed", "container", container, "error", err)
		return fmt.Errorf("render %s: %w", container, err)
	}
	v.surface.Put(container, template.HTML(strings.TrimSpace(buf.String())))
	return nil
}

// PageData is what the preview layout shows.
type PageData struct {
	Fragment      string
	Page          router.Page
	User          *portalDatamodel.Account
	UserLabel     string
	Notifications []notify.Notification
	Containers    []Container
}

// Layout writes the full preview document.
func (v *Renderer) Layout(w io.Writer, data PageData) error {
	if data.UserLabel == "" {
		data.UserLabel = data.User.DisplayName()
	}
	return v.tmpl.ExecuteTemplate(w, "layout", data)
}
