// Package normalize turns whatever was found in storage into a well-formed portal document.
//
// It is the only place where loosely typed input meets the canonical types: values are
// coerced rather than rejected, legacy shapes are migrated, and the document is seeded so
// that an administrator and at least one department always exist.
package normalize

import (
	"encoding/json"
	"strings"
	"time"

	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
	"github.com/spf13/cast"
)

const (
	SeedAdminEmail    = "admin@example.com"
	SeedAdminPassword = "Password123!"
)

// DateLayout matches the millisecond ISO-8601 timestamps the portal has always written.
const DateLayout = "2006-01-02T15:04:05.000Z"

var SeedDepartments = []string{"Engineering", "HR"}

type Normalizer struct {
	Now   func() time.Time
	NewID func(prefix string) string
}

func New() *Normalizer {
	return &Normalizer{
		Now:   time.Now,
		NewID: portalDatamodel.NewID,
	}
}

// Document normalizes raw with the default clock and id generator.
func Document(raw any) portalDatamodel.Document {
	return New().Document(raw)
}

// Document never fails. Unknown input yields the seeded default document.
func (n *Normalizer) Document(raw any) portalDatamodel.Document {
	root := asObject(raw)

	doc := portalDatamodel.Document{
		Accounts:    n.accounts(root["accounts"]),
		Departments: n.departments(root["departments"]),
		Employees:   n.employees(root["employees"]),
		Requests:    n.requests(root["requests"]),
	}

	if !hasAdmin(doc.Accounts) {
		if i := indexOfEmail(doc.Accounts, SeedAdminEmail); i >= 0 {
			// a plain user already holds the seed address
			doc.Accounts[i].Role = portalDatamodel.RoleAdmin
		}
	}

	if !hasAdmin(doc.Accounts) {
		taken := make(map[string]bool, len(doc.Accounts))
		for i := range doc.Accounts {
			taken[doc.Accounts[i].ID] = true
		}
		seed := portalDatamodel.Account{
			ID:        n.unique(taken, "", portalDatamodel.PrefixAccount),
			FirstName: "Admin",
			LastName:  "User",
			Email:     SeedAdminEmail,
			Password:  SeedAdminPassword,
			Role:      portalDatamodel.RoleAdmin,
			Verified:  true,
		}
		doc.Accounts = append([]portalDatamodel.Account{seed}, doc.Accounts...)
	}

	if len(doc.Departments) == 0 {
		for _, name := range SeedDepartments {
			doc.Departments = append(doc.Departments, portalDatamodel.Department{
				ID:   n.NewID(portalDatamodel.PrefixDepartment),
				Name: name,
			})
		}
	}

	return doc
}

// accounts keeps one account per email key. A later admin entry replaces an earlier
// non-admin one with the same email so the document keeps its administrator.
func (n *Normalizer) accounts(raw any) []portalDatamodel.Account {
	out := make([]portalDatamodel.Account, 0)
	ids := map[string]bool{}
	byEmail := map[string]int{}
	for _, entry := range asArray(raw) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		a := portalDatamodel.Account{
			ID:        text(m["id"]),
			FirstName: text(m["firstName"]),
			LastName:  text(m["lastName"]),
			Email:     text(m["email"]),
			Password:  str(m["password"]),
			Role:      portalDatamodel.RoleUser,
			Verified:  boolean(m["verified"]),
		}
		if cast.ToString(m["role"]) == string(portalDatamodel.RoleAdmin) {
			a.Role = portalDatamodel.RoleAdmin
		}
		if a.Email == "" {
			continue
		}
		key := portalDatamodel.EmailKey(a.Email)
		if i, dup := byEmail[key]; dup {
			if a.IsAdmin() && !out[i].IsAdmin() {
				a.ID = out[i].ID
				out[i] = a
			}
			continue
		}
		a.ID = n.unique(ids, a.ID, portalDatamodel.PrefixAccount)
		byEmail[key] = len(out)
		out = append(out, a)
	}
	return out
}

func (n *Normalizer) departments(raw any) []portalDatamodel.Department {
	out := make([]portalDatamodel.Department, 0)
	ids := map[string]bool{}
	for _, entry := range asArray(raw) {
		var d portalDatamodel.Department
		switch v := entry.(type) {
		case string:
			// legacy shape: ["Engineering", "HR"]
			d = portalDatamodel.Department{Name: strings.TrimSpace(v)}
		case map[string]any:
			d = portalDatamodel.Department{
				ID:          text(v["id"]),
				Name:        text(v["name"]),
				Description: text(v["description"]),
			}
		default:
			continue
		}
		if d.Name == "" {
			continue
		}
		d.ID = n.unique(ids, d.ID, portalDatamodel.PrefixDepartment)
		out = append(out, d)
	}
	return out
}

func (n *Normalizer) employees(raw any) []portalDatamodel.Employee {
	out := make([]portalDatamodel.Employee, 0)
	ids := map[string]bool{}
	for _, entry := range asArray(raw) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		e := portalDatamodel.Employee{
			ID:         text(m["id"]),
			EmployeeID: text(first(m["employeeId"], m["empId"])),
			UserEmail:  text(first(m["userEmail"], m["email"])),
			Position:   text(m["position"]),
			DeptID:     text(m["deptId"]),
			HireDate:   text(m["hireDate"]),
		}
		if e.EmployeeID == "" {
			continue
		}
		e.ID = n.unique(ids, e.ID, portalDatamodel.PrefixEmployee)
		out = append(out, e)
	}
	return out
}

func (n *Normalizer) requests(raw any) []portalDatamodel.Request {
	out := make([]portalDatamodel.Request, 0)
	ids := map[string]bool{}
	for _, entry := range asArray(raw) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		r := portalDatamodel.Request{
			ID:            n.unique(ids, text(m["id"]), portalDatamodel.PrefixRequest),
			EmployeeEmail: text(m["employeeEmail"]),
			Type:          text(m["type"]),
			Items:         Items(m["items"]),
			Status:        status(m["status"]),
			Date:          text(m["date"]),
		}
		if r.Date == "" {
			r.Date = n.Now().UTC().Format(DateLayout)
		}
		out = append(out, r)
	}
	return out
}

// Items keeps named object entries and clamps each quantity to at least one.
func Items(raw any) []portalDatamodel.Item {
	out := make([]portalDatamodel.Item, 0)
	for _, entry := range asArray(raw) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		name := text(m["name"])
		if name == "" {
			continue
		}
		out = append(out, portalDatamodel.Item{Name: name, Qty: Quantity(m["qty"])})
	}
	return out
}

// Quantity coerces v to an integer of at least one.
func Quantity(v any) int {
	qty, err := cast.ToIntE(v)
	if err != nil {
		if f, ferr := cast.ToFloat64E(v); ferr == nil {
			qty = int(f)
		}
	}
	if qty < 1 {
		return 1
	}
	return qty
}

func status(v any) portalDatamodel.Status {
	switch s := portalDatamodel.Status(text(v)); s {
	case portalDatamodel.StatusApproved, portalDatamodel.StatusRejected:
		return s
	default:
		return portalDatamodel.StatusPending
	}
}

// unique returns id, or a fresh one when id is empty or already in seen, and records it.
func (n *Normalizer) unique(seen map[string]bool, id, prefix string) string {
	for id == "" || seen[id] {
		id = n.NewID(prefix)
	}
	seen[id] = true
	return id
}

func indexOfEmail(accounts []portalDatamodel.Account, email string) int {
	key := portalDatamodel.EmailKey(email)
	for i := range accounts {
		if portalDatamodel.EmailKey(accounts[i].Email) == key {
			return i
		}
	}
	return -1
}

func hasAdmin(accounts []portalDatamodel.Account) bool {
	for i := range accounts {
		if accounts[i].IsAdmin() {
			return true
		}
	}
	return false
}

func asObject(raw any) map[string]any {
	switch v := raw.(type) {
	case map[string]any:
		return v
	case nil:
		return map[string]any{}
	case portalDatamodel.Document, *portalDatamodel.Document:
		// typed documents go through their JSON form so they get the same treatment
		b, err := json.Marshal(v)
		if err != nil {
			return map[string]any{}
		}
		var m map[string]any
		if err := json.Unmarshal(b, &m); err != nil {
			return map[string]any{}
		}
		return m
	}
	if m, err := cast.ToStringMapE(raw); err == nil {
		return m
	}
	return map[string]any{}
}

func asArray(raw any) []any {
	if v, ok := raw.([]any); ok {
		return v
	}
	if v, ok := raw.([]map[string]any); ok {
		out := make([]any, len(v))
		for i := range v {
			out[i] = v[i]
		}
		return out
	}
	return nil
}

// first returns the first value that is not empty, mirroring `a || b` on loose input.
func first(values ...any) any {
	for _, v := range values {
		if str(v) != "" {
			return v
		}
	}
	return nil
}

func text(v any) string {
	return strings.TrimSpace(str(v))
}

func str(v any) string {
	switch v.(type) {
	case map[string]any, []any:
		return ""
	}
	return cast.ToString(v)
}

func boolean(v any) bool {
	switch b := v.(type) {
	case string:
		return cast.ToBool(strings.TrimSpace(b))
	default:
		return cast.ToBool(v)
	}
}
