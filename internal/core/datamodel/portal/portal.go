package portal

import (
	"strings"

	"github.com/google/uuid"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type Status string

const (
	StatusPending  Status = "Pending"
	StatusApproved Status = "Approved"
	StatusRejected Status = "Rejected"
)

type Account struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	Role      Role   `json:"role"`
	Verified  bool   `json:"verified"`
}

func (a *Account) IsAdmin() bool {
	return a != nil && a.Role == RoleAdmin
}

// DisplayName is the label shown in the account menu.
func (a *Account) DisplayName() string {
	if a == nil {
		return "Account"
	}
	if a.FirstName != "" {
		return a.FirstName
	}
	if a.Email != "" {
		return a.Email
	}
	return "Account"
}

type Department struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Employee struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	UserEmail  string `json:"userEmail"`
	Position   string `json:"position"`
	DeptID     string `json:"deptId"`
	HireDate   string `json:"hireDate"`
}

type Item struct {
	Name string `json:"name"`
	Qty  int    `json:"qty"`
}

type Request struct {
	ID            string `json:"id"`
	EmployeeEmail string `json:"employeeEmail"`
	Type          string `json:"type"`
	Items         []Item `json:"items"`
	Status        Status `json:"status"`
	Date          string `json:"date"`
}

// Document is the single persisted value holding every collection.
type Document struct {
	Accounts    []Account    `json:"accounts"`
	Departments []Department `json:"departments"`
	Employees   []Employee   `json:"employees"`
	Requests    []Request    `json:"requests"`
}

// Clone returns a deep copy so readers never alias the live collections.
func (d Document) Clone() Document {
	out := Document{
		Accounts:    append([]Account{}, d.Accounts...),
		Departments: append([]Department{}, d.Departments...),
		Employees:   append([]Employee{}, d.Employees...),
		Requests:    make([]Request, len(d.Requests)),
	}
	for i, r := range d.Requests {
		r.Items = append([]Item{}, r.Items...)
		out.Requests[i] = r
	}
	return out
}

// Prefixes used by NewID for each collection.
const (
	PrefixAccount    = "acc"
	PrefixDepartment = "dept"
	PrefixEmployee   = "emp"
	PrefixRequest    = "req"
)

func NewID(prefix string) string {
	if prefix == "" {
		return uuid.NewString()
	}
	return prefix + "_" + uuid.NewString()
}

// EmailKey is the comparison form of an email: trimmed and lower-cased.
func EmailKey(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func SameEmail(a, b string) bool {
	return EmailKey(a) == EmailKey(b)
}
