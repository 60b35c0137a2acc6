package router

import "strings"

// Page names the single active screen.
type Page string

const (
	PageNone        Page = ""
	PageHome        Page = "home"
	PageRegister    Page = "register"
	PageVerifyEmail Page = "verify-email"
	PageLogin       Page = "login"
	PageProfile     Page = "profile"
	PageRequests    Page = "requests"
	PageAccounts    Page = "accounts"
	PageDepartments Page = "departments"
	PageEmployees   Page = "employees"
)

const (
	Home        = "#/"
	Register    = "#/register"
	VerifyEmail = "#/verify-email"
	Login       = "#/login"
	Profile     = "#/profile"
	Requests    = "#/requests"
	Accounts    = "#/accounts"
	Departments = "#/departments"
	Employees   = "#/employees"
)

type Route struct {
	Fragment      string
	Page          Page
	RequiresAuth  bool
	RequiresAdmin bool
}

// DefaultRoutes is the portal's route table.
var DefaultRoutes = []Route{
	{Fragment: Home, Page: PageHome},
	{Fragment: Register, Page: PageRegister},
	{Fragment: VerifyEmail, Page: PageVerifyEmail},
	{Fragment: Login, Page: PageLogin},
	{Fragment: Profile, Page: PageProfile, RequiresAuth: true},
	{Fragment: Requests, Page: PageRequests, RequiresAuth: true},
	{Fragment: Accounts, Page: PageAccounts, RequiresAuth: true, RequiresAdmin: true},
	{Fragment: Departments, Page: PageDepartments, RequiresAuth: true, RequiresAdmin: true},
	{Fragment: Employees, Page: PageEmployees, RequiresAuth: true, RequiresAdmin: true},
}

// CleanFragment trims whitespace and adds a missing leading '#'. A bare "#" becomes empty.
func CleanFragment(fragment string) string {
	f := strings.TrimSpace(fragment)
	if f == "" || f == "#" {
		return ""
	}
	if !strings.HasPrefix(f, "#") {
		f = "#" + f
	}
	return f
}
