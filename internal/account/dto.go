package account

import (
	"strings"

	portalDatamodel "github.com/frahmantamala/procurement-portal/internal/core/datamodel/portal"
)

type RegisterDTO struct {
	FirstName string `json:"firstName" mapstructure:"firstName"`
	LastName  string `json:"lastName" mapstructure:"lastName"`
	Email     string `json:"email" mapstructure:"email"`
	Password  string `json:"password" mapstructure:"password"`
}

func (d RegisterDTO) Normalize() RegisterDTO {
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

// SaveAccountDTO is the admin account form. An empty ID adds a new account.
type SaveAccountDTO struct {
	ID        string `json:"id" mapstructure:"id"`
	FirstName string `json:"firstName" mapstructure:"firstName"`
	LastName  string `json:"lastName" mapstructure:"lastName"`
	Email     string `json:"email" mapstructure:"email"`
	Password  string `json:"password" mapstructure:"password"`
	Role      string `json:"role" mapstructure:"role"`
	Verified  bool   `json:"verified" mapstructure:"verified"`
}

func (d SaveAccountDTO) Normalize() SaveAccountDTO {
	d.ID = strings.TrimSpace(d.ID)
	d.FirstName = strings.TrimSpace(d.FirstName)
	d.LastName = strings.TrimSpace(d.LastName)
	d.Email = strings.TrimSpace(d.Email)
	return d
}

func (d SaveAccountDTO) IsEdit() bool {
	return d.ID != ""
}

// AccountRole maps anything but "admin" to the user role.
func (d SaveAccountDTO) AccountRole() portalDatamodel.Role {
	if d.Role == string(portalDatamodel.RoleAdmin) {
		return portalDatamodel.RoleAdmin
	}
	return portalDatamodel.RoleUser
}

type ResetPasswordDTO struct {
	ID       string `json:"id" mapstructure:"id"`
	Password string `json:"password" mapstructure:"password"`
}

type DeleteAccountDTO struct {
	ID string `json:"id" mapstructure:"id"`
}
