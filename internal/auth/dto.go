package auth

import "strings"

// LoginDTO carries the login form.
type LoginDTO struct {
	Email    string `json:"email" mapstructure:"email"`
	Password string `json:"password" mapstructure:"password"`
}

// Normalize trims the email; the password is compared as typed.
func (d LoginDTO) Normalize() LoginDTO {
	d.Email = strings.TrimSpace(d.Email)
	return d
}
