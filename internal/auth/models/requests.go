package models

import (
	"strings"
	"unicode/utf8"

	"stellariq/pkg/email"
)

const (
	MinPasswordLength = 6
	// bcrypt ignores input beyond 72 bytes
	MaxPasswordLength = 72
	MaxNameLength     = 50
	MaxBioLength      = 500
	MaxFieldLength    = 100
)

type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// Normalize trims names and canonicalises the email in place.
func (r *RegisterRequest) Normalize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = email.Normalize(r.Email)
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (r *LoginRequest) Normalize() {
	r.Email = email.Normalize(r.Email)
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// UpdateProfileRequest carries a partial update; nil fields are left unchanged.
type UpdateProfileRequest struct {
	FirstName      *string `json:"firstName"`
	LastName       *string `json:"lastName"`
	Bio            *string `json:"bio"`
	Location       *string `json:"location"`
	CurrentRole    *string `json:"currentRole"`
	CurrentCompany *string `json:"currentCompany"`
}

// AuthResult is returned by register and login.
type AuthResult struct {
	User  PublicUser `json:"user"`
	Token string     `json:"token"`
}

// ProfileResult wraps a user for profile responses.
type ProfileResult struct {
	User PublicUser `json:"user"`
}

func nameLengthOK(s string) bool {
	n := utf8.RuneCountInString(s)
	return n >= 1 && n <= MaxNameLength
}

func (r *UpdateProfileRequest) Normalize() {
	for _, field := range []*string{r.FirstName, r.LastName, r.Bio, r.Location, r.CurrentRole, r.CurrentCompany} {
		if field != nil {
			*field = strings.TrimSpace(*field)
		}
	}
}
