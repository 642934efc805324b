package models

import (
	"unicode/utf8"

	dErrors "stellariq/pkg/domain-errors"
	"stellariq/pkg/email"
)

// Validate checks a normalized registration request.
func (r *RegisterRequest) Validate() error {
	if r.FirstName == "" || r.LastName == "" || r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "Please provide firstName, lastName, email and password")
	}
	if !nameLengthOK(r.FirstName) || !nameLengthOK(r.LastName) {
		return dErrors.New(dErrors.CodeInvalidInput, "Names cannot exceed 50 characters")
	}
	if !email.IsValid(r.Email) {
		return dErrors.New(dErrors.CodeInvalidInput, "Please provide a valid email")
	}
	return ValidatePassword(r.Password)
}

func (r *LoginRequest) Validate() error {
	if r.Email == "" || r.Password == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "Please provide email and password")
	}
	return nil
}

func (r *ChangePasswordRequest) Validate() error {
	if r.CurrentPassword == "" || r.NewPassword == "" {
		return dErrors.New(dErrors.CodeInvalidInput, "Please provide currentPassword and newPassword")
	}
	return ValidatePassword(r.NewPassword)
}

func (r *UpdateProfileRequest) Validate() error {
	for _, name := range []*string{r.FirstName, r.LastName} {
		if name != nil && !nameLengthOK(*name) {
			return dErrors.New(dErrors.CodeInvalidInput, "Names must be between 1 and 50 characters")
		}
	}
	if r.Bio != nil && utf8.RuneCountInString(*r.Bio) > MaxBioLength {
		return dErrors.New(dErrors.CodeInvalidInput, "Bio cannot exceed 500 characters")
	}
	for _, field := range []*string{r.Location, r.CurrentRole, r.CurrentCompany} {
		if field != nil && utf8.RuneCountInString(*field) > MaxFieldLength {
			return dErrors.New(dErrors.CodeInvalidInput, "Profile fields cannot exceed 100 characters")
		}
	}
	return nil
}

// ValidatePassword enforces the length bounds for a new password.
func ValidatePassword(password string) error {
	if len(password) < MinPasswordLength {
		return dErrors.New(dErrors.CodeInvalidInput, "Password must be at least 6 characters")
	}
	if len(password) > MaxPasswordLength {
		return dErrors.New(dErrors.CodeInvalidInput, "Password cannot exceed 72 bytes")
	}
	return nil
}
