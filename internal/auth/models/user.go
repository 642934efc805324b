package models

import (
	"time"

	id "stellariq/pkg/domain"
)

// User is the stored account record. PasswordHash never leaves the service
// layer; anything API-facing goes through Public.
type User struct {
	ID             id.UserID
	FirstName      string
	LastName       string
	Email          string
	PasswordHash   string `json:"-"`
	IsActive       bool
	Bio            string
	Location       string
	CurrentRole    string
	CurrentCompany string
	LastLoginAt    *time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// PublicUser is the sanitized representation of a User. It has no password
// field, so it cannot leak one.
type PublicUser struct {
	ID             id.UserID  `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	FullName       string     `json:"fullName"`
	Email          string     `json:"email"`
	IsActive       bool       `json:"isActive"`
	Bio            string     `json:"bio,omitempty"`
	Location       string     `json:"location,omitempty"`
	CurrentRole    string     `json:"currentRole,omitempty"`
	CurrentCompany string     `json:"currentCompany,omitempty"`
	LastLoginAt    *time.Time `json:"lastLogin,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
	UpdatedAt      time.Time  `json:"updatedAt"`
}

// Public strips credentials from the record.
func (u *User) Public() PublicUser {
	return PublicUser{
		ID:             u.ID,
		FirstName:      u.FirstName,
		LastName:       u.LastName,
		FullName:       u.FullName(),
		Email:          u.Email,
		IsActive:       u.IsActive,
		Bio:            u.Bio,
		Location:       u.Location,
		CurrentRole:    u.CurrentRole,
		CurrentCompany: u.CurrentCompany,
		LastLoginAt:    u.LastLoginAt,
		CreatedAt:      u.CreatedAt,
		UpdatedAt:      u.UpdatedAt,
	}
}

func (u *User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	default:
		return u.FirstName + " " + u.LastName
	}
}
