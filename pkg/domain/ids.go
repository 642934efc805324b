package domain

import (
	"fmt"

	"github.com/google/uuid"
)

// UserID identifies a user account. The zero value is the nil UUID.
type UserID uuid.UUID

// NewUserID returns a random user ID.
func NewUserID() UserID {
	return UserID(uuid.New())
}

// ParseUserID parses a UUID string and rejects the nil UUID.
func ParseUserID(s string) (UserID, error) {
	parsed, err := uuid.Parse(s)
	if err != nil {
		return UserID{}, fmt.Errorf("invalid user id %q: %w", s, err)
	}
	if parsed == uuid.Nil {
		return UserID{}, fmt.Errorf("invalid user id: nil uuid")
	}
	return UserID(parsed), nil
}

func (id UserID) String() string {
	return uuid.UUID(id).String()
}

// IsNil returns true if the ID is the nil UUID.
func (id UserID) IsNil() bool {
	return uuid.UUID(id) == uuid.Nil
}

func (id UserID) MarshalText() ([]byte, error) {
	return uuid.UUID(id).MarshalText()
}

func (id *UserID) UnmarshalText(b []byte) error {
	var u uuid.UUID
	if err := u.UnmarshalText(b); err != nil {
		return err
	}
	*id = UserID(u)
	return nil
}
