package email

import (
	"strconv"
	"strings"

	"github.com/asaskevich/govalidator"
)

// MaxLength bounds stored addresses.
const MaxLength = 255

// Normalize trims and lowercases an address so lookups are case-insensitive.
func Normalize(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// IsValid reports whether email is a syntactically valid address within MaxLength.
func IsValid(email string) bool {
	return govalidator.StringLength(email, "3", strconv.Itoa(MaxLength)) && govalidator.IsEmail(email)
}
