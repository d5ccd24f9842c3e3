package validation

import (
	"errors"
	"net/mail"
	"strings"
)

var (
	ErrEmailTooLong = errors.New("email address is too long (max 254 characters)")
	ErrEmailInvalid = errors.New("invalid email address")
)

// ValidateEmail accepts a bare notification address. Display names
// ("Asha <asha@example.com>") and single-label domains are rejected because
// the address is stored and sent to as typed.
func ValidateEmail(email string) error {
	if len(email) > 254 {
		return ErrEmailTooLong
	}

	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		return ErrEmailInvalid
	}

	_, domain, _ := strings.Cut(email, "@")
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return ErrEmailInvalid
	}

	return nil
}
