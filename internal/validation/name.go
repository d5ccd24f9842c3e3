package validation

import (
	"errors"
	"regexp"
	"strings"
)

var userIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateName validates a display name
func ValidateName(name string) error {
	trimmed := strings.TrimSpace(name)

	if trimmed == "" {
		return errors.New("name is required")
	}

	if len(trimmed) > 100 {
		return errors.New("name is too long (max 100 characters)")
	}

	return nil
}

// ValidateUserID validates the login identifier chosen at signup
func ValidateUserID(id string) error {
	if id == "" {
		return errors.New("user ID is required")
	}

	if len(id) < 3 || len(id) > 32 {
		return errors.New("user ID must be between 3 and 32 characters")
	}

	if !userIDPattern.MatchString(id) {
		return errors.New("user ID may only contain letters, digits, dots, dashes and underscores")
	}

	return nil
}

// ValidateSecurityKey validates the recovery key used to reset a password.
// It is hashed with bcrypt, so the same 72 byte ceiling applies.
func ValidateSecurityKey(key string) error {
	trimmed := strings.TrimSpace(key)

	if len(trimmed) < 6 {
		return errors.New("security key must be at least 6 characters")
	}

	if len(key) > 72 {
		return errors.New("security key must not exceed 72 characters")
	}

	return nil
}
