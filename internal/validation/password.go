package validation

import (
	"errors"
	"strings"
)

var (
	ErrPasswordTooShort      = errors.New("password must be at least 12 characters")
	ErrPasswordTooLong       = errors.New("password must not exceed 72 bytes")
	ErrPasswordCommon        = errors.New("password is too common, please choose a stronger one")
	ErrPasswordHasUserID     = errors.New("password must not contain your user ID")
	ErrSecurityKeyIsPassword = errors.New("security key must differ from the password")
)

// Passwords and security keys are both bcrypt hashed, which ignores
// everything past 72 bytes.
const bcryptMaxBytes = 72

var weakFragments = []string{
	"password", "123456", "qwerty", "letmein", "welcome",
	"iloveyou", "pathfinder", "career",
}

// ValidatePassword checks length and rejects well-known weak fragments.
func ValidatePassword(password string) error {
	if len(password) < 12 {
		return ErrPasswordTooShort
	}
	if len(password) > bcryptMaxBytes {
		return ErrPasswordTooLong
	}

	lower := strings.ToLower(password)
	for _, fragment := range weakFragments {
		if strings.Contains(lower, fragment) {
			return ErrPasswordCommon
		}
	}

	return nil
}

// ValidatePasswordFor is ValidatePassword plus a check that the password does
// not embed the login identifier.
func ValidatePasswordFor(userID, password string) error {
	err := ValidatePassword(password)
	if err != nil {
		return err
	}

	if userID != "" && strings.Contains(strings.ToLower(password), strings.ToLower(userID)) {
		return ErrPasswordHasUserID
	}

	return nil
}

// ValidateCredentials validates the password and security key chosen
// together. The key resets the password, so the two must differ.
func ValidateCredentials(userID, password, securityKey string) error {
	err := ValidatePasswordFor(userID, password)
	if err != nil {
		return err
	}

	err = ValidateSecurityKey(securityKey)
	if err != nil {
		return err
	}

	if strings.TrimSpace(securityKey) == strings.TrimSpace(password) {
		return ErrSecurityKeyIsPassword
	}

	return nil
}
