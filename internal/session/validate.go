package session

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Credential limits enforced before any remote call.
const (
	MinUsernameLength = 3
	MaxUsernameLength = 20
	MinPasswordLength = 6
)

// ValidationError is an inline credential-form error. It blocks submission.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateUsername checks presence and length.
func ValidateUsername(username string) error {
	username = strings.TrimSpace(username)
	n := utf8.RuneCountInString(username)
	switch {
	case n == 0:
		return &ValidationError{Field: "username", Message: "required"}
	case n < MinUsernameLength:
		return &ValidationError{Field: "username", Message: fmt.Sprintf("must be at least %d characters", MinUsernameLength)}
	case n > MaxUsernameLength:
		return &ValidationError{Field: "username", Message: fmt.Sprintf("must be at most %d characters", MaxUsernameLength)}
	}
	return nil
}

// ValidatePassword checks presence and length.
func ValidatePassword(password string) error {
	n := utf8.RuneCountInString(password)
	switch {
	case n == 0:
		return &ValidationError{Field: "password", Message: "required"}
	case n < MinPasswordLength:
		return &ValidationError{Field: "password", Message: fmt.Sprintf("must be at least %d characters", MinPasswordLength)}
	}
	return nil
}

// ValidateCredentials runs both checks, username first.
func ValidateCredentials(username, password string) error {
	if err := ValidateUsername(username); err != nil {
		return err
	}
	return ValidatePassword(password)
}
