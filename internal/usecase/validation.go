package usecase

import (
	"fmt"
	"strings"
	"unicode/utf8"

	domainErrors "github.com/polkiloo/habittracker/internal/domain/errors"
	pkgAuth "github.com/polkiloo/habittracker/internal/pkg/auth"
)

const (
	// MaxUsernameLength bounds usernames in characters.
	MaxUsernameLength = 80
	// MaxHabitNameLength bounds habit names in characters.
	MaxHabitNameLength = 100
)

// ValidateUsername trims the username and checks its length.
func ValidateUsername(username string) (string, error) {
	return boundedText("username", username, MaxUsernameLength)
}

// ValidateHabitName trims the habit name and checks its length.
func ValidateHabitName(name string) (string, error) {
	return boundedText("habit name", name, MaxHabitNameLength)
}

// ValidatePassword rejects empty passwords and those bcrypt would truncate.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password is required", domainErrors.ErrInvalidInput)
	}
	if len(password) > pkgAuth.MaxPasswordBytes {
		return fmt.Errorf("%w: password must be at most %d bytes", domainErrors.ErrInvalidInput, pkgAuth.MaxPasswordBytes)
	}
	return nil
}

func boundedText(field, value string, limit int) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return "", fmt.Errorf("%w: %s is required", domainErrors.ErrInvalidInput, field)
	}
	if utf8.RuneCountInString(value) > limit {
		return "", fmt.Errorf("%w: %s must be at most %d characters", domainErrors.ErrInvalidInput, field, limit)
	}
	return value, nil
}
