package util

import (
	"fmt"
	"time"
)

// ValidatePhone checks a phone number: exactly 10 characters, all digits.
func ValidatePhone(phone string) error {
	if len(phone) != 10 {
		return fmt.Errorf("phone number must be 10 digits, got %d", len(phone))
	}
	for _, ch := range phone {
		if ch < '0' || ch > '9' {
			return fmt.Errorf("phone number must contain only digits")
		}
	}
	return nil
}

// ValidateDate checks date format (must be YYYY-MM-DD).
func ValidateDate(dateStr string) error {
	if dateStr == "" {
		return fmt.Errorf("date is empty")
	}
	if _, err := time.Parse("2006-01-02", dateStr); err != nil {
		return fmt.Errorf("invalid date format: %w", err)
	}
	return nil
}

// ValidateUsername checks a username: non-empty, at most 64 characters.
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if len(username) > 64 {
		return fmt.Errorf("username too long, max 64 characters")
	}
	return nil
}
