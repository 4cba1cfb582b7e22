package validator

import (
	"errors"
	"regexp"
	"strings"
	"time"
)

var (
	// ErrEmptyEmail indicates the email address is missing
	ErrEmptyEmail = errors.New("email address cannot be empty")

	// ErrInvalidEmail indicates the email address is malformed
	ErrInvalidEmail = errors.New("email address is not valid")

	// ErrEmptyPhone indicates the phone number is missing
	ErrEmptyPhone = errors.New("phone number cannot be empty")

	// ErrInvalidPhone indicates the phone number contains invalid characters
	ErrInvalidPhone = errors.New("phone number can only contain digits, spaces, +, - and parentheses")

	// ErrDateOrder indicates an end date before its start date
	ErrDateOrder = errors.New("end date must not be before start date")
)

// emailRegex matches "something@something.something" without whitespace
var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// phoneRegex allows digits and the usual separators
var phoneRegex = regexp.MustCompile(`^[0-9+\-\s()]*$`)

// ContactValidator checks the contact fields of the lead forms
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// ValidateEmail checks presence and shape of an email address.
// Returns the trimmed address.
func (v *ContactValidator) ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", ErrEmptyEmail
	}
	if !emailRegex.MatchString(email) {
		return "", ErrInvalidEmail
	}
	return email, nil
}

// ValidatePhone checks presence and allowed characters of a phone number.
// Returns the trimmed number.
func (v *ContactValidator) ValidatePhone(phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", ErrEmptyPhone
	}
	if !phoneRegex.MatchString(phone) {
		return "", ErrInvalidPhone
	}
	return phone, nil
}

// IsValidPhone is a convenience method that returns true if phone is valid
func (v *ContactValidator) IsValidPhone(phone string) bool {
	_, err := v.ValidatePhone(phone)
	return err == nil
}

// Sanitize keeps only digits and a leading + for wa.me style links
func (v *ContactValidator) Sanitize(phone string) string {
	var b strings.Builder
	for i, r := range strings.TrimSpace(phone) {
		if (r >= '0' && r <= '9') || (r == '+' && i == 0) {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ValidateDateRange rejects an end date before the start date.
// Zero dates are not checked here; required-field checks happen elsewhere.
func (v *ContactValidator) ValidateDateRange(start, end time.Time) error {
	if start.IsZero() || end.IsZero() {
		return nil
	}
	if end.Before(start) {
		return ErrDateOrder
	}
	return nil
}
