package services

import (
	"errors"
	"fmt"
	"net/mail"
	"strings"
	"unicode"
)

// MinPasswordLength applies to database accounts created with create-user
const MinPasswordLength = 12

// NewAccount is the input for creating a dashboard login
type NewAccount struct {
	Name     string
	Email    string
	Password string
}

// ValidateAccount checks a new account and reports every problem at once
func ValidateAccount(acc NewAccount) error {
	var errs []error
	if strings.TrimSpace(acc.Name) == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if _, err := mail.ParseAddress(acc.Email); err != nil || strings.Contains(acc.Email, " ") {
		errs = append(errs, fmt.Errorf("email %q is not a valid address", acc.Email))
	}
	if err := ValidatePassword(acc.Password); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// ValidatePassword requires MinPasswordLength characters with upper and
// lower case letters, a digit and a symbol.
func ValidatePassword(password string) error {
	if len([]rune(password)) < MinPasswordLength {
		return fmt.Errorf("password must be at least %d characters long", MinPasswordLength)
	}

	var hasUpper, hasLower, hasNumber, hasSpecial bool
	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsNumber(char):
			hasNumber = true
		case unicode.IsPunct(char) || unicode.IsSymbol(char):
			hasSpecial = true
		}
	}

	switch {
	case !hasUpper:
		return errors.New("password must contain at least one uppercase letter")
	case !hasLower:
		return errors.New("password must contain at least one lowercase letter")
	case !hasNumber:
		return errors.New("password must contain at least one number")
	case !hasSpecial:
		return errors.New("password must contain at least one special character")
	}
	return nil
}
