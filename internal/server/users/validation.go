package users

import (
	"strings"
	"unicode/utf8"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

const (
	usernameMinLen = 3
	usernameMaxLen = 30

	passwordMinLen  = 6
	passwordSymbols = "@$!%*?&"

	msgUsernameLength = "Username must be between 3 to 30 characters"
	msgInvalidEmail   = "Invalid email format"

	msgPasswordPolicy    = "Password must be at least 6 characters long, contain one uppercase letter, one number, and one special character"
	msgNewPasswordPolicy = "New password must be at least 6 characters long, contain one uppercase letter, one number, and one special character"

	msgEmailRequired    = "Email is required"
	msgPasswordRequired = "Password is required"
	msgBothPasswords    = "Both old and new passwords are required"
)

// ValidationError carries the user-facing message for a rejected input.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validateUsername(username string) error {
	n := utf8.RuneCountInString(username)
	if n < usernameMinLen || n > usernameMaxLen {
		return &ValidationError{Message: msgUsernameLength}
	}
	return nil
}

func validateEmail(email string) error {
	if err := validation.Validate(email, validation.Required, is.Email); err != nil {
		return &ValidationError{Message: msgInvalidEmail}
	}
	return nil
}

// passwordMeetsPolicy checks length and composition: at least one uppercase
// letter, one digit and one symbol from the allowed set, with every character
// drawn from the policy alphabet.
func passwordMeetsPolicy(pw string) bool {
	if len(pw) < passwordMinLen {
		return false
	}

	var hasUpper, hasDigit, hasSymbol bool
	for _, r := range pw {
		switch {
		case r >= 'A' && r <= 'Z':
			hasUpper = true
		case r >= 'a' && r <= 'z':
		case r >= '0' && r <= '9':
			hasDigit = true
		case strings.ContainsRune(passwordSymbols, r):
			hasSymbol = true
		default:
			return false
		}
	}

	return hasUpper && hasDigit && hasSymbol
}
