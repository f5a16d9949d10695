package dto

import (
	"net/mail"
	"strings"
	"unicode"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

const (
	msgInvalidEmail   = "Please provide a valid email address"
	msgWeakPassword   = "Password must be at least 8 characters long and contain at least one uppercase letter, one lowercase letter, one number, and one special character"
	msgInvalidName    = "must be 1-50 characters and contain only letters and spaces"
	msgTokenRequired  = "Reset token is required"
	msgPasswordNeeded = "Password is required"
)

func (in RegisterInput) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: msgInvalidEmail})
	}
	if !strongPassword(in.Password) {
		errs = append(errs, FieldError{Field: "password", Message: msgWeakPassword})
	}
	if !validName(in.FirstName) {
		errs = append(errs, FieldError{Field: "firstName", Message: "First name " + msgInvalidName})
	}
	if !validName(in.LastName) {
		errs = append(errs, FieldError{Field: "lastName", Message: "Last name " + msgInvalidName})
	}
	return errs
}

func (in LoginInput) Validate() []FieldError {
	var errs []FieldError
	if !validEmail(in.Email) {
		errs = append(errs, FieldError{Field: "email", Message: msgInvalidEmail})
	}
	if in.Password == "" {
		errs = append(errs, FieldError{Field: "password", Message: msgPasswordNeeded})
	}
	return errs
}

func (in ForgotPasswordInput) Validate() []FieldError {
	if !validEmail(in.Email) {
		return []FieldError{{Field: "email", Message: msgInvalidEmail}}
	}
	return nil
}

func (in ResetPasswordInput) Validate() []FieldError {
	var errs []FieldError
	if strings.TrimSpace(in.Token) == "" {
		errs = append(errs, FieldError{Field: "token", Message: msgTokenRequired})
	}
	if !strongPassword(in.Password) {
		errs = append(errs, FieldError{Field: "password", Message: msgWeakPassword})
	}
	return errs
}

func validEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// strongPassword enforces the account password policy: at least 8 characters
// with an uppercase letter, a lowercase letter, a digit and a symbol.
func strongPassword(password string) bool {
	if len(password) < 8 {
		return false
	}
	var upper, lower, digit, special bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}
	return upper && lower && digit && special
}

func validName(name string) bool {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 50 {
		return false
	}
	for _, r := range name {
		if !unicode.IsLetter(r) && r != ' ' {
			return false
		}
	}
	return true
}
