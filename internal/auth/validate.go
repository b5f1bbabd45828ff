package auth

import (
	"net/mail"
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	minNameLen     = 2
	maxNameLen     = 100
	minPasswordLen = 8
)

// maxPasswordBytes is the longest input bcrypt accepts.
const maxPasswordBytes = 72

type RegisterParams struct {
	Name     string
	Email    string
	Password string
}

func (p *RegisterParams) normalize() {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
}

func (p RegisterParams) validate() error {
	if n := utf8.RuneCountInString(p.Name); n < minNameLen || n > maxNameLen {
		return &ValidationError{Field: "name", Reason: "must be between 2 and 100 characters"}
	}

	if addr, err := mail.ParseAddress(p.Email); err != nil || addr.Address != p.Email {
		return &ValidationError{Field: "email", Reason: "is not a valid address"}
	}

	return validatePassword(p.Password)
}

// validatePassword requires at least 8 characters including an upper-case
// letter, a digit and a symbol.
func validatePassword(pw string) error {
	if utf8.RuneCountInString(pw) < minPasswordLen {
		return &ValidationError{Field: "password", Reason: "must have at least 8 characters"}
	}

	if len(pw) > maxPasswordBytes {
		return &ValidationError{Field: "password", Reason: "must be at most 72 bytes"}
	}

	var upper, digit, special bool

	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			special = true
		}
	}

	switch {
	case !upper:
		return &ValidationError{Field: "password", Reason: "must contain an upper-case letter"}
	case !digit:
		return &ValidationError{Field: "password", Reason: "must contain a digit"}
	case !special:
		return &ValidationError{Field: "password", Reason: "must contain a special character"}
	}

	return nil
}
