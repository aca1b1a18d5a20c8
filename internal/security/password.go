// Package security implements the password policy and hashing.
package security

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"github.com/focusflow/focusflow-api/internal/constants"
)

var (
	ErrPasswordMissing     = errors.New("password must not be empty")
	ErrPasswordLength      = errors.New("password must be between 10 and 12 characters long")
	ErrPasswordUppercase   = errors.New("password must contain at least one uppercase letter")
	ErrPasswordLowercase   = errors.New("password must contain at least one lowercase letter")
	ErrPasswordSpecialChar = errors.New("password must contain at least one special character")
)

// specialChars is the accepted special-character set.
const specialChars = "!@#$%^&*()_+-=[]{};':\",./<>?"

// ValidatePassword checks a candidate password against the policy.
// Checks run in a fixed order and the first failure wins.
func ValidatePassword(password string) error {
	if password == "" {
		return ErrPasswordMissing
	}
	// Length counts characters, not bytes.
	if n := utf8.RuneCountInString(password); n < constants.MinPasswordLength || n > constants.MaxPasswordLength {
		return ErrPasswordLength
	}
	if !containsFunc(password, unicode.IsUpper) {
		return ErrPasswordUppercase
	}
	if !containsFunc(password, unicode.IsLower) {
		return ErrPasswordLowercase
	}
	if !strings.ContainsAny(password, specialChars) {
		return ErrPasswordSpecialChar
	}
	return nil
}

// HashPassword returns the bcrypt hash of a password.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// VerifyPassword reports whether the password matches the stored hash.
func VerifyPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func containsFunc(s string, f func(rune) bool) bool {
	for _, r := range s {
		if f(r) {
			return true
		}
	}
	return false
}
