package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// PasswordCost matches the cost the account store has always used.
const PasswordCost = 10

const MinPasswordLength = 6

var ErrPasswordTooShort = errors.New("password too short")

func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}
	b, err := bcrypt.GenerateFromPassword([]byte(password), PasswordCost)
	return string(b), err
}

// CheckPassword returns nil on a match.
func CheckPassword(hash, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
}
