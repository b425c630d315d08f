// Package password wraps the one-way password hashing primitive.
package password

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// ErrMismatch is returned when a cleartext password does not match a hash.
var ErrMismatch = errors.New("password does not match hash")

// ErrEmptyPassword is returned when asked to hash an empty string.
var ErrEmptyPassword = errors.New("empty password")

// Hash generates a salted bcrypt hash for the given password.
func Hash(password string) (string, error) {
	if password == "" {
		return "", ErrEmptyPassword
	}

	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(h), err
}

// Compare validates that the given cleartext password matches the hash.
func Compare(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrMismatch
		}
		return err
	}
	return nil
}
