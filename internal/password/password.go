// Package password wraps bcrypt hashing. The salt lives inside the hash,
// so two hashes of the same plaintext differ, and comparison runs in
// constant time within bcrypt itself.
package password

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

func Hash(plaintext string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(plaintext), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func Verify(plaintext, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext)) == nil
}
