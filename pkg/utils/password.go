package utils

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes plaintext with bcrypt. The salt is embedded in the
// digest, so two hashes of the same password differ.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashBytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashBytes), nil
}

// CheckPasswordHash compares plaintext against a bcrypt digest.
// bcrypt's comparison is constant-time.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
