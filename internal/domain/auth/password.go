package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares plaintext credentials against stored hashes.
type PasswordVerifier interface {
	Verify(hashed, plain string) bool
}

// BcryptVerifier is the production verifier.
type BcryptVerifier struct{}

func (BcryptVerifier) Verify(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

// HashPassword hashes a plaintext password for account seeding and
// administrative resets.
func HashPassword(plain string, cost int) (string, error) {
	if cost <= 0 {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
