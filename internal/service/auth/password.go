package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// PasswordVerifier compares a stored hash with a candidate password.
type PasswordVerifier interface {
	// Compare returns nil when password matches hashedPassword.
	Compare(hashedPassword, password string) error

	// CompareDummy performs a comparison against a throwaway hash.
	CompareDummy(password string)
}

// BcryptVerifier implements PasswordVerifier using bcrypt.
type BcryptVerifier struct {
	cost      int
	dummyOnce sync.Once
	dummyHash []byte
}

// NewBcryptVerifier creates a verifier. cost is used only for the dummy hash
// that CompareDummy checks against; stored hashes carry their own cost.
func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{cost: cost}
}

// Compare implements PasswordVerifier.
func (v *BcryptVerifier) Compare(hashedPassword, password string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
}

// CompareDummy implements PasswordVerifier. Login calls it for unknown emails
// so response timing matches a real password check.
func (v *BcryptVerifier) CompareDummy(password string) {
	v.dummyOnce.Do(func() {
		v.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("synapse-dummy-password"), v.cost)
	})
	_ = bcrypt.CompareHashAndPassword(v.dummyHash, []byte(password))
}
