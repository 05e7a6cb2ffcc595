package domain

import (
	"net/mail"
	"strings"
	"time"
)

const (
	// MinPasswordLength is the shortest password accepted at registration.
	MinPasswordLength = 8
	// MaxPasswordLength is bcrypt's input limit.
	MaxPasswordLength = 72
)

// User represents a registered account. Every note, card, relation and
// review entry belongs to exactly one user.
type User struct {
	ID             int64     `json:"id"`
	Email          string    `json:"email"`
	Name           string    `json:"name"`
	Password       string    `json:"-"` // plaintext, only set during registration
	HashedPassword string    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewUser builds a user ready for insertion. The email is normalized to lower
// case and an empty name falls back to the local part of the email.
// The caller must hash the password before storing the user.
func NewUser(email, name, password string) (*User, error) {
	email = NormalizeEmail(email)
	name = strings.TrimSpace(name)
	if name == "" {
		name = DefaultNameFromEmail(email)
	}

	now := time.Now().UTC()
	user := &User{
		Email:     email,
		Name:      name,
		Password:  password,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	return user, nil
}

// Validate checks the user's email and, when present, the plaintext password.
func (u *User) Validate() error {
	if u.Email == "" {
		return NewValidationError("email", "email is required", ErrInvalidEmail)
	}
	if addr, err := mail.ParseAddress(u.Email); err != nil || addr.Address != u.Email {
		return NewValidationError("email", "email is not a valid address", ErrInvalidEmail)
	}

	if u.Password != "" {
		if len(u.Password) < MinPasswordLength {
			return NewValidationError("password", "password must be at least 8 characters", ErrInvalidPassword)
		}
		if len(u.Password) > MaxPasswordLength {
			return NewValidationError("password", "password must be at most 72 characters", ErrInvalidPassword)
		}
	} else if u.HashedPassword == "" {
		return NewValidationError("password", "password is required", ErrInvalidPassword)
	}
	return nil
}

// NormalizeEmail trims and lower-cases an email so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// DefaultNameFromEmail returns the part of the address before the '@'.
func DefaultNameFromEmail(email string) string {
	local, _, _ := strings.Cut(email, "@")
	return local
}
