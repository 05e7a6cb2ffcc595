// Package auth issues and validates JWT access and refresh tokens, verifies
// bcrypt password hashes and tracks revoked refresh tokens.
package auth
