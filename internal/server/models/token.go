package models

import "time"

// AccessTokenName is stored on every token issued by register and login.
const AccessTokenName = "auth-token"

// AccessToken is the server-side record of an issued bearer token. Only a
// SHA-256 digest of the plaintext is kept.
type AccessToken struct {
	ID         string
	UserID     string
	Name       string
	TokenHash  string
	Abilities  []string
	ExpiresAt  time.Time
	LastUsedAt *time.Time
	CreatedAt  time.Time
}

// Expired reports whether the token is no longer usable at now.
func (t *AccessToken) Expired(now time.Time) bool {
	return !now.Before(t.ExpiresAt)
}
