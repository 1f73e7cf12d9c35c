package jwtx

import (
	"crypto/rand"
	"encoding/base64"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// DefaultAccessTokenTTL is the default lifetime for access tokens. The
// original deployment shipped six-hour tokens; keep that as the baseline.
const DefaultAccessTokenTTL = 6 * time.Hour

// Claims are the access-token claims used across the service. Additive
// changes only, to preserve compatibility with already-issued tokens.
type Claims struct {
	jwt.RegisteredClaims

	// UID is the internal user identifier (ULID). The subject claim carries
	// the email address, matching what API consumers already expect.
	UID string `json:"uid,omitempty"`

	// Admin marks tokens with elevated privileges, e.g. department
	// management endpoints.
	Admin bool `json:"admin,omitempty"`
}

// NewAccessClaims builds minimally-correct claims for a user credential.
func NewAccessClaims(subject, uid string, admin bool, ttl time.Duration, issuer string, now time.Time) Claims {
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        NewJTI(),
		},
		UID:   uid,
		Admin: admin,
	}
}

// NewJTI returns a URL-safe random identifier for the "jti" claim.
func NewJTI() string {
	var b [20]byte
	_, _ = rand.Read(b[:])
	return base64.RawURLEncoding.EncodeToString(b[:])
}

// ValidateIssuer checks the issuer against the expected value. An empty
// expectation enforces nothing.
func (c *Claims) ValidateIssuer(expected string) error {
	if expected == "" {
		return nil
	}
	if c.Issuer != expected {
		return ErrIssuer
	}
	return nil
}

// ValidateExpiry ensures the token has not expired (exp) and is not used
// before it becomes valid (nbf).
func (c *Claims) ValidateExpiry() error {
	now := time.Now().UTC()

	if c.ExpiresAt != nil && now.After(c.ExpiresAt.Time) {
		return ErrExpired
	}
	if c.NotBefore != nil && now.Before(c.NotBefore.Time) {
		return ErrNotYetValid
	}
	return nil
}
