package domain

import "time"

// LoginSessionTTL is the window within which a login challenge must be
// confirmed and exchanged.
const LoginSessionTTL = 10 * time.Minute

// LoginSession is a pending second-factor login challenge. It is addressable
// only by its opaque token. Once rejected or exchanged the row is deleted, so
// terminal states are never observable.
type LoginSession struct {
	ID           string
	UserID       string
	SessionToken string // 256-bit random, unique
	Confirmed    bool
	CreatedAt    time.Time
	ExpiresAt    time.Time
}
