package domain

import "time"

// User is a registered account. TelegramID is the out-of-band channel
// identity used for second-factor login confirmation; it is nil until the
// registration code is redeemed through the bot and is never rebound.
type User struct {
	ID           string
	Email        string
	Phone        string
	Name         string
	PasswordHash string  // argon2id encoded
	TelegramID   *string // nullable, unique across users when set
	Admin        bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// TelegramLinked reports whether the account has a bound Telegram identity.
func (u User) TelegramLinked() bool {
	return u.TelegramID != nil && *u.TelegramID != ""
}
