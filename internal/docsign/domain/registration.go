package domain

import "time"

// RegistrationCodeTTL is the validity window of a registration code.
const RegistrationCodeTTL = 15 * time.Minute

// RegistrationCode is the ephemeral one-time code that binds a pending
// registration to a Telegram identity. At most one active code exists per
// email; issuing a new one removes its predecessors.
type RegistrationCode struct {
	ID        string
	Email     string
	Code      string // 6 digits; cleared on consumption
	Used      bool
	ExpiresAt time.Time
	CreatedAt time.Time
}
