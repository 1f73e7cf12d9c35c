package service

import (
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/pkg/jwtx"
)

// TokenService mints signed bearer credentials for authenticated users.
type TokenService struct {
	Signer    jwtx.Signer
	Issuer    string
	AccessTTL time.Duration
}

// Mint issues a credential scoped to the user: subject is the email, uid the
// internal id, plus the elevated-privilege claim when applicable.
func (s *TokenService) Mint(u domain.User) (string, error) {
	ttl := s.AccessTTL
	if ttl <= 0 {
		ttl = jwtx.DefaultAccessTokenTTL
	}

	claims := jwtx.NewAccessClaims(
		u.Email, u.ID, u.Admin,
		ttl, s.Issuer, time.Now().UTC(),
	)
	return s.Signer.Sign(claims)
}
