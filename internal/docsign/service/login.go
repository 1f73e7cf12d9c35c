package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/pkg/cryptox"
	"github.com/lexvault/docsign/pkg/idx"
	"github.com/lexvault/docsign/pkg/slogx"
)

// Decision is the verdict a user delivers through the out-of-band channel.
type Decision string

const (
	DecisionConfirm Decision = "confirm"
	DecisionReject  Decision = "reject"
)

// Notifier delivers a login confirmation request over the out-of-band
// channel. Implemented by the Telegram client.
type Notifier interface {
	NotifyLoginAttempt(ctx context.Context, telegramID, sessionToken string) error
}

// LoginService runs the two-step login: password check first, then an
// out-of-band confirmation that must arrive before the session token can be
// exchanged for a bearer credential.
type LoginService struct {
	Store    store.Store
	Tokens   *TokenService
	Notifier Notifier

	// SessionTTL overrides the confirmation window; zero means the default.
	SessionTTL time.Duration

	decoyOnce sync.Once
	decoyHash string
}

// decoy returns a hash to verify against when the email is unknown, keeping
// the failure path as expensive as a real mismatch.
func (s *LoginService) decoy() string {
	s.decoyOnce.Do(func() {
		h, err := cryptox.DecoyHash()
		if err != nil {
			// rand failure; an empty hash still fails verification.
			h = ""
		}
		s.decoyHash = h
	})
	return s.decoyHash
}

func (s *LoginService) sessionTTL() time.Duration {
	if s.SessionTTL > 0 {
		return s.SessionTTL
	}
	return domain.LoginSessionTTL
}

// BeginLogin verifies the password and, on success, creates a pending login
// session and pushes a confirmation request to the user's Telegram. The
// returned token is the only handle to the session.
//
// Unknown email and wrong password both come back as ErrInvalidCredentials.
// A correct password without a linked Telegram is ErrTelegramNotLinked; a
// delivery failure is ErrNotifyFailed (the session is left to expire).
func (s *LoginService) BeginLogin(ctx context.Context, email, password string) (string, error) {
	log := slogx.FromContext(ctx)
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			_ = cryptox.VerifyPassword(password, s.decoy())
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if err := cryptox.VerifyPassword(password, user.PasswordHash); err != nil {
		if errors.Is(err, cryptox.ErrPasswordMismatch) {
			log.Info("login password rejected", slog.String("email", email))
			return "", ErrInvalidCredentials
		}
		return "", err
	}

	if !user.TelegramLinked() {
		return "", ErrTelegramNotLinked
	}

	token, err := cryptox.GenerateToken(cryptox.TokenSize256)
	if err != nil {
		return "", err
	}

	now := time.Now().UTC()
	session := domain.LoginSession{
		ID:           idx.New().String(),
		UserID:       user.ID,
		SessionToken: token,
		CreatedAt:    now,
		ExpiresAt:    now.Add(s.sessionTTL()),
	}
	if err := s.Store.LoginSessions().CreateSession(ctx, session); err != nil {
		return "", err
	}

	if err := s.Notifier.NotifyLoginAttempt(ctx, *user.TelegramID, token); err != nil {
		log.Error("login confirmation delivery failed",
			slog.String("email", email), slog.Any("error", err))
		return "", fmt.Errorf("%w: %w", ErrNotifyFailed, err)
	}

	log.Info("login challenge issued", slog.String("email", email))
	return token, nil
}

// Resolve records the user's out-of-band verdict for a pending session.
// Confirm flips the session to confirmed; reject deletes it outright, which
// makes the token behave as if it never existed. Unknown, expired, and
// already-resolved tokens all yield ErrSessionNotFound.
func (s *LoginService) Resolve(ctx context.Context, token string, d Decision) error {
	now := time.Now().UTC()

	var err error
	switch d {
	case DecisionConfirm:
		err = s.Store.LoginSessions().ConfirmSession(ctx, token, now)
	case DecisionReject:
		err = s.Store.LoginSessions().DeleteActiveByToken(ctx, token, now)
	default:
		return fmt.Errorf("unknown decision %q", d)
	}

	if errors.Is(err, store.ErrNotFound) {
		return ErrSessionNotFound
	}
	return err
}

// Exchange trades a confirmed session token for a bearer credential. The
// lookup and the delete happen in one transaction so the token is single
// use even under concurrent exchanges. An unconfirmed session is left
// intact and reported as ErrNotConfirmed.
func (s *LoginService) Exchange(ctx context.Context, token string) (string, error) {
	now := time.Now().UTC()

	var user domain.User
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		session, err := tx.LoginSessions().GetActiveByToken(ctx, token, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrSessionNotFound
			}
			return err
		}

		if !session.Confirmed {
			return ErrNotConfirmed
		}

		user, err = tx.Users().GetUserByID(ctx, session.UserID)
		if err != nil {
			return err
		}

		return tx.LoginSessions().DeleteByID(ctx, session.ID)
	})
	if err != nil {
		return "", err
	}

	credential, err := s.Tokens.Mint(user)
	if err != nil {
		return "", err
	}

	slogx.FromContext(ctx).Info("login exchanged", slog.String("email", user.Email))
	return credential, nil
}

// CheckTelegram mints a credential for the account once its Telegram
// identity is linked; the frontend polls it right after handing the user the
// deep link. ErrUserNotFound when no such account, ErrTelegramNotLinked while
// the code has not been redeemed yet.
func (s *LoginService) CheckTelegram(ctx context.Context, email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.Store.Users().GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrUserNotFound
		}
		return "", err
	}
	if !user.TelegramLinked() {
		return "", ErrTelegramNotLinked
	}
	return s.Tokens.Mint(user)
}
