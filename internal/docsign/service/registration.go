package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/pkg/cryptox"
	"github.com/lexvault/docsign/pkg/idx"
	"github.com/lexvault/docsign/pkg/slogx"
)

const registrationCodeDigits = 6

// RegistrationService creates accounts and runs the registration-link
// protocol that binds a Telegram identity to a freshly registered account.
type RegistrationService struct {
	Store store.Store

	// BotUsername is embedded into the deep link returned to the frontend,
	// e.g. "docsign_bot" -> https://t.me/docsign_bot?start=reg_<code>.
	BotUsername string
}

// Register creates a user plus a one-time registration code, atomically.
// Issuing a new code for an email invalidates any code issued before it.
// Returns ErrUserExists when the email or phone is already taken.
func (s *RegistrationService) Register(ctx context.Context, email, phone, name, password string) (code, deepLink string, err error) {
	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	hash, err := cryptox.HashPassword(password)
	if err != nil {
		return "", "", fmt.Errorf("hash password: %w", err)
	}

	code, err = cryptox.GenerateNumericCode(registrationCodeDigits)
	if err != nil {
		return "", "", err
	}

	now := time.Now().UTC()
	err = s.Store.WithTx(ctx, func(tx store.Tx) error {
		if err := tx.Users().CreateUser(ctx, domain.User{
			ID:           idx.New().String(),
			Email:        email,
			Phone:        phone,
			Name:         name,
			PasswordHash: hash,
			CreatedAt:    now,
		}); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrUserExists
			}
			return err
		}

		if err := tx.RegistrationCodes().DeleteCodesForEmail(ctx, email); err != nil {
			return err
		}

		return tx.RegistrationCodes().CreateCode(ctx, domain.RegistrationCode{
			ID:        idx.New().String(),
			Email:     email,
			Code:      code,
			ExpiresAt: now.Add(domain.RegistrationCodeTTL),
			CreatedAt: now,
		})
	})
	if err != nil {
		return "", "", err
	}

	return code, fmt.Sprintf("https://t.me/%s?start=reg_%s", s.BotUsername, code), nil
}

// LinkTelegram consumes a registration code presented through the bot and
// binds the presenting Telegram identity to the account the code was issued
// for. The binding happens at most once per account and per Telegram
// identity; the storage layer's unique constraint backs the race between two
// concurrent consumptions. Returns the linked account's email.
func (s *RegistrationService) LinkTelegram(ctx context.Context, telegramID, code string) (string, error) {
	log := slogx.FromContext(ctx)
	now := time.Now().UTC()

	var email string
	err := s.Store.WithTx(ctx, func(tx store.Tx) error {
		rec, err := tx.RegistrationCodes().GetActiveByCode(ctx, code, now)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				// Unknown, expired, and used codes are indistinguishable on
				// purpose; the log keeps the detail the caller never sees.
				log.Info("registration code rejected", slog.String("telegram_id", telegramID))
				return ErrInvalidCode
			}
			return err
		}

		if _, err := tx.Users().GetUserByTelegramID(ctx, telegramID); err == nil {
			return ErrTelegramAlreadyLinked
		} else if !errors.Is(err, store.ErrNotFound) {
			return err
		}

		user, err := tx.Users().GetUserByEmail(ctx, rec.Email)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return ErrUserNotFound
			}
			return err
		}

		if err := tx.Users().BindTelegramID(ctx, user.ID, telegramID); err != nil {
			if errors.Is(err, store.ErrAlreadyExists) {
				return ErrTelegramAlreadyLinked
			}
			return err
		}

		if err := tx.RegistrationCodes().ConsumeCode(ctx, rec.ID); err != nil {
			return err
		}

		email = user.Email
		return nil
	})
	if err != nil {
		return "", err
	}

	log.Info("telegram identity linked", slog.String("email", email))
	return email, nil
}
