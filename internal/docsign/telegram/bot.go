package telegram

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/lexvault/docsign/internal/docsign/service"
)

const defaultPollTimeout = 30 * time.Second

// Bot is the long-poll worker behind the out-of-band flows: registration
// codes arrive as "/start reg_<code>" messages, login verdicts as
// confirm_/reject_ callback buttons.
type Bot struct {
	Client       *Client
	Registration *service.RegistrationService
	Logins       *service.LoginService
	Logger       *slog.Logger

	// PollTimeout is the getUpdates long-poll window; zero means 30s.
	PollTimeout time.Duration

	stopCh chan struct{}
	doneCh chan struct{}
	offset int64
}

// NewBot wires the worker. Start launches it; Stop blocks until the current
// poll finishes.
func NewBot(client *Client, registration *service.RegistrationService, logins *service.LoginService, logger *slog.Logger) *Bot {
	return &Bot{
		Client:       client,
		Registration: registration,
		Logins:       logins,
		Logger:       logger,
		stopCh:       make(chan struct{}),
		doneCh:       make(chan struct{}),
	}
}

func (b *Bot) Start() {
	go b.run()
	b.Logger.Info("telegram bot started")
}

func (b *Bot) Stop() {
	close(b.stopCh)
	<-b.doneCh
	b.Logger.Info("telegram bot stopped")
}

func (b *Bot) pollTimeout() time.Duration {
	if b.PollTimeout > 0 {
		return b.PollTimeout
	}
	return defaultPollTimeout
}

func (b *Bot) run() {
	defer close(b.doneCh)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() {
		<-b.stopCh
		cancel()
	}()

	for {
		select {
		case <-b.stopCh:
			return
		default:
		}

		updates, err := b.Client.GetUpdates(ctx, b.offset, b.pollTimeout())
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			b.Logger.Error("telegram poll failed", "error", err)
			// Back off so a broken endpoint does not spin the loop.
			select {
			case <-time.After(5 * time.Second):
			case <-b.stopCh:
				return
			}
			continue
		}

		for _, u := range updates {
			b.offset = u.ID + 1
			b.handleUpdate(ctx, u)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, u Update) {
	switch {
	case u.Message != nil:
		b.handleMessage(ctx, *u.Message)
	case u.CallbackQuery != nil:
		b.handleCallback(ctx, *u.CallbackQuery)
	}
}

// handleMessage processes "/start reg_<code>" deep-link messages. Anything
// else gets a short usage hint.
func (b *Bot) handleMessage(ctx context.Context, m Message) {
	chatID := strconv.FormatInt(m.Chat.ID, 10)

	code, ok := strings.CutPrefix(strings.TrimSpace(m.Text), "/start reg_")
	if !ok {
		b.reply(ctx, chatID, "Open the registration link from the app to connect your account.")
		return
	}

	email, err := b.Registration.LinkTelegram(ctx, chatID, code)
	switch {
	case err == nil:
		b.reply(ctx, chatID, "Your Telegram is now linked to "+email+". You can return to the app.")
	case errors.Is(err, service.ErrInvalidCode):
		b.reply(ctx, chatID, "That registration link is invalid or has expired. Request a new one in the app.")
	case errors.Is(err, service.ErrTelegramAlreadyLinked):
		b.reply(ctx, chatID, "This Telegram account is already linked.")
	default:
		b.Logger.Error("registration link failed", "error", err)
		b.reply(ctx, chatID, "Something went wrong. Please try again.")
	}
}

// handleCallback processes confirm_<token> / reject_<token> button taps from
// login prompts.
func (b *Bot) handleCallback(ctx context.Context, q CallbackQuery) {
	var decision service.Decision
	var token string
	if rest, ok := strings.CutPrefix(q.Data, "confirm_"); ok {
		decision, token = service.DecisionConfirm, rest
	} else if rest, ok := strings.CutPrefix(q.Data, "reject_"); ok {
		decision, token = service.DecisionReject, rest
	} else {
		b.answer(ctx, q.ID, "Unknown action.")
		return
	}

	err := b.Logins.Resolve(ctx, token, decision)
	switch {
	case err == nil && decision == service.DecisionConfirm:
		b.answer(ctx, q.ID, "Login confirmed.")
	case err == nil:
		b.answer(ctx, q.ID, "Login rejected.")
	case errors.Is(err, service.ErrSessionNotFound):
		b.answer(ctx, q.ID, "This login request has expired.")
	default:
		b.Logger.Error("login resolve failed", "error", err)
		b.answer(ctx, q.ID, "Something went wrong. Please try again.")
	}
}

func (b *Bot) reply(ctx context.Context, chatID, text string) {
	if err := b.Client.SendMessage(ctx, chatID, text, nil); err != nil {
		b.Logger.Error("telegram reply failed", "error", err)
	}
}

func (b *Bot) answer(ctx context.Context, callbackID, text string) {
	if err := b.Client.AnswerCallbackQuery(ctx, callbackID, text); err != nil {
		b.Logger.Error("telegram callback answer failed", "error", err)
	}
}
