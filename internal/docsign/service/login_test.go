package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBeginLoginHappyPath(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	notifier := &notifierStub{}
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: notifier}

	createUser(t, st, "alice@example.com", "correct-horse", "555100")

	token, err := svc.BeginLogin(ctx, "alice@example.com", "correct-horse")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	delivered := notifier.last(t)
	require.Equal(t, "555100", delivered.TelegramID)
	require.Equal(t, token, delivered.Token)
}

func TestBeginLoginRejectsBadCredentials(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "bob@example.com", "right-password", "555101")

	// Unknown email and wrong password are the same error.
	_, err := svc.BeginLogin(ctx, "nobody@example.com", "whatever")
	require.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.BeginLogin(ctx, "bob@example.com", "wrong-password")
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestBeginLoginRequiresLinkedTelegram(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "carol@example.com", "pass", "")

	_, err := svc.BeginLogin(ctx, "carol@example.com", "pass")
	require.ErrorIs(t, err, ErrTelegramNotLinked)
}

func TestBeginLoginSurfacesDeliveryFailure(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	notifier := &notifierStub{err: errors.New("telegram unreachable")}
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: notifier}

	createUser(t, st, "dave@example.com", "pass", "555102")

	_, err := svc.BeginLogin(ctx, "dave@example.com", "pass")
	require.ErrorIs(t, err, ErrNotifyFailed)
}

func TestExchangeRequiresConfirmation(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "erin@example.com", "pass", "555103")

	token, err := svc.BeginLogin(ctx, "erin@example.com", "pass")
	require.NoError(t, err)

	// Exchange before the out-of-band confirmation leaves the session alive.
	_, err = svc.Exchange(ctx, token)
	require.ErrorIs(t, err, ErrNotConfirmed)

	require.NoError(t, svc.Resolve(ctx, token, DecisionConfirm))

	credential, err := svc.Exchange(ctx, token)
	require.NoError(t, err)
	require.NotEmpty(t, credential)
}

func TestExchangeIsSingleUse(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "frank@example.com", "pass", "555104")

	token, err := svc.BeginLogin(ctx, "frank@example.com", "pass")
	require.NoError(t, err)
	require.NoError(t, svc.Resolve(ctx, token, DecisionConfirm))

	_, err = svc.Exchange(ctx, token)
	require.NoError(t, err)

	_, err = svc.Exchange(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestRejectDeletesSession(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "gina@example.com", "pass", "555105")

	token, err := svc.BeginLogin(ctx, "gina@example.com", "pass")
	require.NoError(t, err)
	require.NoError(t, svc.Resolve(ctx, token, DecisionReject))

	// A rejected token is indistinguishable from one that never existed.
	_, err = svc.Exchange(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)

	require.ErrorIs(t, svc.Resolve(ctx, token, DecisionConfirm), ErrSessionNotFound)
}

func TestResolveUnknownToken(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	require.ErrorIs(t, svc.Resolve(ctx, "no-such-token", DecisionConfirm), ErrSessionNotFound)
	require.ErrorIs(t, svc.Resolve(ctx, "no-such-token", DecisionReject), ErrSessionNotFound)

	err := svc.Resolve(ctx, "token", Decision("maybe"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionExpiry(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{
		Store:      st,
		Tokens:     newTokenService(t),
		Notifier:   &notifierStub{},
		SessionTTL: time.Nanosecond,
	}

	createUser(t, st, "hank@example.com", "pass", "555106")

	token, err := svc.BeginLogin(ctx, "hank@example.com", "pass")
	require.NoError(t, err)

	time.Sleep(2 * time.Millisecond)

	require.ErrorIs(t, svc.Resolve(ctx, token, DecisionConfirm), ErrSessionNotFound)
	_, err = svc.Exchange(ctx, token)
	require.ErrorIs(t, err, ErrSessionNotFound)
}

func TestCheckTelegram(t *testing.T) {
	ctx := context.Background()
	st := newTestStore(t)
	svc := &LoginService{Store: st, Tokens: newTokenService(t), Notifier: &notifierStub{}}

	createUser(t, st, "linked@example.com", "pass", "555107")
	createUser(t, st, "unlinked@example.com", "pass", "")

	credential, err := svc.CheckTelegram(ctx, "linked@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, credential)

	_, err = svc.CheckTelegram(ctx, "unlinked@example.com")
	require.ErrorIs(t, err, ErrTelegramNotLinked)

	_, err = svc.CheckTelegram(ctx, "missing@example.com")
	require.ErrorIs(t, err, ErrUserNotFound)
}
