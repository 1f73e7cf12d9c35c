package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/lexvault/docsign/internal/docsign/domain"
	"github.com/lexvault/docsign/internal/docsign/store"
	"github.com/lexvault/docsign/internal/docsign/store/drivers/sqlite"
	"github.com/lexvault/docsign/pkg/cryptox"
	"github.com/lexvault/docsign/pkg/idx"
	"github.com/lexvault/docsign/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *sqlite.Store {
	t.Helper()

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })

	require.NoError(t, st.ApplyMigrations())
	return st
}

// createUser inserts a user directly, bypassing the registration flow.
// telegramID may be empty for an unlinked account.
func createUser(t *testing.T, st store.Store, email, password, telegramID string) domain.User {
	t.Helper()

	hash, err := cryptox.HashPassword(password)
	require.NoError(t, err)

	u := domain.User{
		ID:           idx.New().String(),
		Email:        email,
		Phone:        "+1" + idx.New().String()[16:], // random ULID tail keeps phones unique
		Name:         "Test User",
		PasswordHash: hash,
	}
	if telegramID != "" {
		u.TelegramID = &telegramID
	}
	require.NoError(t, st.Users().CreateUser(context.Background(), u))
	return u
}

func newTokenService(t *testing.T) *TokenService {
	t.Helper()

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "docsign-test")
	require.NoError(t, err)

	return &TokenService{Signer: signer, Issuer: "docsign-test", AccessTTL: time.Minute}
}

// notifierStub records delivered confirmation requests.
type notifierStub struct {
	mu    sync.Mutex
	err   error
	calls []notifiedLogin
}

type notifiedLogin struct {
	TelegramID string
	Token      string
}

func (n *notifierStub) NotifyLoginAttempt(_ context.Context, telegramID, token string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.err != nil {
		return n.err
	}
	n.calls = append(n.calls, notifiedLogin{TelegramID: telegramID, Token: token})
	return nil
}

func (n *notifierStub) last(t *testing.T) notifiedLogin {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.calls)
	return n.calls[len(n.calls)-1]
}
