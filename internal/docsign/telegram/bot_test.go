package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/lexvault/docsign/internal/docsign/service"
	"github.com/lexvault/docsign/internal/docsign/store/drivers/sqlite"
	"github.com/lexvault/docsign/pkg/jwtx"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI scripts getUpdates responses and records everything else.
type fakeBotAPI struct {
	mu      sync.Mutex
	updates [][]Update
	sent    []string // sendMessage texts
	answers []string // answerCallbackQuery texts
}

func (f *fakeBotAPI) handler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()

		switch {
		case r.URL.Path == "/botTEST/getUpdates":
			batch := []Update{}
			if len(f.updates) > 0 {
				batch, f.updates = f.updates[0], f.updates[1:]
			}
			payload, err := json.Marshal(batch)
			require.NoError(t, err)
			fmt.Fprintf(w, `{"ok":true,"result":%s}`, payload)

		case r.URL.Path == "/botTEST/sendMessage":
			var body struct {
				Text string `json:"text"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.sent = append(f.sent, body.Text)
			fmt.Fprint(w, `{"ok":true,"result":{}}`)

		case r.URL.Path == "/botTEST/answerCallbackQuery":
			var body struct {
				Text string `json:"text"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			f.answers = append(f.answers, body.Text)
			fmt.Fprint(w, `{"ok":true,"result":true}`)

		default:
			t.Errorf("unexpected telegram call %s", r.URL.Path)
		}
	})
}

func (f *fakeBotAPI) lastAnswer() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.answers) == 0 {
		return ""
	}
	return f.answers[len(f.answers)-1]
}

func newBotFixture(t *testing.T, fake *fakeBotAPI) (*Bot, *sqlite.Store, *service.LoginService, *service.RegistrationService) {
	t.Helper()

	srv := httptest.NewServer(fake.handler(t))
	t.Cleanup(srv.Close)

	st, err := sqlite.NewStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = st.Close() })
	require.NoError(t, st.ApplyMigrations())

	signer, err := jwtx.NewHS256([]byte("0123456789abcdef0123456789abcdef"), "docsign-test")
	require.NoError(t, err)

	client := &Client{Token: "TEST", BaseURL: srv.URL}
	registration := &service.RegistrationService{Store: st, BotUsername: "docsign_bot"}
	logins := &service.LoginService{
		Store:    st,
		Tokens:   &service.TokenService{Signer: signer, Issuer: "docsign-test"},
		Notifier: client,
	}

	bot := NewBot(client, registration, logins, slog.Default())
	bot.PollTimeout = 10 * time.Millisecond
	return bot, st, logins, registration
}

func TestBotLinksRegistrationCode(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBotAPI{}
	bot, st, _, registration := newBotFixture(t, fake)

	code, _, err := registration.Register(ctx, "alice@example.com", "+15551000", "Alice", "pass")
	require.NoError(t, err)

	fake.mu.Lock()
	fake.updates = [][]Update{{
		{ID: 1, Message: &Message{Chat: Chat{ID: 555}, Text: "/start reg_" + code}},
	}}
	fake.mu.Unlock()

	bot.Start()
	defer bot.Stop()

	require.Eventually(t, func() bool {
		_, err := st.Users().GetUserByTelegramID(ctx, "555")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)
}

func TestBotResolvesLoginCallbacks(t *testing.T) {
	ctx := context.Background()
	fake := &fakeBotAPI{}
	bot, _, logins, registration := newBotFixture(t, fake)

	code, _, err := registration.Register(ctx, "bob@example.com", "+15551001", "Bob", "pass")
	require.NoError(t, err)
	_, err = registration.LinkTelegram(ctx, "777", code)
	require.NoError(t, err)

	token, err := logins.BeginLogin(ctx, "bob@example.com", "pass")
	require.NoError(t, err)

	fake.mu.Lock()
	fake.updates = [][]Update{{
		{ID: 1, CallbackQuery: &CallbackQuery{ID: "cb1", From: Chat{ID: 777}, Data: "confirm_" + token}},
	}}
	fake.mu.Unlock()

	bot.Start()
	defer bot.Stop()

	require.Eventually(t, func() bool {
		_, err := logins.Exchange(ctx, token)
		return err == nil
	}, 2*time.Second, 20*time.Millisecond)

	require.Equal(t, "Login confirmed.", fake.lastAnswer())
}

func TestBotRejectsGarbageMessages(t *testing.T) {
	fake := &fakeBotAPI{}
	bot, _, _, _ := newBotFixture(t, fake)

	fake.mu.Lock()
	fake.updates = [][]Update{{
		{ID: 1, Message: &Message{Chat: Chat{ID: 900}, Text: "hello there"}},
		{ID: 2, Message: &Message{Chat: Chat{ID: 900}, Text: "/start reg_000000"}},
	}}
	fake.mu.Unlock()

	bot.Start()
	defer bot.Stop()

	require.Eventually(t, func() bool {
		fake.mu.Lock()
		defer fake.mu.Unlock()
		return len(fake.sent) >= 2
	}, 2*time.Second, 10*time.Millisecond)

	fake.mu.Lock()
	defer fake.mu.Unlock()
	require.Contains(t, fake.sent[0], "registration link")
	require.Contains(t, fake.sent[1], "invalid or has expired")
}
