package telegram

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientSendMessage(t *testing.T) {
	var got struct {
		ChatID      string `json:"chat_id"`
		Text        string `json:"text"`
		ReplyMarkup *struct {
			InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/botTEST-TOKEN/sendMessage", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	client := &Client{Token: "TEST-TOKEN", BaseURL: srv.URL}

	err := client.SendMessage(context.Background(), "12345", "hello", nil)
	require.NoError(t, err)
	require.Equal(t, "12345", got.ChatID)
	require.Equal(t, "hello", got.Text)
	require.Nil(t, got.ReplyMarkup)
}

func TestClientNotifyLoginAttemptCarriesToken(t *testing.T) {
	var markup struct {
		ReplyMarkup struct {
			InlineKeyboard [][]InlineKeyboardButton `json:"inline_keyboard"`
		} `json:"reply_markup"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&markup))
		_, _ = w.Write([]byte(`{"ok":true,"result":{}}`))
	}))
	t.Cleanup(srv.Close)

	client := &Client{Token: "TEST-TOKEN", BaseURL: srv.URL}

	err := client.NotifyLoginAttempt(context.Background(), "555", "session-token")
	require.NoError(t, err)

	require.Len(t, markup.ReplyMarkup.InlineKeyboard, 1)
	row := markup.ReplyMarkup.InlineKeyboard[0]
	require.Len(t, row, 2)
	require.Equal(t, "confirm_session-token", row[0].CallbackData)
	require.Equal(t, "reject_session-token", row[1].CallbackData)
}

func TestClientSurfacesAPIErrors(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"ok":false,"description":"Bad Request: chat not found"}`))
	}))
	t.Cleanup(srv.Close)

	client := &Client{Token: "TEST-TOKEN", BaseURL: srv.URL}

	err := client.SendMessage(context.Background(), "0", "hello", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "chat not found")
}

func TestClientGetUpdates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var payload struct {
			Offset int64 `json:"offset"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
		require.EqualValues(t, 7, payload.Offset)

		_, _ = w.Write([]byte(`{"ok":true,"result":[
			{"update_id":7,"message":{"chat":{"id":555},"text":"/start reg_123456"}},
			{"update_id":8,"callback_query":{"id":"cb1","from":{"id":555},"data":"confirm_tok"}}
		]}`))
	}))
	t.Cleanup(srv.Close)

	client := &Client{Token: "TEST-TOKEN", BaseURL: srv.URL}

	updates, err := client.GetUpdates(context.Background(), 7, 0)
	require.NoError(t, err)
	require.Len(t, updates, 2)

	require.NotNil(t, updates[0].Message)
	require.EqualValues(t, 555, updates[0].Message.Chat.ID)
	require.Equal(t, "/start reg_123456", updates[0].Message.Text)

	require.NotNil(t, updates[1].CallbackQuery)
	require.Equal(t, "confirm_tok", updates[1].CallbackQuery.Data)
}
