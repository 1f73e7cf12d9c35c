package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// DefaultBaseURL is the production Bot API endpoint. Tests point BaseURL at
// an httptest server instead.
const DefaultBaseURL = "https://api.telegram.org"

// Client is a minimal Telegram Bot API client covering the three methods the
// service needs: sendMessage, getUpdates, and answerCallbackQuery.
type Client struct {
	Token      string
	BaseURL    string       // empty means DefaultBaseURL
	HTTPClient *http.Client // nil means a client with a sane timeout
}

// Update is one item from getUpdates. Exactly one of Message or
// CallbackQuery is set.
type Update struct {
	ID            int64          `json:"update_id"`
	Message       *Message       `json:"message,omitempty"`
	CallbackQuery *CallbackQuery `json:"callback_query,omitempty"`
}

type Message struct {
	Chat Chat   `json:"chat"`
	Text string `json:"text"`
}

type Chat struct {
	ID int64 `json:"id"`
}

type CallbackQuery struct {
	ID   string `json:"id"`
	From Chat   `json:"from"`
	Data string `json:"data"`
}

// InlineKeyboardButton carries callback data back through the user's tap.
type InlineKeyboardButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data"`
}

type apiResponse struct {
	OK          bool            `json:"ok"`
	Result      json.RawMessage `json:"result"`
	Description string          `json:"description"`
}

func (c *Client) httpClient() *http.Client {
	if c.HTTPClient != nil {
		return c.HTTPClient
	}
	// Long polls hold the connection open for PollTimeout; leave headroom.
	return &http.Client{Timeout: 90 * time.Second}
}

func (c *Client) methodURL(method string) string {
	base := c.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	return fmt.Sprintf("%s/bot%s/%s", base, c.Token, method)
}

func (c *Client) call(ctx context.Context, method string, payload, result any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("telegram: encode %s: %w", method, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.methodURL(method), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient().Do(req)
	if err != nil {
		return fmt.Errorf("telegram: %s: %w", method, err)
	}
	defer resp.Body.Close()

	var api apiResponse
	if err := json.NewDecoder(resp.Body).Decode(&api); err != nil {
		return fmt.Errorf("telegram: decode %s response: %w", method, err)
	}
	if !api.OK {
		return fmt.Errorf("telegram: %s failed: %s", method, api.Description)
	}
	if result != nil {
		if err := json.Unmarshal(api.Result, result); err != nil {
			return fmt.Errorf("telegram: decode %s result: %w", method, err)
		}
	}
	return nil
}

// SendMessage delivers text to a chat, optionally with one row of inline
// keyboard buttons.
func (c *Client) SendMessage(ctx context.Context, chatID string, text string, buttons []InlineKeyboardButton) error {
	payload := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if len(buttons) > 0 {
		payload["reply_markup"] = map[string]any{
			"inline_keyboard": [][]InlineKeyboardButton{buttons},
		}
	}
	return c.call(ctx, "sendMessage", payload, nil)
}

// GetUpdates long-polls for updates past the given offset.
func (c *Client) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]Update, error) {
	payload := map[string]any{
		"offset":  offset,
		"timeout": int(timeout.Seconds()),
	}

	var updates []Update
	if err := c.call(ctx, "getUpdates", payload, &updates); err != nil {
		return nil, err
	}
	return updates, nil
}

// AnswerCallbackQuery acknowledges a button tap with a short notification.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID, text string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
		"text":              text,
	}, nil)
}

// NotifyLoginAttempt implements service.Notifier: it pushes a confirmation
// prompt with confirm/reject buttons whose callback data carries the session
// token.
func (c *Client) NotifyLoginAttempt(ctx context.Context, telegramID, sessionToken string) error {
	return c.SendMessage(ctx, telegramID,
		"Login attempt on your account. Was this you?",
		[]InlineKeyboardButton{
			{Text: "Confirm", CallbackData: "confirm_" + sessionToken},
			{Text: "Reject", CallbackData: "reject_" + sessionToken},
		},
	)
}
