package telegram

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"NewsRelay/internal/config"
	"NewsRelay/internal/ports"
)

const (
	defaultAPIBase = "https://api.telegram.org"
	parseModeError = "can't parse entities"
)

// Notifier sends messages to a Telegram chat via bot API.
type Notifier struct {
	apiBase  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Messenger = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(cfg config.TelegramConfig) *Notifier {
	base := strings.TrimRight(cfg.APIBase, "/")
	if base == "" {
		base = defaultAPIBase
	}
	return &Notifier{
		apiBase:  base,
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		client:   &http.Client{Timeout: cfg.TimeoutDuration()},
	}
}

// SendText posts a Markdown message.
func (n *Notifier) SendText(ctx context.Context, text string) error {
	form := url.Values{}
	form.Set("text", text)
	return n.send(ctx, "sendMessage", form)
}

// SendImage posts a photo by URL with a Markdown caption.
func (n *Notifier) SendImage(ctx context.Context, imageURL, caption string) error {
	form := url.Values{}
	form.Set("photo", imageURL)
	form.Set("caption", caption)
	return n.send(ctx, "sendPhoto", form)
}

// send posts with Markdown and, when Telegram rejects the entities, once more
// as plain text so a malformed message is not retried forever.
func (n *Notifier) send(ctx context.Context, method string, form url.Values) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	form.Set("chat_id", n.chatID)
	form.Set("parse_mode", "Markdown")
	err := n.call(ctx, method, form)
	if err == nil || !strings.Contains(err.Error(), parseModeError) {
		return err
	}

	form.Del("parse_mode")
	if plainErr := n.call(ctx, method, form); plainErr != nil {
		return fmt.Errorf("%w; plain text retry: %v", err, plainErr)
	}
	return nil
}

func (n *Notifier) call(ctx context.Context, method string, form url.Values) error {

	endpoint := fmt.Sprintf("%s/bot%s/%s", n.apiBase, n.botToken, method)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s: %s", method, redact(err.Error(), n.botToken))
	}
	defer resp.Body.Close()

	var result struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	_ = json.Unmarshal(raw, &result)

	if resp.StatusCode != http.StatusOK || !result.OK {
		desc := result.Description
		if desc == "" {
			desc = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("telegram %s error: %s: %s", method, resp.Status, desc)
	}

	return nil
}

// redact keeps the bot token out of logged transport errors, which embed the request URL.
func redact(msg, token string) string {
	if token == "" {
		return msg
	}
	return strings.ReplaceAll(msg, token, "<redacted>")
}
