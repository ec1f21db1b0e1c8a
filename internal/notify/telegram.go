package notify

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"
)

// Notifier delivers an alert message to a destination chat. Delivery is
// fire-and-forget from the pipeline's perspective: a failed send propagates
// and is left to external supervision, never retried here.
type Notifier interface {
	Send(ctx context.Context, chatID, text string) error
}

// Telegram posts messages through the Bot API.
type Telegram struct {
	botID   string
	baseURL string
	client  *http.Client
	logger  *zap.Logger
}

func NewTelegram(botID string, logger *zap.Logger) (*Telegram, error) {
	if botID == "" {
		return nil, fmt.Errorf("telegram bot id is required")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Telegram{
		botID:   botID,
		baseURL: "https://api.telegram.org",
		client:  &http.Client{Timeout: 10 * time.Second},
		logger:  logger,
	}, nil
}

// Send delivers text to a chat.
func (t *Telegram) Send(ctx context.Context, chatID, text string) error {
	if chatID == "" {
		return fmt.Errorf("telegram chat id is required")
	}

	payload := url.Values{}
	payload.Set("chat_id", chatID)
	payload.Set("text", text)
	payload.Set("disable_web_page_preview", "true")

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", t.baseURL, t.botID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(payload.Encode()))
	if err != nil {
		return fmt.Errorf("build telegram request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.client.Do(req)
	if err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("telegram response %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	t.logger.Debug("telegram message sent", zap.String("chat", chatID))
	return nil
}
