package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const telegramAPIBase = "https://api.telegram.org"

// TelegramNotifier pushes messages through the bot sendMessage API.
// Delivery success comes from the "ok" field of the response body, not
// the HTTP status alone.
type TelegramNotifier struct {
	botToken string
	chatID   string
	apiBase  string
	client   *http.Client
}

var _ ports.Notifier = (*TelegramNotifier)(nil)

// NewTelegramNotifier builds a notifier from configuration.
func NewTelegramNotifier(cfg config.TelegramConfig) *TelegramNotifier {
	return &TelegramNotifier{
		botToken: cfg.BotToken,
		chatID:   cfg.ChatID,
		apiBase:  telegramAPIBase,
		client:   &http.Client{Timeout: notifyTimeout},
	}
}

// Name identifies the channel in results and logs.
func (n *TelegramNotifier) Name() string { return "telegram" }

// Send posts an HTML-formatted message to the configured chat.
func (n *TelegramNotifier) Send(ctx context.Context, message string) domain.NotificationResult {
	if n.botToken == "" || n.chatID == "" {
		return failureResult(n.Name(), domain.ErrUnconfigured.Error())
	}

	body, err := json.Marshal(map[string]string{
		"chat_id":    n.chatID,
		"text":       message,
		"parse_mode": "HTML",
	})
	if err != nil {
		return failureResult(n.Name(), fmt.Sprintf("marshal payload: %v", err))
	}

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.apiBase, n.botToken)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return failureResult(n.Name(), fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return failureResult(n.Name(), err.Error())
	}
	defer resp.Body.Close()

	var parsed struct {
		OK          bool   `json:"ok"`
		Description string `json:"description"`
		Result      struct {
			MessageID int64 `json:"message_id"`
		} `json:"result"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failureResult(n.Name(), fmt.Sprintf("decode response: %v", err))
	}

	if !parsed.OK {
		return failureResult(n.Name(), parsed.Description)
	}

	return domain.NotificationResult{
		Channel:   n.Name(),
		Success:   true,
		MessageID: fmt.Sprintf("%d", parsed.Result.MessageID),
	}
}
