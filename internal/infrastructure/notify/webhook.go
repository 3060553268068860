// Package notify implements notification channels behind the
// ports.Notifier contract: plain webhook posts (Discord, Slack), the
// Telegram bot API, and the LINE Messaging API with rich message
// kinds. Every failure folds into the NotificationResult.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const notifyTimeout = 10 * time.Second

// WebhookNotifier posts a single JSON field to a webhook URL. The
// field name and success codes differ per flavor.
type WebhookNotifier struct {
	name   string
	url    string
	field  string
	client *http.Client
}

var _ ports.Notifier = (*WebhookNotifier)(nil)

// NewDiscordNotifier posts {content: message}; 200 and 204 count as
// delivered.
func NewDiscordNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		name:   "discord",
		url:    webhookURL,
		field:  "content",
		client: &http.Client{Timeout: notifyTimeout},
	}
}

// NewSlackNotifier posts {text: message}.
func NewSlackNotifier(webhookURL string) *WebhookNotifier {
	return &WebhookNotifier{
		name:   "slack",
		url:    webhookURL,
		field:  "text",
		client: &http.Client{Timeout: notifyTimeout},
	}
}

// Name identifies the channel in results and logs.
func (n *WebhookNotifier) Name() string { return n.name }

// Send posts the message; a missing webhook URL short-circuits without
// any network call.
func (n *WebhookNotifier) Send(ctx context.Context, message string) domain.NotificationResult {
	if n.url == "" {
		return failureResult(n.name, domain.ErrUnconfigured.Error())
	}

	body, err := json.Marshal(map[string]string{n.field: message})
	if err != nil {
		return failureResult(n.name, fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.url, bytes.NewReader(body))
	if err != nil {
		return failureResult(n.name, fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return failureResult(n.name, err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return failureResult(n.name, fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(detail))))
	}

	return domain.NotificationResult{Channel: n.name, Success: true}
}

func failureResult(channel, message string) domain.NotificationResult {
	return domain.NotificationResult{Channel: channel, ErrorMessage: message}
}
