package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	lineAPIBase = "https://api.line.me"
	linePush    = "/v2/bot/message/push"
	lineReply   = "/v2/bot/message/reply"

	// The Messaging API rejects quick replies with more than 13 items;
	// extra options are dropped, not reported as an error.
	maxQuickReplyItems = 13
)

// Message is one LINE message object. The populated fields depend on
// Type; unused fields stay off the wire via omitempty.
type Message struct {
	Type               string         `json:"type"`
	Text               string         `json:"text,omitempty"`
	OriginalContentURL string         `json:"originalContentUrl,omitempty"`
	PreviewImageURL    string         `json:"previewImageUrl,omitempty"`
	QuickReply         *QuickReply    `json:"quickReply,omitempty"`
	AltText            string         `json:"altText,omitempty"`
	Contents           map[string]any `json:"contents,omitempty"`
}

// QuickReply attaches tappable suggested responses to a message.
type QuickReply struct {
	Items []QuickReplyItem `json:"items"`
}

// QuickReplyItem wraps one action button.
type QuickReplyItem struct {
	Type   string `json:"type"`
	Action Action `json:"action"`
}

// Action is a message or postback action on a quick-reply button.
type Action struct {
	Type        string `json:"type"`
	Label       string `json:"label"`
	Text        string `json:"text,omitempty"`
	Data        string `json:"data,omitempty"`
	DisplayText string `json:"displayText,omitempty"`
}

// QuickReplyOption is the caller-facing shape of one button. Data set
// builds a postback action, otherwise a message action echoing Text
// (or the label when Text is empty).
type QuickReplyOption struct {
	Label       string
	Text        string
	Data        string
	DisplayText string
}

// LINENotifier pushes messages through the LINE Messaging API. All
// message kinds funnel into one push primitive, so a new kind only
// needs a new builder.
type LINENotifier struct {
	token     string
	recipient string
	apiBase   string
	client    *http.Client
}

var _ ports.Notifier = (*LINENotifier)(nil)

// NewLINENotifier builds a notifier from configuration.
func NewLINENotifier(cfg config.LineConfig) *LINENotifier {
	return &LINENotifier{
		token:     cfg.ChannelAccessToken,
		recipient: cfg.UserID,
		apiBase:   lineAPIBase,
		client:    &http.Client{Timeout: notifyTimeout},
	}
}

// Name identifies the channel in results and logs.
func (n *LINENotifier) Name() string { return "line" }

// Send pushes a plain text message to the configured recipient.
func (n *LINENotifier) Send(ctx context.Context, message string) domain.NotificationResult {
	return n.push(ctx, n.recipient, TextMessage(message))
}

// SendTo pushes a plain text message to an explicit recipient,
// overriding the configured default.
func (n *LINENotifier) SendTo(ctx context.Context, recipient, message string) domain.NotificationResult {
	return n.push(ctx, recipient, TextMessage(message))
}

// SendImage pushes an image message; the preview defaults to the main
// image URL when absent.
func (n *LINENotifier) SendImage(ctx context.Context, imageURL, previewURL string) domain.NotificationResult {
	if previewURL == "" {
		previewURL = imageURL
	}
	return n.push(ctx, n.recipient, Message{
		Type:               "image",
		OriginalContentURL: imageURL,
		PreviewImageURL:    previewURL,
	})
}

// SendQuickReply pushes a text message with suggested-response
// buttons; options beyond the cap of 13 are silently dropped.
func (n *LINENotifier) SendQuickReply(ctx context.Context, message string, options []QuickReplyOption) domain.NotificationResult {
	return n.push(ctx, n.recipient, QuickReplyMessage(message, options))
}

// SendFlex pushes a structured card with the given alt-text and nested
// layout payload.
func (n *LINENotifier) SendFlex(ctx context.Context, altText string, contents map[string]any) domain.NotificationResult {
	return n.push(ctx, n.recipient, Message{
		Type:     "flex",
		AltText:  altText,
		Contents: contents,
	})
}

// Reply answers a webhook event through the reply endpoint using its
// one-time reply token.
func (n *LINENotifier) Reply(ctx context.Context, replyToken string, messages ...Message) domain.NotificationResult {
	if n.token == "" {
		return failureResult(n.Name(), domain.ErrUnconfigured.Error())
	}
	if replyToken == "" {
		return failureResult(n.Name(), "missing reply token")
	}
	return n.post(ctx, lineReply, map[string]any{
		"replyToken": replyToken,
		"messages":   messages,
	})
}

// TextMessage builds a plain text message object.
func TextMessage(text string) Message {
	return Message{Type: "text", Text: text}
}

// QuickReplyMessage builds a text message with quick-reply buttons.
func QuickReplyMessage(text string, options []QuickReplyOption) Message {
	if len(options) > maxQuickReplyItems {
		options = options[:maxQuickReplyItems]
	}

	items := make([]QuickReplyItem, 0, len(options))
	for _, opt := range options {
		var action Action
		if opt.Data != "" {
			display := opt.DisplayText
			if display == "" {
				display = opt.Label
			}
			action = Action{Type: "postback", Label: opt.Label, Data: opt.Data, DisplayText: display}
		} else {
			echo := opt.Text
			if echo == "" {
				echo = opt.Label
			}
			action = Action{Type: "message", Label: opt.Label, Text: echo}
		}
		items = append(items, QuickReplyItem{Type: "action", Action: action})
	}

	return Message{
		Type:       "text",
		Text:       text,
		QuickReply: &QuickReply{Items: items},
	}
}

func (n *LINENotifier) push(ctx context.Context, recipient string, messages ...Message) domain.NotificationResult {
	if n.token == "" {
		return failureResult(n.Name(), domain.ErrUnconfigured.Error())
	}
	if recipient == "" {
		return failureResult(n.Name(), "recipient not configured")
	}
	return n.post(ctx, linePush, map[string]any{
		"to":       recipient,
		"messages": messages,
	})
}

func (n *LINENotifier) post(ctx context.Context, path string, payload map[string]any) domain.NotificationResult {
	body, err := json.Marshal(payload)
	if err != nil {
		return failureResult(n.Name(), fmt.Sprintf("marshal payload: %v", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.apiBase+path, bytes.NewReader(body))
	if err != nil {
		return failureResult(n.Name(), fmt.Sprintf("build request: %v", err))
	}
	req.Header.Set("Authorization", "Bearer "+n.token)
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return failureResult(n.Name(), err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusOK {
		return domain.NotificationResult{Channel: n.Name(), Success: true}
	}

	detail, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	var parsed struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(detail, &parsed); err == nil && parsed.Message != "" {
		return failureResult(n.Name(), parsed.Message)
	}
	return failureResult(n.Name(), fmt.Sprintf("%s: %s", resp.Status, strings.TrimSpace(string(detail))))
}
