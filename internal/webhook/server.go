// Package webhook is the thin LINE front-end: it verifies inbound
// event signatures, answers news-digest requests with a source menu,
// and hands chosen sources to the dispatcher. All pipeline logic stays
// in usecase.
package webhook

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-chi/chi/v5"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/infrastructure/notify"
	"NewsDigest/internal/usecase"
)

// newsKeywords mark a text message as a digest request. Matching is a
// case-insensitive substring check.
var newsKeywords = []string{
	"新聞摘要", "新聞", "ニュース", "news", "摘要", "頭條", "今日新聞",
}

// Replier answers webhook events through their reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken string, messages ...notify.Message) domain.NotificationResult
}

// Dispatcher starts a background digest run for a recipient.
type Dispatcher interface {
	Dispatch(url, recipient string) error
}

// Server handles LINE webhook callbacks.
type Server struct {
	channelSecret string
	sources       []config.SourceConfig
	replier       Replier
	dispatcher    Dispatcher
	logger        *slog.Logger
}

// NewServer wires the front-end collaborators.
func NewServer(channelSecret string, sources []config.SourceConfig, replier Replier, dispatcher Dispatcher, logger *slog.Logger) *Server {
	return &Server{
		channelSecret: channelSecret,
		sources:       sources,
		replier:       replier,
		dispatcher:    dispatcher,
		logger:        logger,
	}
}

// Router builds the HTTP surface: the callback endpoint plus a health
// probe.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Post("/callback", s.handleCallback)
	return r
}

type lineEvent struct {
	Type       string `json:"type"`
	ReplyToken string `json:"replyToken"`
	Source     struct {
		UserID  string `json:"userId"`
		GroupID string `json:"groupId"`
	} `json:"source"`
	Message struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"message"`
	Postback struct {
		Data string `json:"data"`
	} `json:"postback"`
}

func (s *Server) handleCallback(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, "read body", http.StatusBadRequest)
		return
	}

	if !s.verifySignature(body, r.Header.Get("X-Line-Signature")) {
		s.warn("signature mismatch")
		http.Error(w, "invalid signature", http.StatusBadRequest)
		return
	}

	var payload struct {
		Events []lineEvent `json:"events"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		http.Error(w, "parse events", http.StatusBadRequest)
		return
	}

	for _, event := range payload.Events {
		s.handleEvent(r.Context(), event)
	}

	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}

func (s *Server) handleEvent(ctx context.Context, event lineEvent) {
	switch event.Type {
	case "message":
		if event.Message.Type == "text" && isNewsRequest(event.Message.Text) {
			s.replySourceMenu(ctx, event.ReplyToken)
		}
	case "postback":
		s.handlePostback(ctx, event)
	}
}

// replySourceMenu answers with a quick-reply of configured sources.
func (s *Server) replySourceMenu(ctx context.Context, replyToken string) {
	options := make([]notify.QuickReplyOption, 0, len(s.sources))
	for _, src := range s.sources {
		options = append(options, notify.QuickReplyOption{
			Label:       strings.TrimSpace(src.Emoji + " " + src.Name),
			Data:        "news_source=" + src.ID,
			DisplayText: "我想看 " + src.Name,
		})
	}

	result := s.replier.Reply(ctx, replyToken,
		notify.QuickReplyMessage("請選擇新聞來源 👇", options))
	if !result.Success {
		s.warn("reply source menu failed", "error", result.ErrorMessage)
	}
}

func (s *Server) handlePostback(ctx context.Context, event lineEvent) {
	values, err := url.ParseQuery(event.Postback.Data)
	if err != nil {
		s.warn("bad postback data", "data", event.Postback.Data)
		return
	}

	sourceID := values.Get("news_source")
	if sourceID == "" {
		return
	}

	source, ok := s.findSource(sourceID)
	if !ok {
		s.reply(ctx, event.ReplyToken, "找不到這個新聞來源 🙈")
		return
	}

	recipient := event.Source.UserID
	if recipient == "" {
		recipient = event.Source.GroupID
	}

	err = s.dispatcher.Dispatch(source.URL, recipient)
	switch {
	case errors.Is(err, usecase.ErrRunInFlight):
		s.reply(ctx, event.ReplyToken, "上一份摘要還在準備中，請稍候 ⏳")
	case err != nil:
		s.warn("dispatch failed", "source", sourceID, "error", err)
		s.reply(ctx, event.ReplyToken, "摘要啟動失敗，請稍後再試 🙏")
	default:
		s.reply(ctx, event.ReplyToken,
			fmt.Sprintf("%s %s 的摘要準備中，完成後馬上送給你！", source.Emoji, source.Name))
	}
}

func (s *Server) reply(ctx context.Context, replyToken, text string) {
	result := s.replier.Reply(ctx, replyToken, notify.TextMessage(text))
	if !result.Success {
		s.warn("reply failed", "error", result.ErrorMessage)
	}
}

func (s *Server) findSource(id string) (config.SourceConfig, bool) {
	for _, src := range s.sources {
		if src.ID == id {
			return src, true
		}
	}
	return config.SourceConfig{}, false
}

// verifySignature checks the X-Line-Signature header: the base64
// HMAC-SHA256 of the raw body keyed with the channel secret.
func (s *Server) verifySignature(body []byte, signature string) bool {
	if s.channelSecret == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(s.channelSecret))
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func isNewsRequest(text string) bool {
	lowered := strings.ToLower(strings.TrimSpace(text))
	for _, keyword := range newsKeywords {
		if strings.Contains(lowered, keyword) {
			return true
		}
	}
	return false
}

func (s *Server) warn(msg string, args ...any) {
	if s.logger != nil {
		s.logger.Warn(msg, args...)
	}
}
