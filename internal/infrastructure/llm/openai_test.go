package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
)

func openAIConfig(endpoint, key string) config.OpenAIConfig {
	return config.OpenAIConfig{Endpoint: endpoint, Model: "gpt-4o-mini", APIKey: key}
}

func TestOpenAIGenerateSuccess(t *testing.T) {
	t.Parallel()

	var gotAuth string
	var gotBody struct {
		Model       string `json:"model"`
		Temperature float64
		Messages    []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&gotBody)
		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"content": "短摘要"}}],
			"usage": {"total_tokens": 42}
		}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(openAIConfig(server.URL, "sk-test"))
	resp := provider.Generate(context.Background(), "summarize this", "you are terse")

	if !resp.Success {
		t.Fatalf("expected success, got %s", resp.ErrorMessage)
	}
	if resp.Content != "短摘要" || resp.TokensUsed != 42 || resp.Model != "gpt-4o-mini" {
		t.Fatalf("unexpected response: %+v", resp)
	}
	if gotAuth != "Bearer sk-test" {
		t.Fatalf("unexpected auth header: %q", gotAuth)
	}
	if len(gotBody.Messages) != 2 || gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Fatalf("unexpected messages: %+v", gotBody.Messages)
	}
}

func TestOpenAIGenerateRemoteError(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error": {"message": "rate limited"}}`))
	}))
	defer server.Close()

	resp := NewOpenAIProvider(openAIConfig(server.URL, "sk-test")).
		Generate(context.Background(), "prompt", "")

	if resp.Success {
		t.Fatal("expected failure")
	}
	if !strings.Contains(resp.ErrorMessage, "rate limited") {
		t.Fatalf("remote message not surfaced: %q", resp.ErrorMessage)
	}
	if resp.Content != "" {
		t.Fatalf("failed response must carry empty content, got %q", resp.Content)
	}
}

func TestOpenAIUnconfiguredSkipsNetwork(t *testing.T) {
	t.Parallel()

	var calls atomic.Int64
	server := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		calls.Add(1)
	}))
	defer server.Close()

	provider := NewOpenAIProvider(openAIConfig(server.URL, ""))

	resp := provider.Generate(context.Background(), "prompt", "")
	if resp.Success {
		t.Fatal("expected failure without credentials")
	}
	if !strings.Contains(resp.ErrorMessage, "credentials not configured") {
		t.Fatalf("unexpected message: %q", resp.ErrorMessage)
	}

	if _, err := provider.Summarize(context.Background(), "text"); err == nil {
		t.Fatal("expected Summarize to fail without credentials")
	}

	if calls.Load() != 0 {
		t.Fatalf("expected zero network calls, got %d", calls.Load())
	}
}

func TestOpenAISummarizeWrapsPrompt(t *testing.T) {
	t.Parallel()

	var gotPrompt string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		if len(body.Messages) > 0 {
			gotPrompt = body.Messages[0].Content
		}
		_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "ok"}}]}`))
	}))
	defer server.Close()

	provider := NewOpenAIProvider(openAIConfig(server.URL, "sk-test"))
	summary, err := provider.Summarize(context.Background(), "台積電擴廠")
	if err != nil {
		t.Fatalf("Summarize error: %v", err)
	}
	if summary != "ok" {
		t.Fatalf("unexpected summary: %q", summary)
	}
	if !strings.Contains(gotPrompt, "台積電擴廠") || !strings.Contains(gotPrompt, "摘要") {
		t.Fatalf("prompt template not applied: %q", gotPrompt)
	}
}

func TestOpenAIGenerateUnexpectedShape(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices": []}`))
	}))
	defer server.Close()

	resp := NewOpenAIProvider(openAIConfig(server.URL, "sk-test")).
		Generate(context.Background(), "prompt", "")

	if resp.Success {
		t.Fatal("expected failure on empty choices")
	}
	if !strings.Contains(resp.ErrorMessage, domain.ErrParse.Error()) {
		t.Fatalf("expected parse failure, got %q", resp.ErrorMessage)
	}
}
