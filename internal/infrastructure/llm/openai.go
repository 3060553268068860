package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// OpenAIProvider talks to an OpenAI-compatible chat-completions API.
type OpenAIProvider struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ ports.Summarizer = (*OpenAIProvider)(nil)

// NewOpenAIProvider builds a provider from configuration.
func NewOpenAIProvider(cfg config.OpenAIConfig) *OpenAIProvider {
	return &OpenAIProvider{
		endpoint: cfg.Endpoint,
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: providerTimeoutSeconds * time.Second},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Generate posts a chat-completion request and folds every failure
// mode into the response value.
func (p *OpenAIProvider) Generate(ctx context.Context, prompt, systemPrompt string) domain.ProviderResponse {
	if p.apiKey == "" {
		return failureResponse(p.model, domain.ErrUnconfigured)
	}

	messages := make([]chatMessage, 0, 2)
	if systemPrompt != "" {
		messages = append(messages, chatMessage{Role: "system", Content: systemPrompt})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt})

	body, err := json.Marshal(map[string]any{
		"model":       p.model,
		"messages":    messages,
		"temperature": 0.7,
	})
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(body))
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+p.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("%w: %v", domain.ErrTransport, err))
	}
	defer resp.Body.Close()

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Usage struct {
			TotalTokens int `json:"total_tokens"`
		} `json:"usage"`
		Error *struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return failureResponse(p.model, fmt.Errorf("%w: %v", domain.ErrParse, err))
	}

	if parsed.Error != nil {
		return failureResponse(p.model, fmt.Errorf("%w: %s", domain.ErrRemote, parsed.Error.Message))
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message.Content == "" {
		return failureResponse(p.model, fmt.Errorf("%w: no completion choices", domain.ErrParse))
	}

	return domain.ProviderResponse{
		Content:    parsed.Choices[0].Message.Content,
		Model:      p.model,
		TokensUsed: parsed.Usage.TotalTokens,
		Success:    true,
	}
}

// Summarize asks for a short summary of text using the fixed template.
func (p *OpenAIProvider) Summarize(ctx context.Context, text string) (string, error) {
	return summarizeWith(p.Generate(ctx, summaryPrompt(text), ""))
}
