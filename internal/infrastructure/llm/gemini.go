package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsDigest/internal/config"
	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

// GeminiProvider talks to the Google generate-content API in
// single-turn mode.
type GeminiProvider struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
}

var _ ports.Summarizer = (*GeminiProvider)(nil)

// NewGeminiProvider builds a provider from configuration. Endpoint is
// the models base URL; the model name and key are appended per call.
func NewGeminiProvider(cfg config.GeminiConfig) *GeminiProvider {
	return &GeminiProvider{
		endpoint: strings.TrimSuffix(cfg.Endpoint, "/"),
		model:    cfg.Model,
		apiKey:   cfg.APIKey,
		client:   &http.Client{Timeout: providerTimeoutSeconds * time.Second},
	}
}

// Generate posts a single-turn generation request. The system prompt,
// when present, is prepended to the user prompt since the API has no
// separate role slot in this shape.
func (p *GeminiProvider) Generate(ctx context.Context, prompt, systemPrompt string) domain.ProviderResponse {
	if p.apiKey == "" {
		return failureResponse(p.model, domain.ErrUnconfigured)
	}

	fullPrompt := prompt
	if systemPrompt != "" {
		fullPrompt = systemPrompt + "\n\n" + prompt
	}

	body, err := json.Marshal(map[string]any{
		"contents": []map[string]any{
			{"parts": []map[string]string{{"text": fullPrompt}}},
		},
	})
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("marshal request: %w", err))
	}

	target := fmt.Sprintf("%s/%s:generateContent?key=%s", p.endpoint, p.model, url.QueryEscape(p.apiKey))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(body))
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return failureResponse(p.model, fmt.Errorf("%w: %v", domain.ErrTransport, err))
	}
	defer resp.Body.Close()

	var parsed struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
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
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 ||
		parsed.Candidates[0].Content.Parts[0].Text == "" {
		return failureResponse(p.model, fmt.Errorf("%w: no candidates", domain.ErrParse))
	}

	// The generate-content response carries no usable token count.
	return domain.ProviderResponse{
		Content: parsed.Candidates[0].Content.Parts[0].Text,
		Model:   p.model,
		Success: true,
	}
}

// Summarize asks for a short summary of text using the fixed template.
func (p *GeminiProvider) Summarize(ctx context.Context, text string) (string, error) {
	return summarizeWith(p.Generate(ctx, summaryPrompt(text), ""))
}
