// Package llm implements summarization providers behind the
// ports.Summarizer contract: an OpenAI chat-completion backend and a
// Gemini single-turn generation backend. Both detect missing
// credentials locally and never attempt a call without them.
package llm

import (
	"errors"
	"fmt"

	"NewsDigest/internal/domain"
)

const providerTimeoutSeconds = 60

// summaryPrompt wraps text in the fixed instruction template asking
// for a short Traditional Chinese summary.
func summaryPrompt(text string) string {
	return fmt.Sprintf("請用繁體中文簡要摘要以下新聞內容（約 100 字）：\n\n%s", text)
}

func failureResponse(model string, err error) domain.ProviderResponse {
	return domain.ProviderResponse{
		Model:        model,
		ErrorMessage: err.Error(),
	}
}

// summarizeWith runs the shared summarize-on-top-of-generate path.
func summarizeWith(resp domain.ProviderResponse) (string, error) {
	if !resp.Success {
		return "", errors.New(resp.ErrorMessage)
	}
	return resp.Content, nil
}
