package ports

import (
	"context"

	"NewsDigest/internal/domain"
)

// Fetcher retrieves raw markup for URLs. Fetch never returns an error:
// transport failures fold into the result.
type Fetcher interface {
	Fetch(ctx context.Context, url string) domain.FetchResult
	FetchAll(ctx context.Context, urls []string) []domain.FetchResult
}

// Extractor strips noise markup and produces title plus body paragraphs.
type Extractor interface {
	Extract(rawMarkup string) (domain.ExtractedContent, error)
}

// Analyzer ranks keywords and extracts entities; it degrades to empty
// results on empty input rather than failing.
type Analyzer interface {
	Analyze(text string) domain.AnalysisResult
}

// Tokenizer splits text into candidate terms. Implementations range
// from a regex heuristic to a dictionary-based segmenter.
type Tokenizer interface {
	Tokenize(text string) []string
}

// Summarizer turns text into a short natural-language summary via an
// LLM backend.
type Summarizer interface {
	Generate(ctx context.Context, prompt, systemPrompt string) domain.ProviderResponse
	Summarize(ctx context.Context, text string) (string, error)
}

// Notifier delivers a message to an external channel.
type Notifier interface {
	Name() string
	Send(ctx context.Context, message string) domain.NotificationResult
}
