package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const defaultSummaryBudget = 3000

// Deps wires all driven adapters into the digest pipeline.
type Deps struct {
	Fetcher       ports.Fetcher
	Extractor     ports.Extractor
	Analyzer      ports.Analyzer
	Summarizer    ports.Summarizer
	Notifier      ports.Notifier
	SummaryBudget int
	Logger        *slog.Logger
}

// Pipeline sequences fetch → extract → analyze → summarize → notify.
// The first terminal stage failure produces a partial Report; Process
// never returns an error and never panics.
type Pipeline struct {
	fetcher       ports.Fetcher
	extractor     ports.Extractor
	analyzer      ports.Analyzer
	summarizer    ports.Summarizer
	notifier      ports.Notifier
	summaryBudget int
	logger        *slog.Logger
}

// NewPipeline constructs the orchestration component. A SummaryBudget
// of zero selects the 3000-rune default.
func NewPipeline(deps Deps) *Pipeline {
	budget := deps.SummaryBudget
	if budget <= 0 {
		budget = defaultSummaryBudget
	}
	return &Pipeline{
		fetcher:       deps.Fetcher,
		extractor:     deps.Extractor,
		analyzer:      deps.Analyzer,
		summarizer:    deps.Summarizer,
		notifier:      deps.Notifier,
		summaryBudget: budget,
		logger:        deps.Logger,
	}
}

// Process runs the full pipeline for one URL. When notify is false or
// no notifier is configured, the notify stage is skipped entirely.
func (p *Pipeline) Process(ctx context.Context, url string, notify bool) domain.Report {
	report := domain.Report{URL: url}

	fetched := p.fetcher.Fetch(ctx, url)
	if !fetched.Success {
		p.debug("fetch failed", "url", url, "error", fetched.ErrorMessage)
		return fail(report, domain.StageFetch, fetched.ErrorMessage)
	}
	p.debug("fetched page", "url", url, "bytes", len(fetched.RawBody))

	content, err := p.extractor.Extract(fetched.RawBody)
	if err != nil {
		return fail(report, domain.StageExtract, err.Error())
	}
	report.Title = content.Title
	p.debug("extracted content", "title", content.Title, "paragraphs", len(content.Paragraphs))

	// Analysis is best-effort metadata and never fails the run.
	if p.analyzer != nil {
		analysis := p.analyzer.Analyze(content.Body)
		report.Keywords = analysis.Keywords
		report.Entities = analysis.Entities
		report.TotalTokens = analysis.TotalTokens
		p.debug("analyzed content", "tokens", analysis.TotalTokens, "unique", analysis.UniqueTokens)
	}

	if p.summarizer == nil {
		return fail(report, domain.StageSummarize, "summarizer not configured")
	}

	summary, err := p.summarizer.Summarize(ctx, truncate(content.Body, p.summaryBudget))
	if err != nil {
		return fail(report, domain.StageSummarize, err.Error())
	}
	report.Summary = summary

	if notify && p.notifier != nil {
		result := p.notifier.Send(ctx, digestMessage(content.Title, summary))
		if !result.Success {
			return fail(report, domain.StageNotify, result.ErrorMessage)
		}
		p.debug("notified channel", "channel", result.Channel, "message_id", result.MessageID)
	}

	report.Success = true
	return report
}

// digestMessage formats the deliverable digest text.
func digestMessage(title, summary string) string {
	return fmt.Sprintf("📰 %s\n\n%s", title, summary)
}

// truncate bounds text to a rune budget; a shorter text passes through
// unmodified.
func truncate(text string, budget int) string {
	runes := []rune(text)
	if len(runes) <= budget {
		return text
	}
	return string(runes[:budget])
}

func fail(report domain.Report, stage, message string) domain.Report {
	report.FailedStage = stage
	report.ErrorMessage = message
	return report
}

func (p *Pipeline) debug(msg string, args ...any) {
	if p.logger != nil {
		p.logger.Debug(msg, args...)
	}
}
