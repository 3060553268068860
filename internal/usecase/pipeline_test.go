package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"unicode/utf8"

	"NewsDigest/internal/domain"
)

type fakeFetcher struct {
	result domain.FetchResult
}

func (f fakeFetcher) Fetch(_ context.Context, url string) domain.FetchResult {
	result := f.result
	result.URL = url
	return result
}

func (f fakeFetcher) FetchAll(ctx context.Context, urls []string) []domain.FetchResult {
	results := make([]domain.FetchResult, 0, len(urls))
	for _, url := range urls {
		results = append(results, f.Fetch(ctx, url))
	}
	return results
}

type fakeExtractor struct {
	content domain.ExtractedContent
	err     error
}

func (f fakeExtractor) Extract(string) (domain.ExtractedContent, error) {
	return f.content, f.err
}

type fakeAnalyzer struct {
	result domain.AnalysisResult
}

func (f fakeAnalyzer) Analyze(string) domain.AnalysisResult { return f.result }

type fakeSummarizer struct {
	summary string
	err     error
	gotText string
	calls   int
}

func (f *fakeSummarizer) Generate(context.Context, string, string) domain.ProviderResponse {
	return domain.ProviderResponse{}
}

func (f *fakeSummarizer) Summarize(_ context.Context, text string) (string, error) {
	f.calls++
	f.gotText = text
	return f.summary, f.err
}

type fakeNotifier struct {
	result     domain.NotificationResult
	calls      int
	gotMessage string
}

func (f *fakeNotifier) Name() string { return "fake" }

func (f *fakeNotifier) Send(_ context.Context, message string) domain.NotificationResult {
	f.calls++
	f.gotMessage = message
	return f.result
}

func goodFetch() fakeFetcher {
	return fakeFetcher{result: domain.FetchResult{
		RawBody:    "<html>raw</html>",
		StatusCode: 200,
		Success:    true,
	}}
}

func goodContent() domain.ExtractedContent {
	body := "第一段內容。\n\n第二段內容。"
	return domain.ExtractedContent{
		Title:      "重要新聞",
		Body:       body,
		Paragraphs: []string{"第一段內容。", "第二段內容。"},
		BodyLength: utf8.RuneCountInString(body),
	}
}

func TestProcessFetchFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline(Deps{
		Fetcher:    fakeFetcher{result: domain.FetchResult{ErrorMessage: "timeout"}},
		Extractor:  fakeExtractor{},
		Summarizer: &fakeSummarizer{},
	})

	report := p.Process(context.Background(), "https://news.example/a", false)

	if report.Success {
		t.Fatal("expected failed report")
	}
	if report.FailedStage != domain.StageFetch {
		t.Fatalf("unexpected failed stage: %q", report.FailedStage)
	}
	if report.ErrorMessage != "timeout" {
		t.Fatalf("fetch error not propagated: %q", report.ErrorMessage)
	}
	if report.Title != "" || report.Summary != "" || len(report.Keywords) != 0 {
		t.Fatalf("failed fetch must not populate content fields: %+v", report)
	}
}

func TestProcessExtractFailure(t *testing.T) {
	t.Parallel()

	p := NewPipeline(Deps{
		Fetcher:    goodFetch(),
		Extractor:  fakeExtractor{err: errors.New("parse markup: broken")},
		Summarizer: &fakeSummarizer{},
	})

	report := p.Process(context.Background(), "https://news.example/a", false)

	if report.FailedStage != domain.StageExtract {
		t.Fatalf("unexpected failed stage: %q", report.FailedStage)
	}
	if report.URL != "https://news.example/a" {
		t.Fatalf("url lost from partial report: %q", report.URL)
	}
}

func TestProcessSuccess(t *testing.T) {
	t.Parallel()

	summarizer := &fakeSummarizer{summary: "一句話摘要"}
	notifier := &fakeNotifier{result: domain.NotificationResult{Channel: "fake", Success: true}}

	p := NewPipeline(Deps{
		Fetcher:   goodFetch(),
		Extractor: fakeExtractor{content: goodContent()},
		Analyzer: fakeAnalyzer{result: domain.AnalysisResult{
			Keywords:     []domain.Keyword{{Term: "內容", Count: 2}},
			TotalTokens:  4,
			UniqueTokens: 3,
			Entities:     []string{"台積電公司"},
		}},
		Summarizer: summarizer,
		Notifier:   notifier,
	})

	report := p.Process(context.Background(), "https://news.example/a", true)

	if !report.Success {
		t.Fatalf("expected success, got %s/%s", report.FailedStage, report.ErrorMessage)
	}
	if report.Title != "重要新聞" || report.Summary != "一句話摘要" {
		t.Fatalf("unexpected report: %+v", report)
	}
	if report.TotalTokens != 4 || len(report.Keywords) != 1 || len(report.Entities) != 1 {
		t.Fatalf("analysis fields missing: %+v", report)
	}
	if notifier.calls != 1 {
		t.Fatalf("expected one notification, got %d", notifier.calls)
	}
	if !strings.HasPrefix(notifier.gotMessage, "📰 重要新聞") || !strings.Contains(notifier.gotMessage, "一句話摘要") {
		t.Fatalf("unexpected notification message: %q", notifier.gotMessage)
	}
}

func TestProcessNotifySkipped(t *testing.T) {
	t.Parallel()

	notifier := &fakeNotifier{result: domain.NotificationResult{Success: true}}
	p := NewPipeline(Deps{
		Fetcher:    goodFetch(),
		Extractor:  fakeExtractor{content: goodContent()},
		Summarizer: &fakeSummarizer{summary: "s"},
		Notifier:   notifier,
	})

	report := p.Process(context.Background(), "https://news.example/a", false)

	if !report.Success {
		t.Fatalf("expected success, got %+v", report)
	}
	if notifier.calls != 0 {
		t.Fatalf("notify must be skipped, got %d calls", notifier.calls)
	}
}

func TestProcessTruncatesBeforeSummarize(t *testing.T) {
	t.Parallel()

	long := strings.Repeat("字", 3500)
	summarizer := &fakeSummarizer{summary: "s"}
	p := NewPipeline(Deps{
		Fetcher:    goodFetch(),
		Extractor:  fakeExtractor{content: domain.ExtractedContent{Title: "t", Body: long}},
		Summarizer: summarizer,
	})

	report := p.Process(context.Background(), "https://news.example/a", false)

	if !report.Success {
		t.Fatalf("expected success, got %+v", report)
	}
	if got := utf8.RuneCountInString(summarizer.gotText); got != 3000 {
		t.Fatalf("expected 3000-rune excerpt, got %d", got)
	}
}

func TestProcessShortBodyPassedThrough(t *testing.T) {
	t.Parallel()

	summarizer := &fakeSummarizer{summary: "s"}
	content := goodContent()
	p := NewPipeline(Deps{
		Fetcher:    goodFetch(),
		Extractor:  fakeExtractor{content: content},
		Summarizer: summarizer,
	})

	p.Process(context.Background(), "https://news.example/a", false)

	if summarizer.gotText != content.Body {
		t.Fatalf("short body must pass through unmodified: %q", summarizer.gotText)
	}
}

func TestProcessSummarizeFailureKeepsEarlierFields(t *testing.T) {
	t.Parallel()

	p := NewPipeline(Deps{
		Fetcher:   goodFetch(),
		Extractor: fakeExtractor{content: goodContent()},
		Analyzer: fakeAnalyzer{result: domain.AnalysisResult{
			Keywords: []domain.Keyword{{Term: "內容", Count: 2}},
		}},
		Summarizer: &fakeSummarizer{err: errors.New("credentials not configured")},
	})

	report := p.Process(context.Background(), "https://news.example/a", false)

	if report.FailedStage != domain.StageSummarize {
		t.Fatalf("unexpected failed stage: %q", report.FailedStage)
	}
	if report.Title != "重要新聞" || len(report.Keywords) != 1 {
		t.Fatalf("earlier stage fields lost from partial report: %+v", report)
	}
	if report.Summary != "" {
		t.Fatalf("failed summarize must not set summary: %q", report.Summary)
	}
}

func TestProcessNotifyFailureIsTerminal(t *testing.T) {
	t.Parallel()

	p := NewPipeline(Deps{
		Fetcher:    goodFetch(),
		Extractor:  fakeExtractor{content: goodContent()},
		Summarizer: &fakeSummarizer{summary: "摘要"},
		Notifier:   &fakeNotifier{result: domain.NotificationResult{ErrorMessage: "chat not found"}},
	})

	report := p.Process(context.Background(), "https://news.example/a", true)

	if report.FailedStage != domain.StageNotify {
		t.Fatalf("unexpected failed stage: %q", report.FailedStage)
	}
	if report.Summary != "摘要" {
		t.Fatalf("summary lost from partial report: %+v", report)
	}
	if report.ErrorMessage != "chat not found" {
		t.Fatalf("notifier error not propagated: %q", report.ErrorMessage)
	}
}

func TestTruncate(t *testing.T) {
	t.Parallel()

	if got := truncate("abc", 5); got != "abc" {
		t.Fatalf("short input modified: %q", got)
	}
	if got := truncate("中文字串測試", 3); got != "中文字" {
		t.Fatalf("rune truncation broken: %q", got)
	}
}
