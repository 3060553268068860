package domain

// FetchResult captures the outcome of retrieving a single URL.
// Success implies StatusCode 200 and a non-empty RawBody; a failed
// fetch always carries an empty body.
type FetchResult struct {
	URL          string
	RawBody      string
	StatusCode   int
	Success      bool
	ErrorMessage string
}

// ExtractedContent is the cleaned page content produced by the extractor.
type ExtractedContent struct {
	Title      string
	Body       string
	Paragraphs []string
	BodyLength int
}

// Keyword pairs a ranked term with its frequency.
type Keyword struct {
	Term  string
	Count int
}

// AnalysisResult summarizes keyword frequencies and heuristic entities.
type AnalysisResult struct {
	Keywords     []Keyword
	TotalTokens  int
	UniqueTokens int
	Entities     []string
}

// ProviderResponse is the outcome of a summarization/generation call.
type ProviderResponse struct {
	Content      string
	Model        string
	TokensUsed   int
	Success      bool
	ErrorMessage string
}

// NotificationResult is the outcome of a delivery attempt on a channel.
type NotificationResult struct {
	Channel      string
	Success      bool
	MessageID    string
	ErrorMessage string
}

// Stage names as they appear in Report.FailedStage.
const (
	StageFetch     = "fetch"
	StageExtract   = "extract"
	StageAnalyze   = "analyze"
	StageSummarize = "summarize"
	StageNotify    = "notify"
)

// Report is the end-to-end result of a pipeline run. On failure it
// keeps every field collected before the failing stage.
type Report struct {
	URL          string
	Title        string
	Summary      string
	Keywords     []Keyword
	Entities     []string
	TotalTokens  int
	Success      bool
	FailedStage  string
	ErrorMessage string
}
