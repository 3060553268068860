// Package analyzer ranks keywords by frequency and extracts named
// entities with regex heuristics. It supports Chinese, Japanese, and
// English text and never fails: empty input degrades to empty results.
package analyzer

import (
	"sort"
	"strings"
	"unicode/utf8"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const (
	defaultTopN           = 20
	defaultMinTokenLength = 2
)

// Options configures an Analyzer. Zero values select the defaults; a
// nil Tokenizer selects the regex fallback.
type Options struct {
	TopN           int
	MinTokenLength int
	Tokenizer      ports.Tokenizer
}

// Analyzer computes keyword frequencies and heuristic entities.
type Analyzer struct {
	topN           int
	minTokenLength int
	tokenizer      ports.Tokenizer
}

var _ ports.Analyzer = (*Analyzer)(nil)

// New builds an analyzer from options.
func New(opts Options) *Analyzer {
	if opts.TopN <= 0 {
		opts.TopN = defaultTopN
	}
	if opts.MinTokenLength <= 0 {
		opts.MinTokenLength = defaultMinTokenLength
	}
	if opts.Tokenizer == nil {
		opts.Tokenizer = RegexTokenizer{}
	}
	return &Analyzer{
		topN:           opts.TopN,
		minTokenLength: opts.MinTokenLength,
		tokenizer:      opts.Tokenizer,
	}
}

// Analyze tokenizes text, filters stop-words and short tokens, ranks
// the rest by frequency, and extracts entities from the raw text. The
// result is deterministic for identical input.
func (a *Analyzer) Analyze(text string) domain.AnalysisResult {
	tokens := a.filter(a.tokenizer.Tokenize(text))

	counts := make(map[string]int, len(tokens))
	order := make([]string, 0, len(tokens))
	for _, token := range tokens {
		if counts[token] == 0 {
			order = append(order, token)
		}
		counts[token]++
	}

	ranked := make([]domain.Keyword, 0, len(order))
	for _, term := range order {
		ranked = append(ranked, domain.Keyword{Term: term, Count: counts[term]})
	}
	// Ties keep first-seen order; the stable sort makes the ranking
	// reproducible across runs.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > a.topN {
		ranked = ranked[:a.topN]
	}

	return domain.AnalysisResult{
		Keywords:     ranked,
		TotalTokens:  len(tokens),
		UniqueTokens: len(counts),
		Entities:     extractEntities(text),
	}
}

func (a *Analyzer) filter(tokens []string) []string {
	filtered := make([]string, 0, len(tokens))
	for _, token := range tokens {
		lowered := strings.ToLower(strings.TrimSpace(token))
		if utf8.RuneCountInString(lowered) < a.minTokenLength {
			continue
		}
		if isStopWord(lowered) {
			continue
		}
		filtered = append(filtered, lowered)
	}
	return filtered
}
