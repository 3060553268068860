package analyzer

import (
	"fmt"
	"regexp"

	"github.com/go-ego/gse"

	"NewsDigest/internal/ports"
)

// tokenExpr extracts maximal runs of CJK ideographs, Latin letters,
// and digits as separate tokens.
var tokenExpr = regexp.MustCompile(`[\x{4e00}-\x{9fff}]+|[a-zA-Z]+|\d+`)

// RegexTokenizer is the dependency-free fallback tokenizer. It cannot
// split inside a contiguous ideograph run, which is the accepted
// degradation when no dictionary segmenter is configured.
type RegexTokenizer struct{}

var _ ports.Tokenizer = RegexTokenizer{}

// Tokenize extracts heuristic tokens from text.
func (RegexTokenizer) Tokenize(text string) []string {
	return tokenExpr.FindAllString(text, -1)
}

// DictionaryTokenizer segments text with the gse dictionary segmenter,
// giving word-level splits inside CJK runs.
type DictionaryTokenizer struct {
	segmenter gse.Segmenter
}

var _ ports.Tokenizer = (*DictionaryTokenizer)(nil)

// NewDictionaryTokenizer loads the embedded default dictionaries. The
// caller falls back to RegexTokenizer when loading fails.
func NewDictionaryTokenizer() (*DictionaryTokenizer, error) {
	var seg gse.Segmenter
	if err := seg.LoadDict(); err != nil {
		return nil, fmt.Errorf("load segmenter dictionary: %w", err)
	}
	return &DictionaryTokenizer{segmenter: seg}, nil
}

// Tokenize cuts text into dictionary words.
func (t *DictionaryTokenizer) Tokenize(text string) []string {
	return t.segmenter.Cut(text, true)
}
