package extractor

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"

	"NewsDigest/internal/domain"
	"NewsDigest/internal/ports"
)

const defaultMinParagraphLength = 20

// Structural tags that never carry article prose.
var removeTags = []string{
	"script", "style", "nav", "header", "footer",
	"aside", "iframe", "noscript", "advertisement",
}

// Class substrings that mark noise regions regardless of tag name.
var noiseClasses = []string{
	"ad", "ads", "advertisement", "sidebar", "menu",
	"navigation", "footer", "header", "social", "share",
}

var (
	whitespaceExpr = regexp.MustCompile(`\s+`)
	controlExpr    = regexp.MustCompile(`[\x{0000}-\x{001f}\x{007f}-\x{009f}]`)
)

// Extractor turns raw HTML into a title and ordered body paragraphs.
type Extractor struct {
	minParagraphLength int
}

var _ ports.Extractor = (*Extractor)(nil)

// New builds an extractor; minParagraphLength <= 0 selects the default
// of 20, which discards caption and label fragments.
func New(minParagraphLength int) *Extractor {
	if minParagraphLength <= 0 {
		minParagraphLength = defaultMinParagraphLength
	}
	return &Extractor{minParagraphLength: minParagraphLength}
}

// Extract parses the markup, removes denylisted subtrees, and collects
// the title and paragraphs in source order.
func (e *Extractor) Extract(rawMarkup string) (domain.ExtractedContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(rawMarkup))
	if err != nil {
		return domain.ExtractedContent{}, fmt.Errorf("parse markup: %w", err)
	}

	doc.Find(strings.Join(removeTags, ", ")).Remove()

	doc.Find("[class]").Each(func(_ int, sel *goquery.Selection) {
		class, _ := sel.Attr("class")
		lower := strings.ToLower(class)
		for _, noise := range noiseClasses {
			if strings.Contains(lower, noise) {
				sel.Remove()
				return
			}
		}
	})

	title := strings.TrimSpace(doc.Find("h1").First().Text())
	if title == "" {
		title = strings.TrimSpace(doc.Find("title").First().Text())
	}

	var paragraphs []string
	doc.Find("p, article").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if utf8.RuneCountInString(text) >= e.minParagraphLength {
			paragraphs = append(paragraphs, text)
		}
	})

	body := strings.Join(paragraphs, "\n\n")

	return domain.ExtractedContent{
		Title:      title,
		Body:       body,
		Paragraphs: paragraphs,
		BodyLength: utf8.RuneCountInString(body),
	}, nil
}

// CleanText collapses whitespace runs to a single space and strips
// non-printable control characters. It has no structural awareness and
// is usable standalone on any text.
func CleanText(text string) string {
	text = whitespaceExpr.ReplaceAllString(text, " ")
	text = controlExpr.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
