package analyzer

import "regexp"

const maxEntities = 10

// Entity pattern classes, applied in fixed priority order: Latin
// capitalized multi-word names, CJK company names by organization
// suffix, CJK personal names by honorific suffix.
var entityPatterns = []*regexp.Regexp{
	regexp.MustCompile(`[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+`),
	regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,4}(?:公司|集團|銀行|企業)`),
	regexp.MustCompile(`[\x{4e00}-\x{9fff}]{2,3}(?:先生|女士|總裁|董事)`),
}

// extractEntities pools matches from all pattern classes, deduplicates
// keeping the first occurrence in pattern-then-match order, and caps
// the result. Text with no matches yields an empty slice.
func extractEntities(text string) []string {
	seen := map[string]struct{}{}
	var entities []string

	for _, pattern := range entityPatterns {
		for _, match := range pattern.FindAllString(text, -1) {
			if _, dup := seen[match]; dup {
				continue
			}
			seen[match] = struct{}{}
			entities = append(entities, match)
			if len(entities) == maxEntities {
				return entities
			}
		}
	}

	return entities
}
