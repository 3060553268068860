package analyzer

// stopWords is the fixed multilingual stop-word table (Chinese,
// Japanese, English function words and pronouns). Static resource,
// checked against the lower-cased token.
var stopWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		// Chinese
		"的", "了", "是", "在", "我", "有", "和", "就", "不", "人", "都", "一", "一個",
		"上", "也", "很", "到", "說", "要", "去", "你", "會", "著", "沒有", "看", "好",
		"這", "那", "對", "能", "她", "他", "它", "們", "為", "與", "等", "被", "讓",
		// Japanese
		"の", "に", "は", "を", "た", "が", "で", "て", "と", "し", "れ", "さ", "ある",
		"いる", "も", "する", "から", "な", "こと", "として", "い", "や", "など",
		// English
		"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "must", "shall", "can", "need", "dare",
		"to", "of", "in", "for", "on", "with", "at", "by", "from", "as",
		"into", "through", "during", "before", "after", "above", "below",
		"and", "but", "or", "nor", "so", "yet", "both", "either", "neither",
		"this", "that", "these", "those", "i", "you", "he", "she", "it", "we", "they",
	} {
		stopWords[w] = struct{}{}
	}
}

func isStopWord(token string) bool {
	_, ok := stopWords[token]
	return ok
}
