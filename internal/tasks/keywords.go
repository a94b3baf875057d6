package tasks

import (
	"sort"
	"strings"
	"unicode"
)

// maxKeywords is how many salient words a task contributes to
// related-section matching.
const maxKeywords = 5

// stopWords are excluded from keyword extraction. Only words longer
// than three characters survive anyway, so short stop words need no entry.
var stopWords = map[string]bool{
	"the": true, "and": true, "with": true, "from": true, "this": true, "that": true,
}

// ExtractKeywords returns up to five salient words of text: lowercased,
// punctuation stripped, longer than three characters, stop words
// removed, deduplicated, longest first. Ties keep first-seen order.
func ExtractKeywords(text string) []string {
	cleaned := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || unicode.IsSpace(r) {
			return r
		}
		return ' '
	}, strings.ToLower(text))

	seen := make(map[string]bool)
	var words []string
	for _, w := range strings.Fields(cleaned) {
		if len([]rune(w)) <= 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		words = append(words, w)
	}

	sort.SliceStable(words, func(i, j int) bool {
		return len([]rune(words[i])) > len([]rune(words[j]))
	})
	if len(words) > maxKeywords {
		words = words[:maxKeywords]
	}
	return words
}

// containsAny reports whether text contains any keyword, case-insensitively.
// Keywords are expected to be lowercase already.
func containsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}
