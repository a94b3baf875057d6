package constitution

import (
	"sort"
	"strings"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/markdown"
)

// DefaultMaxResults caps search results when the caller gives no positive
// maximum.
const DefaultMaxResults = 3

// Relevance weights. A section matching in both title and content
// scores 1.0.
const (
	titleWeight   = 0.7
	contentWeight = 0.3
)

// Section is one "## " section of the constitution.
type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`

	// Relevance is set only on search results.
	Relevance *float64 `json:"relevance,omitempty"`
}

// SearchResult holds the ranked matches. TotalFound counts the returned
// sections, not every section that matched before the cap.
type SearchResult struct {
	Sections   []Section `json:"sections"`
	TotalFound int       `json:"totalFound"`
}

// ParseSections splits the constitution on "## " headings. Sections whose
// heading is directly followed by the next heading carry no content and
// are dropped.
func ParseSections(content string) []Section {
	var out []Section
	for _, s := range markdown.Sections(content, 2) {
		if s.Empty() {
			continue
		}
		out = append(out, Section{Title: s.Title, Content: s.Body})
	}
	return out
}

// Search ranks the constitution's sections against query by
// case-insensitive substring containment. Ties keep document order.
func Search(content, query string, maxResults int) (SearchResult, error) {
	q, err := normalizeQuery(query)
	if err != nil {
		return SearchResult{}, err
	}
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	matched := []Section{}
	for _, s := range ParseSections(content) {
		score := 0.0
		if strings.Contains(strings.ToLower(s.Title), q) {
			score += titleWeight
		}
		if strings.Contains(strings.ToLower(s.Content), q) {
			score += contentWeight
		}
		if score == 0 {
			continue
		}
		relevance := score
		s.Relevance = &relevance
		matched = append(matched, s)
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return *matched[i].Relevance > *matched[j].Relevance
	})
	if len(matched) > maxResults {
		matched = matched[:maxResults]
	}

	return SearchResult{Sections: matched, TotalFound: len(matched)}, nil
}

// normalizeQuery lowercases and trims query, rejecting blank input.
func normalizeQuery(query string) (string, error) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return "", apperr.Validation("query is required for constitution search")
	}
	return q, nil
}
