// Package constitution reads the project's policy document: it condenses
// the bullet lists under known headings into a bounded digest, and ranks
// the document's sections against a free-text query.
package constitution

import (
	"strings"

	"github.com/HendryAvila/speclens/internal/markdown"
)

// DefaultSummaryLength caps the rendered digest when the caller gives no
// positive maximum.
const DefaultSummaryLength = 500

const (
	maxPrinciples = 5
	maxGuidelines = 3
)

// Summary is the condensed view of the constitution.
type Summary struct {
	CoreValues          []string `json:"coreValues"`
	KeyPrinciples       []string `json:"keyPrinciples"`
	TechnicalGuidelines []string `json:"technicalGuidelines"`

	// Summary is the rendered markdown digest. When clipped it ends in
	// "..." and may not be well-formed markdown.
	Summary string `json:"summary"`
}

// category is where a bullet under a given heading belongs.
type category int

const (
	categoryNone category = iota
	categoryCoreValue
	categoryPrinciple
	categoryGuideline
)

// categorize matches the lowercased heading text against each category's
// keywords, first match wins.
func categorize(heading string) category {
	h := strings.ToLower(heading)
	switch {
	case strings.Contains(h, "core"), strings.Contains(h, "value"):
		return categoryCoreValue
	case strings.Contains(h, "principle"):
		return categoryPrinciple
	case strings.Contains(h, "technical"), strings.Contains(h, "guideline"):
		return categoryGuideline
	default:
		return categoryNone
	}
}

// Summarize extracts bullet labels from the constitution and renders them
// as a digest of at most maxLength characters. maxLength <= 0 means
// DefaultSummaryLength.
func Summarize(content string, maxLength int) Summary {
	if maxLength <= 0 {
		maxLength = DefaultSummaryLength
	}

	s := Summary{
		CoreValues:          []string{},
		KeyPrinciples:       []string{},
		TechnicalGuidelines: []string{},
	}

	current := categoryNone
	for _, raw := range markdown.Lines(content) {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if markdown.IsHeading(line, 2) {
			current = categorize(markdown.HeadingText(line))
			continue
		}
		item, ok := markdown.ListItem(line)
		if !ok {
			continue
		}
		// Keep the label, drop any ": explanation".
		if i := strings.IndexByte(item, ':'); i >= 0 {
			item = item[:i]
		}
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		switch current {
		case categoryCoreValue:
			s.CoreValues = append(s.CoreValues, item)
		case categoryPrinciple:
			s.KeyPrinciples = append(s.KeyPrinciples, item)
		case categoryGuideline:
			s.TechnicalGuidelines = append(s.TechnicalGuidelines, item)
		}
	}

	if len(s.KeyPrinciples) > maxPrinciples {
		s.KeyPrinciples = s.KeyPrinciples[:maxPrinciples]
	}
	if len(s.TechnicalGuidelines) > maxGuidelines {
		s.TechnicalGuidelines = s.TechnicalGuidelines[:maxGuidelines]
	}

	s.Summary = markdown.Clip(render(s), maxLength)
	return s
}

func render(s Summary) string {
	var b strings.Builder
	b.WriteString("# Constitution Summary\n\n## Core Values\n")
	writeBullets(&b, s.CoreValues)
	b.WriteString("\n## Key Principles\n")
	writeBullets(&b, s.KeyPrinciples)
	b.WriteString("\n## Technical Guidelines")
	for _, item := range s.TechnicalGuidelines {
		b.WriteString("\n- ")
		b.WriteString(item)
	}
	return b.String()
}

func writeBullets(b *strings.Builder, items []string) {
	for _, item := range items {
		b.WriteString("- ")
		b.WriteString(item)
		b.WriteByte('\n')
	}
}
