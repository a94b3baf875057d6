package markdown

import "strings"

// Section is one heading and the lines that follow it up to the next
// heading of the same level.
type Section struct {
	// Title is the heading text without markers.
	Title string
	// Heading is the heading line as written, trimmed.
	Heading string
	// Body is everything after the heading, joined with newlines and trimmed.
	Body string

	lines int
}

// Text returns the heading line followed by the body.
func (s Section) Text() string {
	if s.Body == "" {
		return s.Heading
	}
	return s.Heading + "\n" + s.Body
}

// Empty reports whether the heading was immediately followed by another
// heading of the same level (or the end of input) with no lines between.
// A heading followed only by blank lines is not empty.
func (s Section) Empty() bool {
	return s.lines == 0
}

// Sections splits content on headings of the given level. Content that
// appears before the first such heading is discarded. Headings of other
// levels are part of the enclosing section's body.
func Sections(content string, level int) []Section {
	var (
		sections []Section
		current  *Section
		body     []string
	)

	flush := func() {
		if current == nil {
			return
		}
		current.Body = strings.TrimSpace(strings.Join(body, "\n"))
		current.lines = len(body)
		sections = append(sections, *current)
	}

	for _, raw := range Lines(content) {
		line := strings.TrimRight(raw, " \t")
		if IsHeading(line, level) {
			flush()
			current = &Section{
				Title:   HeadingText(line),
				Heading: strings.TrimSpace(line),
			}
			body = nil
			continue
		}
		if current != nil {
			body = append(body, line)
		}
	}
	flush()

	return sections
}

// FindSection returns the first section of the given level whose title
// contains needle, compared case-insensitively.
func FindSection(content string, level int, needle string) (Section, bool) {
	needle = strings.ToLower(strings.TrimSpace(needle))
	for _, s := range Sections(content, level) {
		if strings.Contains(strings.ToLower(s.Title), needle) {
			return s, true
		}
	}
	return Section{}, false
}
