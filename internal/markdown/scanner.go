// Package markdown provides the line-level primitives shared by every
// document parser in speclens.
//
// It is deliberately not a markdown implementation: the functions below
// recognise only the conventions the .specify documents follow (ATX
// headings, "- " / "* " list items, bold field labels, backticked paths)
// and operate on one line at a time. All state-machine logic lives in
// the callers.
package markdown

import (
	"strings"
	"unicode/utf8"
)

// Lines splits document text into lines. Both LF and CRLF endings are
// accepted; the trailing '\r' is removed. Lines are otherwise returned
// as written; callers trim as they need.
func Lines(content string) []string {
	if content == "" {
		return nil
	}
	lines := strings.Split(content, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// HeadingLevel returns the ATX heading level of a line ("## Foo" → 2),
// or 0 when the line is not a heading. Leading whitespace is ignored and
// a space must follow the hash run.
func HeadingLevel(line string) int {
	s := strings.TrimLeft(line, " \t")
	n := 0
	for n < len(s) && s[n] == '#' {
		n++
	}
	if n == 0 || n > 6 || n >= len(s) {
		return 0
	}
	if s[n] != ' ' && s[n] != '\t' {
		return 0
	}
	return n
}

// IsHeading reports whether line is a heading of exactly the given level.
func IsHeading(line string, level int) bool {
	return level > 0 && HeadingLevel(line) == level
}

// HeadingText returns the heading text without the hash markers, trimmed.
// Non-heading lines are returned trimmed.
func HeadingText(line string) string {
	s := strings.TrimSpace(line)
	level := HeadingLevel(s)
	if level == 0 {
		return s
	}
	return strings.TrimSpace(s[level:])
}

// ListItem reports whether line is a "- " or "* " list item and returns
// its trimmed text.
func ListItem(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if len(s) < 2 {
		return "", false
	}
	if (s[0] != '-' && s[0] != '*') || (s[1] != ' ' && s[1] != '\t') {
		return "", false
	}
	return strings.TrimSpace(s[2:]), true
}

// BacktickSpan returns the content of the first `...` span in line.
func BacktickSpan(line string) (string, bool) {
	start := strings.IndexByte(line, '`')
	if start < 0 {
		return "", false
	}
	end := strings.IndexByte(line[start+1:], '`')
	if end <= 0 {
		return "", false
	}
	return line[start+1 : start+1+end], true
}

// FileListItem recognises a list item whose text opens with a backticked
// path, e.g. "- `internal/app/main.go` (new)", and returns the path.
func FileListItem(line string) (string, bool) {
	s := strings.TrimSpace(line)
	if !strings.HasPrefix(s, "- `") {
		return "", false
	}
	return BacktickSpan(s)
}

// LabeledField recognises a field label at the start of a trimmed line,
// in either the bold form "**Label:** value" or the plain form
// "Label: value". Bold labels match case-insensitively; plain labels
// must match exactly, so prose such as "files: see below" stays text.
// It returns the trimmed remainder of the line.
func LabeledField(line, label string) (string, bool) {
	s := strings.TrimSpace(line)
	for _, prefix := range []string{"**" + label + ":**", "**" + label + "**:"} {
		if len(s) >= len(prefix) && strings.EqualFold(s[:len(prefix)], prefix) {
			return strings.TrimSpace(s[len(prefix):]), true
		}
	}
	if rest, ok := strings.CutPrefix(s, label+":"); ok {
		return strings.TrimSpace(rest), true
	}
	return "", false
}

// IsBoldLabel reports whether a trimmed line starts with a bold marker,
// which the documents use exclusively for field labels.
func IsBoldLabel(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "**")
}

// Truncate cuts s to at most limit characters and appends "..." when
// anything was removed. Counting is by rune so multi-byte text is never
// split inside a character.
func Truncate(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:limit]) + "..."
}

// Clip cuts s so that the result, ellipsis included, is at most limit
// characters. Unlike Truncate the marker counts against the budget.
func Clip(s string, limit int) string {
	if limit < 0 || utf8.RuneCountInString(s) <= limit {
		return s
	}
	r := []rune(s)
	if limit < 3 {
		return string(r[:limit])
	}
	return string(r[:limit-3]) + "..."
}
