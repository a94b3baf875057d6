package markdown

import (
	"bytes"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/text"
)

// Heading is one entry of a document outline.
type Heading struct {
	Level int    `json:"level"`
	Text  string `json:"text"`
	Line  int    `json:"line"`
}

var (
	outlineParser     goldmark.Markdown
	outlineParserOnce sync.Once
)

func getOutlineParser() goldmark.Markdown {
	outlineParserOnce.Do(func() {
		outlineParser = goldmark.New(goldmark.WithExtensions(extension.GFM))
	})
	return outlineParser
}

// Outline returns every heading of the document in order, with 1-based
// source line numbers. Unlike the line scanner it uses a real markdown
// parser, so headings inside fenced code blocks are not reported.
func Outline(source []byte) []Heading {
	if len(source) == 0 {
		return nil
	}
	doc := getOutlineParser().Parser().Parse(text.NewReader(source))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}
		lines := h.Lines()
		if lines.Len() == 0 {
			return ast.WalkSkipChildren, nil
		}
		var sb strings.Builder
		for i := 0; i < lines.Len(); i++ {
			seg := lines.At(i)
			if i > 0 {
				sb.WriteByte(' ')
			}
			sb.Write(bytes.TrimSpace(seg.Value(source)))
		}
		first := lines.At(0)
		headings = append(headings, Heading{
			Level: h.Level,
			Text:  sb.String(),
			Line:  bytes.Count(source[:first.Start], []byte{'\n'}) + 1,
		})
		return ast.WalkSkipChildren, nil
	})

	return headings
}
