package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// DocsSectionTool handles the docs_section MCP tool.
type DocsSectionTool struct {
	caller Caller
}

// NewDocsSectionTool creates a DocsSectionTool.
func NewDocsSectionTool(c Caller) *DocsSectionTool {
	return &DocsSectionTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *DocsSectionTool) Definition() mcp.Tool {
	return mcp.NewTool("docs_section",
		mcp.WithDescription(
			"Fetch one '## ' section of spec.md or plan.md by (partial) title, truncated to the "+
				"section budget. Use docs_outline first to see which sections exist.",
		),
		mcp.WithString("doc",
			mcp.Required(),
			mcp.Description("Which document to read"),
			mcp.Enum("spec", "plan"),
		),
		mcp.WithString("title",
			mcp.Required(),
			mcp.Description("Case-insensitive substring of the section title"),
		),
	)
}

// Handle processes the docs_section tool call.
func (t *DocsSectionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := strings.TrimSpace(req.GetString("doc", ""))
	title := strings.TrimSpace(req.GetString("title", ""))
	if doc == "" {
		return mcp.NewToolResultError("'doc' is required (spec or plan)"), nil
	}
	if title == "" {
		return mcp.NewToolResultError("'title' is required"), nil
	}
	return call(ctx, t.caller, NameGetSection, SectionInput{Doc: doc, Title: title})
}
