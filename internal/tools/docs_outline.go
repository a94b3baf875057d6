package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// DocsOutlineTool handles the docs_outline MCP tool.
type DocsOutlineTool struct {
	caller Caller
}

// NewDocsOutlineTool creates a DocsOutlineTool.
func NewDocsOutlineTool(c Caller) *DocsOutlineTool {
	return &DocsOutlineTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *DocsOutlineTool) Definition() mcp.Tool {
	return mcp.NewTool("docs_outline",
		mcp.WithDescription(
			"List the headings of a project document with their level and line number. "+
				"Costs a fraction of reading the document and tells you which section to fetch.",
		),
		mcp.WithString("doc",
			mcp.Required(),
			mcp.Description("Which document to outline"),
			mcp.Enum("tasks", "spec", "plan", "constitution"),
		),
	)
}

// Handle processes the docs_outline tool call.
func (t *DocsOutlineTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	doc := strings.TrimSpace(req.GetString("doc", ""))
	if doc == "" {
		return mcp.NewToolResultError("'doc' is required (tasks, spec, plan or constitution)"), nil
	}
	return call(ctx, t.caller, NameDocOutline, OutlineInput{Doc: doc})
}
