package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// ConstitutionSearchTool handles the constitution_search MCP tool.
type ConstitutionSearchTool struct {
	caller Caller
}

// NewConstitutionSearchTool creates a ConstitutionSearchTool.
func NewConstitutionSearchTool(c Caller) *ConstitutionSearchTool {
	return &ConstitutionSearchTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *ConstitutionSearchTool) Definition() mcp.Tool {
	return mcp.NewTool("constitution_search",
		mcp.WithDescription(
			"Find the constitution sections relevant to a topic. Sections whose title contains "+
				"the query rank above sections that only mention it in their body.",
		),
		mcp.WithString("query",
			mcp.Required(),
			mcp.Description("Case-insensitive text to look for, e.g. 'testing' or 'error handling'"),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum sections to return (default: 3)"),
		),
	)
}

// Handle processes the constitution_search tool call.
func (t *ConstitutionSearchTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	query := strings.TrimSpace(req.GetString("query", ""))
	if query == "" {
		return mcp.NewToolResultError("'query' is required"), nil
	}
	return call(ctx, t.caller, NameConstitutionSearch, SearchInput{
		Query:      query,
		MaxResults: intArg(req, "max_results", 0),
	})
}
