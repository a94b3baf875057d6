package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// ConstitutionSummaryTool handles the constitution_summary MCP tool.
type ConstitutionSummaryTool struct {
	caller Caller
}

// NewConstitutionSummaryTool creates a ConstitutionSummaryTool.
func NewConstitutionSummaryTool(c Caller) *ConstitutionSummaryTool {
	return &ConstitutionSummaryTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *ConstitutionSummaryTool) Definition() mcp.Tool {
	return mcp.NewTool("constitution_summary",
		mcp.WithDescription(
			"Condense the project constitution into its core values, up to 5 key principles "+
				"and up to 3 technical guidelines, plus a markdown digest capped at max_length characters. "+
				"Read this instead of the full constitution before starting work.",
		),
		mcp.WithNumber("max_length",
			mcp.Description("Maximum digest length in characters (default: 500)"),
		),
	)
}

// Handle processes the constitution_summary tool call.
func (t *ConstitutionSummaryTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, t.caller, NameConstitutionSummary, SummaryInput{MaxLength: intArg(req, "max_length", 0)})
}
