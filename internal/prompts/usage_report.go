package prompts

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// UsageReportPrompt handles the usage-report MCP prompt.
// It instructs the AI to read and interpret the usage statistics.
type UsageReportPrompt struct{}

// NewUsageReportPrompt creates a UsageReportPrompt.
func NewUsageReportPrompt() *UsageReportPrompt {
	return &UsageReportPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *UsageReportPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("usage-report",
		mcp.WithPromptDescription(
			"Show which speclens tools this project calls most and what they cost in tokens.",
		),
	)
}

// Handle processes the usage-report prompt request.
func (p *UsageReportPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	return &mcp.GetPromptResult{
		Description: "speclens usage report",
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"Please run `usage_stats`.\n\n" +
						"Then:\n" +
						"1. Show me the per-tool calls and tokens as a table\n" +
						"2. Point out the most expensive tool and any tool with errors\n" +
						"3. Suggest cheaper calls where they exist (e.g. `docs_outline` + `docs_section` instead of full context)",
				),
			},
		},
	}, nil
}
