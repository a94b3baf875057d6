package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/HendryAvila/speclens/internal/harness"
	"github.com/HendryAvila/speclens/internal/usage"
	"github.com/mark3labs/mcp-go/mcp"
)

// UsageStatsTool handles the usage_stats MCP tool. It reads the usage
// log directly rather than through the harness, so asking for stats
// does not itself show up in them.
type UsageStatsTool struct {
	log usage.Log
}

// NewUsageStatsTool creates a UsageStatsTool.
func NewUsageStatsTool(log usage.Log) *UsageStatsTool {
	return &UsageStatsTool{log: log}
}

// Definition returns the MCP tool definition for registration.
func (t *UsageStatsTool) Definition() mcp.Tool {
	return mcp.NewTool("usage_stats",
		mcp.WithDescription(
			"Report how many times each speclens tool was called and how many tokens its "+
				"responses cost, replayed from the project's usage log. Tools are sorted by total tokens.",
		),
	)
}

// Handle processes the usage_stats tool call.
func (t *UsageStatsTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	stats, err := usage.Collect(ctx, t.log)
	if err != nil {
		return nil, fmt.Errorf("collecting usage stats: %w", err)
	}
	data, err := json.MarshalIndent(stats, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encoding usage stats: %w", err)
	}
	text := string(data)
	return mcp.NewToolResultText(text + harness.TokenFooter(harness.EstimateTokens(text))), nil
}
