// Package tools exposes the speclens query operations as MCP tools.
//
// Each tool is a thin adapter: it reads its arguments from the MCP
// request, runs the operation through the harness (so every call is
// timed and recorded in the usage log) and renders the result as JSON
// text followed by a token footer.
//
// Design principles:
// - SRP: each file = one tool
// - DIP: tools depend on the Caller interface, not on the harness
// - Caller mistakes (blank id, missing task) become tool errors the AI
//   can read and fix; infrastructure failures are returned as Go errors
package tools

import (
	"context"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/harness"
	"github.com/mark3labs/mcp-go/mcp"
)

// Harness tool names. These are what the usage log records, and they
// differ from the MCP tool names so existing logs stay comparable.
const (
	NameGetAllTasks         = "get_all_tasks"
	NameGetTaskByID         = "get_task_by_id"
	NameGetNextTask         = "get_next_task"
	NameGetDependencies     = "get_dependencies"
	NameConstitutionSummary = "constitution_summary"
	NameConstitutionSearch  = "constitution_search"
	NameGetSection          = "get_section"
	NameDocOutline          = "doc_outline"
)

// Caller runs a named operation through the harness.
type Caller interface {
	Call(ctx context.Context, name string, input any) (*harness.Result, error)
}

// call runs name and converts the outcome into an MCP result.
func call(ctx context.Context, c Caller, name string, input any) (*mcp.CallToolResult, error) {
	res, err := c.Call(ctx, name, input)
	if err != nil {
		if apperr.IsCallerError(err) {
			return mcp.NewToolResultError(err.Error()), nil
		}
		return nil, err
	}
	return mcp.NewToolResultText(res.Text + harness.TokenFooter(res.Tokens)), nil
}

// intArg extracts an integer argument from a tool request.
// JSON numbers arrive as float64.
func intArg(req mcp.CallToolRequest, key string, defaultVal int) int {
	v, ok := req.GetArguments()[key].(float64)
	if !ok {
		return defaultVal
	}
	return int(v)
}

// boolArg extracts a boolean argument from a tool request.
func boolArg(req mcp.CallToolRequest, key string, defaultVal bool) bool {
	v, ok := req.GetArguments()[key].(bool)
	if !ok {
		return defaultVal
	}
	return v
}
