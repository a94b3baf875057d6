package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// TasksDependenciesTool handles the tasks_dependencies MCP tool.
type TasksDependenciesTool struct {
	caller Caller
}

// NewTasksDependenciesTool creates a TasksDependenciesTool.
func NewTasksDependenciesTool(c Caller) *TasksDependenciesTool {
	return &TasksDependenciesTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksDependenciesTool) Definition() mcp.Tool {
	return mcp.NewTool("tasks_dependencies",
		mcp.WithDescription(
			"Resolve a task's declared dependencies to full task records, in declared order. "+
				"Dependency ids that match no task are skipped.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Dotted task id whose dependencies to resolve"),
		),
	)
}

// Handle processes the tasks_dependencies tool call.
func (t *TasksDependenciesTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("task_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	return call(ctx, t.caller, NameGetDependencies, TaskInput{TaskID: id})
}
