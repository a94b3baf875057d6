package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TasksNextTool handles the tasks_next MCP tool.
type TasksNextTool struct {
	caller Caller
}

// NewTasksNextTool creates a TasksNextTool.
func NewTasksNextTool(c Caller) *TasksNextTool {
	return &TasksNextTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksNextTool) Definition() mcp.Tool {
	return mcp.NewTool("tasks_next",
		mcp.WithDescription(
			"Get the first task, in document order, whose status is pending or unset. "+
				"Returns null when every task is in progress or completed.",
		),
	)
}

// Handle processes the tasks_next tool call.
func (t *TasksNextTool) Handle(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, t.caller, NameGetNextTask, nil)
}
