package tools

import (
	"context"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// TasksGetTool handles the tasks_get MCP tool.
type TasksGetTool struct {
	caller Caller
}

// NewTasksGetTool creates a TasksGetTool.
func NewTasksGetTool(c Caller) *TasksGetTool {
	return &TasksGetTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksGetTool) Definition() mcp.Tool {
	return mcp.NewTool("tasks_get",
		mcp.WithDescription(
			"Get one task by id. With include_context=true the response also carries up to 3 "+
				"related sections from spec.md and plan.md and up to 5 acceptance criteria, "+
				"so the task can be implemented without reading the full documents.",
		),
		mcp.WithString("task_id",
			mcp.Required(),
			mcp.Description("Dotted task id as written in tasks.md, e.g. '3' or '2.1'"),
		),
		mcp.WithBoolean("include_context",
			mcp.Description("Attach related spec/plan sections and acceptance criteria (default: false)"),
		),
	)
}

// Handle processes the tasks_get tool call.
func (t *TasksGetTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id := strings.TrimSpace(req.GetString("task_id", ""))
	if id == "" {
		return mcp.NewToolResultError("'task_id' is required"), nil
	}
	return call(ctx, t.caller, NameGetTaskByID, TaskInput{
		TaskID:         id,
		IncludeContext: boolArg(req, "include_context", false),
	})
}
