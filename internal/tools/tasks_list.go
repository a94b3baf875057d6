package tools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// TasksListTool handles the tasks_list MCP tool.
type TasksListTool struct {
	caller Caller
}

// NewTasksListTool creates a TasksListTool.
func NewTasksListTool(c Caller) *TasksListTool {
	return &TasksListTool{caller: c}
}

// Definition returns the MCP tool definition for registration.
func (t *TasksListTool) Definition() mcp.Tool {
	return mcp.NewTool("tasks_list",
		mcp.WithDescription(
			"List every task in the project's tasks.md with id, title, description, phase, "+
				"dependencies, files, status and parallel marker. "+
				"Use the phase filter to keep the response small.",
		),
		mcp.WithString("phase",
			mcp.Description("Case-insensitive substring of the phase heading, e.g. 'phase 2' or 'setup'. "+
				"Omit to list all tasks. A filter that matches nothing returns an empty list."),
		),
	)
}

// Handle processes the tasks_list tool call.
func (t *TasksListTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return call(ctx, t.caller, NameGetAllTasks, PhaseInput{Phase: req.GetString("phase", "")})
}
