// Package prompts implements MCP prompt handlers for speclens.
//
// MCP prompts are user-triggered workflows (like slash commands) that
// instruct the AI to execute a specific sequence. Unlike tools (which
// the AI calls), prompts are initiated by the user.
package prompts

import (
	"context"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// NextTaskPrompt handles the implement-next-task MCP prompt.
// It walks the AI from "what's next" to a context-complete task without
// reading whole documents.
type NextTaskPrompt struct{}

// NewNextTaskPrompt creates a NextTaskPrompt.
func NewNextTaskPrompt() *NextTaskPrompt {
	return &NextTaskPrompt{}
}

// Definition returns the MCP prompt definition for registration.
func (p *NextTaskPrompt) Definition() mcp.Prompt {
	return mcp.NewPrompt("implement-next-task",
		mcp.WithPromptDescription(
			"Pick up the next pending task from tasks.md and gather just enough context "+
				"(related spec/plan sections, acceptance criteria, relevant constitution rules) to implement it.",
		),
		mcp.WithArgument("task_id",
			mcp.ArgumentDescription("Implement this task instead of the next pending one"),
		),
		mcp.WithArgument("focus",
			mcp.ArgumentDescription("Constitution topic to check the work against, e.g. 'testing'. Default: testing"),
		),
	)
}

// Handle processes the implement-next-task prompt request.
func (p *NextTaskPrompt) Handle(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	taskID := strings.TrimSpace(req.Params.Arguments["task_id"])
	focus := strings.TrimSpace(req.Params.Arguments["focus"])
	if focus == "" {
		focus = "testing"
	}

	var steps strings.Builder
	if taskID == "" {
		steps.WriteString("1. Run `tasks_next` to find the next pending task. If it returns null, tell me everything is done and stop.\n")
		steps.WriteString("2. Run `tasks_get` with that task's id and include_context=true\n")
	} else {
		steps.WriteString(fmt.Sprintf("1. Run `tasks_get` with task_id='%s' and include_context=true\n", taskID))
		steps.WriteString(fmt.Sprintf("2. Run `tasks_dependencies` with task_id='%s' and confirm each dependency is completed\n", taskID))
	}
	steps.WriteString(fmt.Sprintf("3. Run `constitution_search` with query='%s' and follow what it says\n", focus))
	steps.WriteString("4. If a related section was cut off (ends in '...'), fetch it whole with `docs_section`\n")
	steps.WriteString("5. Implement the task, touching only the files it lists unless you explain why\n")
	steps.WriteString("6. Check the result against every acceptance criterion and report which ones pass")

	description := "Implement the next pending task"
	if taskID != "" {
		description = fmt.Sprintf("Implement task %s", taskID)
	}

	return &mcp.GetPromptResult{
		Description: description,
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.NewTextContent(
					"I want to work through my task list without loading whole documents into context.\n\n" +
						"Please:\n" + steps.String(),
				),
			},
		},
	}, nil
}
