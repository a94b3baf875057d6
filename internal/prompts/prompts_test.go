package prompts

import (
	"context"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
)

func promptText(t *testing.T, res *mcp.GetPromptResult) string {
	t.Helper()
	if len(res.Messages) != 1 {
		t.Fatalf("got %d messages, want 1", len(res.Messages))
	}
	text, ok := res.Messages[0].Content.(mcp.TextContent)
	if !ok {
		t.Fatalf("content is %T, want mcp.TextContent", res.Messages[0].Content)
	}
	return text.Text
}

func TestNextTaskPrompt_Default(t *testing.T) {
	p := NewNextTaskPrompt()
	if p.Definition().Name != "implement-next-task" {
		t.Errorf("Name = %s, want implement-next-task", p.Definition().Name)
	}

	res, err := p.Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, res)
	for _, want := range []string{"tasks_next", "tasks_get", "include_context=true", "query='testing'"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt should mention %q:\n%s", want, text)
		}
	}
}

func TestNextTaskPrompt_WithTaskID(t *testing.T) {
	req := mcp.GetPromptRequest{}
	req.Params.Arguments = map[string]string{"task_id": "2.1", "focus": "security"}

	res, err := NewNextTaskPrompt().Handle(context.Background(), req)
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	text := promptText(t, res)
	if strings.Contains(text, "tasks_next") {
		t.Error("explicit task id should skip tasks_next")
	}
	for _, want := range []string{"task_id='2.1'", "tasks_dependencies", "query='security'"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt should mention %q:\n%s", want, text)
		}
	}
	if res.Description != "Implement task 2.1" {
		t.Errorf("Description = %s", res.Description)
	}
}

func TestUsageReportPrompt(t *testing.T) {
	res, err := NewUsageReportPrompt().Handle(context.Background(), mcp.GetPromptRequest{})
	if err != nil {
		t.Fatalf("Handle: %v", err)
	}
	if !strings.Contains(promptText(t, res), "usage_stats") {
		t.Error("prompt should call usage_stats")
	}
}
