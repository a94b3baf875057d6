package tools

// Harness input shapes. The MCP adapters and the CLI build these; the
// handlers registered on the harness decode them.

// PhaseInput filters the task list.
type PhaseInput struct {
	Phase string `json:"phase,omitempty"`
}

// TaskInput identifies one task.
type TaskInput struct {
	TaskID         string `json:"taskId"`
	IncludeContext bool   `json:"includeContext,omitempty"`
}

// SummaryInput bounds the constitution digest.
type SummaryInput struct {
	MaxLength int `json:"maxLength,omitempty"`
}

// SearchInput queries the constitution.
type SearchInput struct {
	Query      string `json:"query"`
	MaxResults int    `json:"maxResults,omitempty"`
}

// SectionInput fetches one section of the spec or plan document.
type SectionInput struct {
	Doc   string `json:"doc"`
	Title string `json:"title"`
}

// OutlineInput names the document to outline.
type OutlineInput struct {
	Doc string `json:"doc"`
}
