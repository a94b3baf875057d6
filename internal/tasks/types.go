// Package tasks parses a tasks.md document into Task records and answers
// queries over them: lookup by id, dependency resolution, next pending
// task, phase filtering, and best-effort context enrichment from the
// sibling spec.md and plan.md documents.
//
// Nothing is persisted. Every query re-parses the document, which is
// cheap because reads go through the docs cache.
package tasks

import "strings"

// Status is the progress state of a task. The zero value means the
// document did not say, which queries treat as pending.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
)

// ParseStatus normalises a status label value. Unknown values yield
// the zero Status and false.
func ParseStatus(s string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pending", "todo":
		return StatusPending, true
	case "in-progress", "in_progress", "in progress":
		return StatusInProgress, true
	case "completed", "done":
		return StatusCompleted, true
	default:
		return "", false
	}
}

// IsPending reports whether the status is absent or pending.
func (s Status) IsPending() bool {
	return s == "" || s == StatusPending
}

// Task is one "### Task <id>: <title>" block of the tasks document.
type Task struct {
	ID             string   `json:"id"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	Phase          string   `json:"phase,omitempty"`
	Dependencies   []string `json:"dependencies"`
	Files          []string `json:"files"`
	Status         Status   `json:"status,omitempty"`
	ParallelMarker bool     `json:"parallelMarker"`
}

// TaskWithContext is a Task plus derived, read-only context pulled from
// the sibling documents. The context slices are nil unless context was
// requested, and non-nil (possibly empty) when it was; callers that did
// not ask for context should serialise the embedded Task alone.
type TaskWithContext struct {
	Task
	RelatedSpecSections []string `json:"relatedSpecSections"`
	RelatedPlanSections []string `json:"relatedPlanSections"`
	AcceptanceCriteria  []string `json:"acceptanceCriteria"`

	// Warnings explains why any part of the enrichment came back empty.
	Warnings []string `json:"warnings,omitempty"`
}

// DocKind names one of the sibling documents a task can draw context from.
type DocKind string

const (
	DocSpec DocKind = "spec"
	DocPlan DocKind = "plan"
)
