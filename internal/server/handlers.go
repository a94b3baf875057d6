package server

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/harness"
	"github.com/HendryAvila/speclens/internal/markdown"
	"github.com/HendryAvila/speclens/internal/tasks"
	"github.com/HendryAvila/speclens/internal/tools"
)

// Outline is the result of the doc_outline operation.
type Outline struct {
	Document string             `json:"document"`
	Path     string             `json:"path"`
	Headings []markdown.Heading `json:"headings"`
}

// registerHandlers binds every query operation to its harness name.
func registerHandlers(e *Env) {
	h := e.Harness

	h.Register(tools.NameGetAllTasks, harness.Typed(func(ctx context.Context, in tools.PhaseInput) (any, error) {
		return e.Tasks.All(ctx, in.Phase)
	}))

	h.Register(tools.NameGetTaskByID, harness.Typed(func(ctx context.Context, in tools.TaskInput) (any, error) {
		task, err := e.Tasks.ByID(ctx, in.TaskID, in.IncludeContext)
		if err != nil {
			return nil, err
		}
		if !in.IncludeContext {
			return task.Task, nil
		}
		return task, nil
	}))

	h.Register(tools.NameGetNextTask, harness.Typed(func(ctx context.Context, _ struct{}) (any, error) {
		return e.Tasks.Next(ctx)
	}))

	h.Register(tools.NameGetDependencies, harness.Typed(func(ctx context.Context, in tools.TaskInput) (any, error) {
		return e.Tasks.Dependencies(ctx, in.TaskID)
	}))

	h.Register(tools.NameConstitutionSummary, harness.Typed(func(ctx context.Context, in tools.SummaryInput) (any, error) {
		return e.Constitution.Summary(ctx, in.MaxLength)
	}))

	h.Register(tools.NameConstitutionSearch, harness.Typed(func(ctx context.Context, in tools.SearchInput) (any, error) {
		return e.Constitution.Search(ctx, in.Query, in.MaxResults)
	}))

	h.Register(tools.NameGetSection, harness.Typed(func(ctx context.Context, in tools.SectionInput) (any, error) {
		return e.Tasks.Section(ctx, tasks.DocKind(strings.ToLower(strings.TrimSpace(in.Doc))), in.Title)
	}))

	h.Register(tools.NameDocOutline, harness.Typed(func(ctx context.Context, in tools.OutlineInput) (any, error) {
		return e.outline(ctx, strings.ToLower(strings.TrimSpace(in.Doc)))
	}))
}

// outline lists the headings of one project document.
func (e *Env) outline(ctx context.Context, doc string) (*Outline, error) {
	var path string
	switch doc {
	case "":
		return nil, apperr.Validation("doc is required: must be one of: tasks, spec, plan, constitution")
	case "constitution":
		path = e.Constitution.Path()
	default:
		pattern, err := e.Tasks.Pattern(doc)
		if err != nil {
			return nil, apperr.Validation("unknown document %q: must be one of: tasks, spec, plan, constitution", doc)
		}
		path, err = e.Locator.Find(pattern)
		if err != nil {
			return nil, err
		}
	}

	content, err := e.Cache.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	headings := markdown.Outline([]byte(content))
	if headings == nil {
		headings = []markdown.Heading{}
	}
	return &Outline{
		Document: doc,
		Path:     e.relative(path),
		Headings: headings,
	}, nil
}

// relative shortens an absolute path under the project root for output.
func (e *Env) relative(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	rel, err := filepath.Rel(e.Config.Root, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return path
	}
	return filepath.ToSlash(rel)
}
