package tasks

import (
	"context"
	"strings"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/docs"
	"github.com/HendryAvila/speclens/internal/markdown"
	"go.uber.org/zap"
)

// Default document patterns, relative to the project root.
const (
	DefaultTasksPattern = ".specify/specs/*/tasks.md"
	DefaultSpecPattern  = ".specify/specs/*/spec.md"
	DefaultPlanPattern  = ".specify/specs/*/plan.md"
)

// Enrichment limits.
const (
	DefaultSectionBudget = 600
	maxRelatedSections   = 3
	maxAcceptanceItems   = 5
)

// Locator finds a document by glob pattern, first match only.
type Locator interface {
	Find(pattern string) (string, error)
}

// Options configures where the service looks for documents.
type Options struct {
	TasksPattern string
	SpecPattern  string
	PlanPattern  string

	// SectionBudget caps each extracted section, in characters.
	SectionBudget int
}

// DefaultOptions returns the conventional .specify layout.
func DefaultOptions() Options {
	return Options{
		TasksPattern:  DefaultTasksPattern,
		SpecPattern:   DefaultSpecPattern,
		PlanPattern:   DefaultPlanPattern,
		SectionBudget: DefaultSectionBudget,
	}
}

// Service answers task queries. It holds no task state between calls.
type Service struct {
	reader  docs.Reader
	locator Locator
	opts    Options
	logger  *zap.Logger
}

// NewService creates a Service. Zero-valued options fall back to defaults.
func NewService(reader docs.Reader, locator Locator, opts Options, logger *zap.Logger) *Service {
	def := DefaultOptions()
	if opts.TasksPattern == "" {
		opts.TasksPattern = def.TasksPattern
	}
	if opts.SpecPattern == "" {
		opts.SpecPattern = def.SpecPattern
	}
	if opts.PlanPattern == "" {
		opts.PlanPattern = def.PlanPattern
	}
	if opts.SectionBudget <= 0 {
		opts.SectionBudget = def.SectionBudget
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, locator: locator, opts: opts, logger: logger}
}

// load locates, reads and parses the tasks document.
func (s *Service) load(ctx context.Context) ([]Task, error) {
	path, err := s.locator.Find(s.opts.TasksPattern)
	if err != nil {
		return nil, err
	}
	content, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}
	return Parse(content), nil
}

// All returns every task, or only those whose phase contains phase
// (case-insensitive) when phase is non-empty.
func (s *Service) All(ctx context.Context, phase string) ([]Task, error) {
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	if tasks == nil {
		tasks = []Task{}
	}

	phase = strings.ToLower(strings.TrimSpace(phase))
	if phase == "" {
		return tasks, nil
	}

	filtered := []Task{}
	for _, t := range tasks {
		if strings.Contains(strings.ToLower(t.Phase), phase) {
			filtered = append(filtered, t)
		}
	}
	return filtered, nil
}

// ByID returns the task with the given id. With includeContext the
// result also carries related spec/plan sections and acceptance
// criteria; enrichment failures never fail the call.
func (s *Service) ByID(ctx context.Context, id string, includeContext bool) (*TaskWithContext, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("taskId is required")
	}

	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	task, ok := FindByID(tasks, id)
	if !ok {
		return nil, apperr.NotFound("task not found: %s", id)
	}

	result := &TaskWithContext{Task: task}
	if includeContext {
		s.enrich(ctx, result)
	}
	return result, nil
}

// Next returns the first task whose status is absent or pending, or nil
// when every task has moved on.
func (s *Service) Next(ctx context.Context) (*Task, error) {
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range tasks {
		if tasks[i].Status.IsPending() {
			return &tasks[i], nil
		}
	}
	return nil, nil
}

// Dependencies returns the resolvable dependencies of a task in declared
// order. Unknown dependency ids are dropped silently.
func (s *Service) Dependencies(ctx context.Context, id string) ([]Task, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperr.Validation("taskId is required")
	}
	tasks, err := s.load(ctx)
	if err != nil {
		return nil, err
	}
	return ResolveDependencies(tasks, id), nil
}

// Section returns the first level-2 section of the spec or plan document
// whose title contains title, truncated to the section budget.
func (s *Service) Section(ctx context.Context, doc DocKind, title string) (string, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return "", apperr.Validation("section title is required")
	}
	pattern, err := s.patternFor(doc)
	if err != nil {
		return "", err
	}
	path, err := s.locator.Find(pattern)
	if err != nil {
		return "", err
	}
	content, err := s.reader.Read(ctx, path)
	if err != nil {
		return "", err
	}
	section, ok := markdown.FindSection(content, 2, title)
	if !ok {
		return "", apperr.NotFound("section %q not found in %s document", title, doc)
	}
	return markdown.Truncate(section.Text(), s.opts.SectionBudget), nil
}

// Pattern returns the glob pattern configured for a document kind.
// "tasks" is accepted alongside the sibling kinds.
func (s *Service) Pattern(doc string) (string, error) {
	if doc == "tasks" {
		return s.opts.TasksPattern, nil
	}
	return s.patternFor(DocKind(doc))
}

func (s *Service) patternFor(doc DocKind) (string, error) {
	switch doc {
	case DocSpec:
		return s.opts.SpecPattern, nil
	case DocPlan:
		return s.opts.PlanPattern, nil
	default:
		return "", apperr.Validation("unknown document %q: must be one of: spec, plan", doc)
	}
}
