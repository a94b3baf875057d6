package tasks

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/docs"
	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"
)

const sampleSpec = `# Spec: Booking

## Overview
Customers reserve a slot.

## Booking Rules
Dates must be in the future and validation rejects overlaps.

## Acceptance Criteria
- A booking can be created
* Overlapping bookings are rejected
- Past dates are rejected

## Out of Scope
- Payments
`

const samplePlan = `# Plan

## Architecture
A single HTTP service.

## Endpoint design
The booking endpoint accepts JSON.
`

// writeProject lays out files (root-relative, slash-separated) under a
// temp dir and returns the root.
func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root
}

func newTestService(t *testing.T, files map[string]string) *Service {
	t.Helper()
	root := writeProject(t, files)
	return NewService(docs.NewCache(root), docs.NewLocator(root), DefaultOptions(), nil)
}

func fullProject() map[string]string {
	return map[string]string{
		".specify/specs/001-booking/tasks.md": sampleTasks,
		".specify/specs/001-booking/spec.md":  sampleSpec,
		".specify/specs/001-booking/plan.md":  samplePlan,
	}
}

func TestService_All(t *testing.T) {
	svc := newTestService(t, fullProject())
	ctx := context.Background()

	all, err := svc.All(ctx, "")
	if err != nil {
		t.Fatalf("All: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("got %d tasks, want 3", len(all))
	}

	core, err := svc.All(ctx, "core")
	if err != nil {
		t.Fatalf("All(core): %v", err)
	}
	if len(core) != 1 || core[0].ID != "2.1" {
		t.Errorf("All(core) = %+v, want only task 2.1", core)
	}

	none, err := svc.All(ctx, "Phase 9")
	if err != nil {
		t.Fatalf("All(Phase 9): %v", err)
	}
	if none == nil || len(none) != 0 {
		t.Errorf("All(Phase 9) = %v, want empty non-nil list", none)
	}
}

func TestService_UnreadableTasksDocumentNamesRelativePath(t *testing.T) {
	root := writeProject(t, nil)
	if err := os.MkdirAll(filepath.Join(root, ".specify", "specs", "001", "tasks.md"), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	svc := NewService(docs.NewCache(root), docs.NewLocator(root), DefaultOptions(), nil)

	_, err := svc.All(context.Background(), "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	want := "unable to read file: .specify/specs/001/tasks.md"
	if err.Error() != want {
		t.Errorf("err = %q, want %q", err, want)
	}
}

func TestService_MissingTasksDocument(t *testing.T) {
	svc := newTestService(t, map[string]string{
		".specify/specs/001-booking/spec.md": sampleSpec,
	})
	_, err := svc.All(context.Background(), "")
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
	if !strings.Contains(err.Error(), DefaultTasksPattern) {
		t.Errorf("error %q should name the pattern %s", err, DefaultTasksPattern)
	}
}

func TestService_ByID(t *testing.T) {
	svc := newTestService(t, fullProject())
	ctx := context.Background()

	got, err := svc.ByID(ctx, "2", false)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if got.Title != "Add CI" {
		t.Errorf("Title = %q, want Add CI", got.Title)
	}
	if got.RelatedSpecSections != nil || got.AcceptanceCriteria != nil {
		t.Error("context fields should stay nil when not requested")
	}

	if _, err := svc.ByID(ctx, "  ", false); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blank id err = %v, want ErrValidation", err)
	}

	_, err = svc.ByID(ctx, "42", false)
	if !errors.Is(err, apperr.ErrNotFound) {
		t.Fatalf("unknown id err = %v, want ErrNotFound", err)
	}
	if err.Error() != "task not found: 42" {
		t.Errorf("err = %q, want %q", err, "task not found: 42")
	}
}

func TestService_ByIDWithContext(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(t, fullProject())
	got, err := svc.ByID(context.Background(), "2.1", true)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}

	wantCriteria := []string{
		"A booking can be created",
		"Overlapping bookings are rejected",
		"Past dates are rejected",
	}
	if diff := cmp.Diff(wantCriteria, got.AcceptanceCriteria); diff != "" {
		t.Errorf("criteria mismatch (-want +got):\n%s", diff)
	}

	// Keywords: validation, implement, endpoint, booking, dates.
	if len(got.RelatedSpecSections) != 2 {
		t.Fatalf("got %d spec sections, want 2: %v", len(got.RelatedSpecSections), got.RelatedSpecSections)
	}
	if !strings.HasPrefix(got.RelatedSpecSections[0], "## Booking Rules") {
		t.Errorf("first spec section = %q", got.RelatedSpecSections[0])
	}
	if len(got.RelatedPlanSections) != 1 || !strings.HasPrefix(got.RelatedPlanSections[0], "## Endpoint design") {
		t.Errorf("plan sections = %v", got.RelatedPlanSections)
	}
	if len(got.Warnings) != 0 {
		t.Errorf("unexpected warnings: %v", got.Warnings)
	}
}

func TestService_EnrichCancelledContextJoinsAllLookups(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(t, fullProject())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := &TaskWithContext{Task: Task{ID: "2.1", Title: "Booking API"}}
	svc.enrich(ctx, result)

	if len(result.Warnings) != 3 {
		t.Fatalf("got %d warnings, want 3: %v", len(result.Warnings), result.Warnings)
	}
	for _, w := range result.Warnings {
		if !strings.Contains(w, context.Canceled.Error()) {
			t.Errorf("warning %q should carry the cancellation", w)
		}
	}
	if result.RelatedSpecSections == nil || result.RelatedPlanSections == nil || result.AcceptanceCriteria == nil {
		t.Error("context lists should be empty, not nil")
	}
}

func TestService_ByIDContextDegradesWithoutSiblings(t *testing.T) {
	defer goleak.VerifyNone(t)

	svc := newTestService(t, map[string]string{
		".specify/specs/001-booking/tasks.md": sampleTasks,
	})
	got, err := svc.ByID(context.Background(), "1", true)
	if err != nil {
		t.Fatalf("ByID should not fail when siblings are missing: %v", err)
	}
	if got.ID != "1" {
		t.Errorf("ID = %q, want 1", got.ID)
	}
	for name, list := range map[string][]string{
		"relatedSpecSections": got.RelatedSpecSections,
		"relatedPlanSections": got.RelatedPlanSections,
		"acceptanceCriteria":  got.AcceptanceCriteria,
	} {
		if list == nil || len(list) != 0 {
			t.Errorf("%s = %v, want empty non-nil list", name, list)
		}
	}
	if len(got.Warnings) != 3 {
		t.Errorf("got %d warnings, want 3: %v", len(got.Warnings), got.Warnings)
	}
}

func TestService_SectionTruncation(t *testing.T) {
	long := "## Importer\n" + strings.Repeat("import rows ", 100) + "\n"
	root := writeProject(t, map[string]string{
		".specify/specs/001/tasks.md": "### Task 1: Import rows\n",
		".specify/specs/001/spec.md":  long,
	})
	svc := NewService(docs.NewCache(root), docs.NewLocator(root), DefaultOptions(), nil)

	got, err := svc.ByID(context.Background(), "1", true)
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if len(got.RelatedSpecSections) != 1 {
		t.Fatalf("spec sections = %v", got.RelatedSpecSections)
	}
	if n := len([]rune(got.RelatedSpecSections[0])); n != DefaultSectionBudget+3 {
		t.Errorf("section length = %d, want %d", n, DefaultSectionBudget+3)
	}
	if !strings.HasSuffix(got.RelatedSpecSections[0], "...") {
		t.Error("truncated section should end with ...")
	}
}

func TestService_Next(t *testing.T) {
	svc := newTestService(t, fullProject())
	next, err := svc.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next == nil || next.ID != "1" {
		t.Fatalf("Next = %+v, want task 1", next)
	}

	done := newTestService(t, map[string]string{
		".specify/specs/001/tasks.md": "### Task 1: A\n**Status:** completed\n### Task 2: B\n**Status:** in-progress\n",
	})
	next, err = done.Next(context.Background())
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if next != nil {
		t.Errorf("Next = %+v, want nil", next)
	}
}

func TestService_Dependencies(t *testing.T) {
	svc := newTestService(t, fullProject())
	ctx := context.Background()

	deps, err := svc.Dependencies(ctx, "2.1")
	if err != nil {
		t.Fatalf("Dependencies: %v", err)
	}
	var ids []string
	for _, d := range deps {
		ids = append(ids, d.ID)
	}
	if diff := cmp.Diff([]string{"1", "2"}, ids); diff != "" {
		t.Errorf("deps mismatch (-want +got):\n%s", diff)
	}

	deps, err = svc.Dependencies(ctx, "404")
	if err != nil {
		t.Fatalf("Dependencies(404): %v", err)
	}
	if len(deps) != 0 {
		t.Errorf("Dependencies(404) = %v, want empty", deps)
	}
}

func TestService_Section(t *testing.T) {
	svc := newTestService(t, fullProject())
	ctx := context.Background()

	got, err := svc.Section(ctx, DocPlan, "endpoint")
	if err != nil {
		t.Fatalf("Section: %v", err)
	}
	if !strings.Contains(got, "accepts JSON") {
		t.Errorf("Section = %q", got)
	}

	if _, err := svc.Section(ctx, DocSpec, "billing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("missing section err = %v, want ErrNotFound", err)
	}
	if _, err := svc.Section(ctx, DocKind("readme"), "x"); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("unknown doc err = %v, want ErrValidation", err)
	}
	if _, err := svc.Section(ctx, DocSpec, ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("blank title err = %v, want ErrValidation", err)
	}
}

func TestService_Pattern(t *testing.T) {
	svc := NewService(nil, nil, Options{TasksPattern: "docs/tasks.md"}, nil)
	tests := []struct {
		doc  string
		want string
	}{
		{"tasks", "docs/tasks.md"},
		{"spec", DefaultSpecPattern},
		{"plan", DefaultPlanPattern},
	}
	for _, tt := range tests {
		got, err := svc.Pattern(tt.doc)
		if err != nil {
			t.Fatalf("Pattern(%s): %v", tt.doc, err)
		}
		if got != tt.want {
			t.Errorf("Pattern(%s) = %s, want %s", tt.doc, got, tt.want)
		}
	}
}
