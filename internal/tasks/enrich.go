package tasks

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"sync"

	"github.com/HendryAvila/speclens/internal/markdown"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// acceptanceHeadingPattern matches the heading that opens the acceptance
// criteria block of a spec document.
var acceptanceHeadingPattern = regexp.MustCompile(`(?i)##.*acceptance criteria`)

// enrich fills the context fields of result. The three lookups share no
// state and run concurrently; each one degrades to an empty list on
// failure and records why in result.Warnings.
func (s *Service) enrich(ctx context.Context, result *TaskWithContext) {
	var (
		mu       sync.Mutex
		warnings []string
		spec     = []string{}
		plan     = []string{}
		criteria = []string{}
	)
	warn := func(what string, err error) {
		msg := fmt.Sprintf("%s: %v", what, err)
		s.logger.Warn("context enrichment degraded",
			zap.String("task", result.ID),
			zap.String("part", what),
			zap.Error(err),
		)
		mu.Lock()
		warnings = append(warnings, msg)
		mu.Unlock()
	}

	keywords := ExtractKeywords(result.Title + " " + result.Description)

	var g errgroup.Group
	g.Go(func() error {
		sections, err := s.relatedSections(ctx, s.opts.SpecPattern, keywords)
		if err != nil {
			warn("related spec sections", err)
			return nil
		}
		spec = sections
		return nil
	})
	g.Go(func() error {
		sections, err := s.relatedSections(ctx, s.opts.PlanPattern, keywords)
		if err != nil {
			warn("related plan sections", err)
			return nil
		}
		plan = sections
		return nil
	})
	g.Go(func() error {
		items, err := s.acceptanceCriteria(ctx)
		if err != nil {
			warn("acceptance criteria", err)
			return nil
		}
		criteria = items
		return nil
	})
	// Every lookup degrades instead of failing, so Wait only joins.
	g.Wait()

	result.RelatedSpecSections = spec
	result.RelatedPlanSections = plan
	result.AcceptanceCriteria = criteria
	result.Warnings = warnings
}

// relatedSections returns up to three level-2 sections of the first
// document matching pattern that mention any keyword, each truncated to
// the section budget.
func (s *Service) relatedSections(ctx context.Context, pattern string, keywords []string) ([]string, error) {
	path, err := s.locator.Find(pattern)
	if err != nil {
		return nil, err
	}
	content, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	related := []string{}
	if len(keywords) == 0 {
		return related, nil
	}
	for _, section := range markdown.Sections(content, 2) {
		text := section.Text()
		if !containsAny(text, keywords) {
			continue
		}
		related = append(related, markdown.Truncate(text, s.opts.SectionBudget))
		if len(related) == maxRelatedSections {
			break
		}
	}
	return related, nil
}

// acceptanceCriteria returns up to five bullet items from the acceptance
// criteria block of the spec document.
func (s *Service) acceptanceCriteria(ctx context.Context) ([]string, error) {
	path, err := s.locator.Find(s.opts.SpecPattern)
	if err != nil {
		return nil, err
	}
	content, err := s.reader.Read(ctx, path)
	if err != nil {
		return nil, err
	}

	criteria := []string{}
	inSection := false
	for _, line := range markdown.Lines(content) {
		if acceptanceHeadingPattern.MatchString(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if strings.HasPrefix(line, "## ") {
			break
		}
		if item, ok := markdown.ListItem(line); ok && item != "" {
			criteria = append(criteria, item)
			if len(criteria) == maxAcceptanceItems {
				break
			}
		}
	}
	return criteria, nil
}
