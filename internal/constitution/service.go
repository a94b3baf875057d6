package constitution

import (
	"context"
	"fmt"

	"github.com/HendryAvila/speclens/internal/docs"
	"go.uber.org/zap"
)

// DefaultPath is where the constitution lives, relative to the project root.
const DefaultPath = ".specify/memory/constitution.md"

// Options configures the Service. Zero values fall back to the defaults.
type Options struct {
	Path             string
	SummaryMaxLength int
	SearchMaxResults int
}

// Service reads the constitution through the document cache.
type Service struct {
	reader docs.Reader
	opts   Options
	logger *zap.Logger
}

// NewService creates a Service.
func NewService(reader docs.Reader, opts Options, logger *zap.Logger) *Service {
	if opts.Path == "" {
		opts.Path = DefaultPath
	}
	if opts.SummaryMaxLength <= 0 {
		opts.SummaryMaxLength = DefaultSummaryLength
	}
	if opts.SearchMaxResults <= 0 {
		opts.SearchMaxResults = DefaultMaxResults
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{reader: reader, opts: opts, logger: logger}
}

// Path returns the configured, root-relative document path.
func (s *Service) Path() string {
	return s.opts.Path
}

// Content returns the raw constitution text.
func (s *Service) Content(ctx context.Context) (string, error) {
	return s.reader.Read(ctx, s.opts.Path)
}

// Summary condenses the constitution. maxLength <= 0 uses the configured
// default.
func (s *Service) Summary(ctx context.Context, maxLength int) (Summary, error) {
	content, err := s.Content(ctx)
	if err != nil {
		return Summary{}, fmt.Errorf("summarizing constitution: %w", err)
	}
	if maxLength <= 0 {
		maxLength = s.opts.SummaryMaxLength
	}
	sum := Summarize(content, maxLength)
	s.logger.Debug("constitution summarized",
		zap.Int("coreValues", len(sum.CoreValues)),
		zap.Int("principles", len(sum.KeyPrinciples)),
		zap.Int("guidelines", len(sum.TechnicalGuidelines)),
		zap.Int("length", len(sum.Summary)),
	)
	return sum, nil
}

// Search ranks constitution sections against query. maxResults <= 0 uses
// the configured default.
func (s *Service) Search(ctx context.Context, query string, maxResults int) (SearchResult, error) {
	if _, err := normalizeQuery(query); err != nil {
		return SearchResult{}, err
	}
	if maxResults <= 0 {
		maxResults = s.opts.SearchMaxResults
	}
	content, err := s.Content(ctx)
	if err != nil {
		return SearchResult{}, fmt.Errorf("searching constitution: %w", err)
	}
	return Search(content, query, maxResults)
}
