// Package config holds speclens project settings: where the documents
// live, which usage-log backend to write, and the size limits applied to
// query output.
//
// Settings come from an optional .specify/speclens.yaml. Every field has
// a default, so a project without the file behaves like the conventional
// .specify layout.
package config

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HendryAvila/speclens/internal/constitution"
	"github.com/HendryAvila/speclens/internal/docs"
	"github.com/HendryAvila/speclens/internal/tasks"
	"github.com/HendryAvila/speclens/internal/usage"
	"gopkg.in/yaml.v3"
)

const (
	// SpecifyDir marks a project root.
	SpecifyDir = ".specify"
	// FileName is the settings file inside SpecifyDir.
	FileName = "speclens.yaml"
)

// Config is the full settings tree.
type Config struct {
	// Root is the project root everything else is relative to. It is
	// never read from the file.
	Root string `yaml:"-"`

	Documents Documents `yaml:"documents"`
	Usage     Usage     `yaml:"usage"`
	Cache     Cache     `yaml:"cache"`
	Limits    Limits    `yaml:"limits"`
}

// Documents are root-relative glob patterns (tasks, spec, plan) and a
// fixed path (constitution).
type Documents struct {
	Tasks        string `yaml:"tasks"`
	Spec         string `yaml:"spec"`
	Plan         string `yaml:"plan"`
	Constitution string `yaml:"constitution"`
}

// Usage selects the usage-log backend. An empty Path picks the
// backend's default location.
type Usage struct {
	Backend usage.Backend `yaml:"backend"`
	Path    string        `yaml:"path"`
}

// Cache configures the document cache.
type Cache struct {
	TTL time.Duration `yaml:"ttl"`
	// Watch invalidates cached documents on change while serving.
	Watch bool `yaml:"watch"`
}

// Limits bound query output.
type Limits struct {
	SummaryMaxLength int `yaml:"summary_max_length"`
	SectionBudget    int `yaml:"section_budget"`
	SearchMaxResults int `yaml:"search_max_results"`
}

// Default returns the settings for the conventional .specify layout.
func Default() Config {
	return Config{
		Documents: Documents{
			Tasks:        tasks.DefaultTasksPattern,
			Spec:         tasks.DefaultSpecPattern,
			Plan:         tasks.DefaultPlanPattern,
			Constitution: constitution.DefaultPath,
		},
		Usage: Usage{Backend: usage.BackendFile},
		Cache: Cache{TTL: docs.DefaultTTL},
		Limits: Limits{
			SummaryMaxLength: constitution.DefaultSummaryLength,
			SectionBudget:    tasks.DefaultSectionBudget,
			SearchMaxResults: constitution.DefaultMaxResults,
		},
	}
}

// Path returns the settings file location for a project root.
func Path(root string) string {
	return filepath.Join(root, SpecifyDir, FileName)
}

// Load reads the settings for root. A missing file yields Default().
// Fields absent from the file keep their defaults; unknown fields are
// rejected so typos do not pass silently.
func Load(root string) (Config, error) {
	cfg := Default()
	cfg.Root = root

	f, err := os.Open(Path(root))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("reading %s: %w", FileName, err)
	}
	defer func() { _ = f.Close() }()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("parsing %s: %w", FileName, err)
	}
	cfg.Root = root

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate reports every problem at once.
func (c Config) Validate() error {
	var problems []string
	if c.Documents.Tasks == "" {
		problems = append(problems, "documents.tasks must not be empty")
	}
	if c.Documents.Spec == "" {
		problems = append(problems, "documents.spec must not be empty")
	}
	if c.Documents.Plan == "" {
		problems = append(problems, "documents.plan must not be empty")
	}
	if c.Documents.Constitution == "" {
		problems = append(problems, "documents.constitution must not be empty")
	}
	if !c.Usage.Backend.Valid() {
		problems = append(problems, fmt.Sprintf("usage.backend %q must be one of: file, sqlite", c.Usage.Backend))
	}
	if c.Cache.TTL <= 0 {
		problems = append(problems, "cache.ttl must be positive")
	}
	if c.Limits.SummaryMaxLength <= 0 {
		problems = append(problems, "limits.summary_max_length must be positive")
	}
	if c.Limits.SectionBudget <= 0 {
		problems = append(problems, "limits.section_budget must be positive")
	}
	if c.Limits.SearchMaxResults <= 0 {
		problems = append(problems, "limits.search_max_results must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("invalid %s: %s", FileName, strings.Join(problems, "; "))
	}
	return nil
}

// UsagePath returns the absolute usage-log location.
func (c Config) UsagePath() string {
	p := c.Usage.Path
	if p == "" {
		p = usage.DefaultFilePath
		if c.Usage.Backend == usage.BackendSQLite {
			p = usage.DefaultSQLitePath
		}
	}
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root, filepath.FromSlash(p))
}

// TaskOptions maps the settings onto the task service.
func (c Config) TaskOptions() tasks.Options {
	return tasks.Options{
		TasksPattern:  c.Documents.Tasks,
		SpecPattern:   c.Documents.Spec,
		PlanPattern:   c.Documents.Plan,
		SectionBudget: c.Limits.SectionBudget,
	}
}

// ConstitutionOptions maps the settings onto the constitution service.
func (c Config) ConstitutionOptions() constitution.Options {
	return constitution.Options{
		Path:             c.Documents.Constitution,
		SummaryMaxLength: c.Limits.SummaryMaxLength,
		SearchMaxResults: c.Limits.SearchMaxResults,
	}
}

// FindProjectRoot walks up from start looking for a .specify directory.
// If none is found, start itself is returned; the caller decides what a
// missing document means.
func FindProjectRoot(start string) (string, error) {
	dir, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("resolving %s: %w", start, err)
	}

	current := dir
	for {
		info, err := os.Stat(filepath.Join(current, SpecifyDir))
		if err == nil && info.IsDir() {
			return current, nil
		}

		parent := filepath.Dir(current)
		if parent == current {
			return dir, nil
		}
		current = parent
	}
}
