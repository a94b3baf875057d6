package server

import (
	"context"
	"errors"
	"fmt"

	"github.com/HendryAvila/speclens/internal/config"
	"github.com/HendryAvila/speclens/internal/constitution"
	"github.com/HendryAvila/speclens/internal/docs"
	"github.com/HendryAvila/speclens/internal/harness"
	"github.com/HendryAvila/speclens/internal/tasks"
	"github.com/HendryAvila/speclens/internal/usage"
	"go.uber.org/zap"
)

// Env holds every long-lived component of one project. Both the MCP
// server and the CLI commands build one; nothing outside this package
// constructs the components directly.
type Env struct {
	Config       config.Config
	Logger       *zap.Logger
	Cache        *docs.Cache
	Locator      *docs.Locator
	Usage        usage.Log
	Harness      *harness.Harness
	Tasks        *tasks.Service
	Constitution *constitution.Service

	watcher *docs.Watcher
}

// NewEnv wires the components for cfg. The caller must Close the Env.
func NewEnv(cfg config.Config, logger *zap.Logger) (*Env, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log, err := usage.Open(cfg.Usage.Backend, cfg.UsagePath(), logger.Named("usage"))
	if err != nil {
		return nil, fmt.Errorf("opening usage log: %w", err)
	}

	cache := docs.NewCache(cfg.Root,
		docs.WithTTL(cfg.Cache.TTL),
		docs.WithLogger(logger.Named("cache")),
	)
	locator := docs.NewLocator(cfg.Root)

	env := &Env{
		Config:       cfg,
		Logger:       logger,
		Cache:        cache,
		Locator:      locator,
		Usage:        log,
		Harness:      harness.New(log, logger.Named("harness")),
		Tasks:        tasks.NewService(cache, locator, cfg.TaskOptions(), logger.Named("tasks")),
		Constitution: constitution.NewService(cache, cfg.ConstitutionOptions(), logger.Named("constitution")),
	}
	registerHandlers(env)
	return env, nil
}

// StartWatcher invalidates cached documents as they change on disk. It
// watches the directories of whichever documents exist right now;
// documents created later are picked up by the TTL instead.
func (e *Env) StartWatcher(ctx context.Context) error {
	w, err := docs.NewWatcher(e.Cache, e.Logger.Named("watcher"))
	if err != nil {
		return err
	}

	watched := 0
	for _, doc := range []string{"tasks", "spec", "plan"} {
		pattern, _ := e.Tasks.Pattern(doc)
		paths, err := e.Locator.FindAll(pattern)
		if err != nil {
			e.Logger.Warn("watcher skipped document", zap.String("doc", doc), zap.Error(err))
			continue
		}
		for _, p := range paths {
			if err := w.Watch(p); err != nil {
				e.Logger.Warn("watcher skipped document", zap.String("path", p), zap.Error(err))
				continue
			}
			watched++
		}
	}
	if err := w.Watch(e.Locator.Path(e.Constitution.Path())); err != nil {
		e.Logger.Debug("constitution directory not watched", zap.Error(err))
	} else {
		watched++
	}

	w.Start(ctx)
	e.watcher = w
	e.Logger.Info("document watcher started", zap.Int("documents", watched))
	return nil
}

// Close stops the watcher, if any, and closes the usage log.
func (e *Env) Close() error {
	var errs []error
	if e.watcher != nil {
		if err := e.watcher.Close(); err != nil {
			errs = append(errs, fmt.Errorf("closing watcher: %w", err))
		}
	}
	if err := e.Usage.Close(); err != nil {
		errs = append(errs, fmt.Errorf("closing usage log: %w", err))
	}
	return errors.Join(errs...)
}
