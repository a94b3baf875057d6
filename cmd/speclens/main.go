// speclens: a token-frugal query layer over .specify project documents.
//
// It answers narrow questions about tasks.md, spec.md, plan.md and the
// project constitution, either as an MCP server for AI coding tools or
// straight from the shell.
//
// Usage:
//
//	speclens serve          # Start MCP server (stdio transport)
//	speclens next-task      # Print the first pending task
//	speclens stats          # Summarize the usage log
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/HendryAvila/speclens/internal/apperr"
	"github.com/HendryAvila/speclens/internal/config"
	"github.com/HendryAvila/speclens/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// app carries the state shared by every command of one invocation.
type app struct {
	root    string
	verbose bool

	logger *zap.Logger
	env    *server.Env
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "speclens",
		Short: "Query .specify project documents without reading them whole",
		Long: `speclens parses the tasks, spec, plan and constitution documents of a
spec-driven project and answers narrow questions about them. Every query
reports an estimated token cost and is appended to the usage log.

Run "speclens serve" to expose the same queries to an AI tool over MCP.`,
		Version:       server.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&a.root, "root", "r", "", "Project root (default: nearest parent with a .specify directory)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	rootCmd.AddCommand(
		newServeCmd(a),
		newAllTasksCmd(a),
		newTaskCmd(a),
		newNextTaskCmd(a),
		newDepsCmd(a),
		newConstitutionSummaryCmd(a),
		newConstitutionSearchCmd(a),
		newSectionCmd(a),
		newOutlineCmd(a),
		newStatsCmd(a),
	)
	return rootCmd
}

// setup builds the logger and the project environment. stdout belongs to
// command output and the MCP transport, so logs go to stderr.
func (a *app) setup() error {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stderr"}
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if a.verbose {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}
	a.logger = logger

	root := a.root
	if root == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fmt.Errorf("getting working directory: %w", err)
		}
		if root, err = config.FindProjectRoot(wd); err != nil {
			return err
		}
	}

	conf, err := config.Load(root)
	if err != nil {
		return err
	}
	env, err := server.NewEnv(conf, logger)
	if err != nil {
		return err
	}
	a.env = env
	logger.Debug("project loaded", zap.String("root", conf.Root))
	return nil
}

func (a *app) teardown() error {
	var err error
	if a.env != nil {
		err = a.env.Close()
		a.env = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
	return err
}

// exitCode maps an error to the process exit status: 2 for caller
// mistakes, 1 for everything else.
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, apperr.ErrValidation):
		return 2
	default:
		return 1
	}
}

// run executes one invocation with the given arguments. The environment
// is closed however the command ends.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) (err error) {
	a := &app{}
	defer func() {
		if cerr := a.teardown(); err == nil {
			err = cerr
		}
	}()

	cmd := newRootCmd(a)
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(exitCode(err))
}
