package main

import (
	"fmt"

	"github.com/HendryAvila/speclens/internal/server"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	var noWatch bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server (stdio transport)",
		Long: `Serves the query tools, resources and prompts over MCP on stdin/stdout.

Add to your AI tool's MCP config:

  {
    "mcpServers": {
      "speclens": {
        "command": "speclens",
        "args": ["serve"]
      }
    }
  }`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.env.Config.Cache.Watch && !noWatch {
				if err := a.env.StartWatcher(cmd.Context()); err != nil {
					// The TTL still bounds staleness.
					a.logger.Warn("document watcher unavailable", zap.Error(err))
				}
			}
			a.logger.Info("serving MCP over stdio",
				zap.String("version", server.Version),
				zap.String("root", a.env.Config.Root),
			)
			if err := server.Serve(a.env); err != nil {
				return fmt.Errorf("serving MCP: %w", err)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not watch documents for changes")
	return cmd
}
