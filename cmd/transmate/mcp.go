package main

import (
	"github.com/spf13/cobra"

	mcpserver "github.com/vadimtrunov/transmate/internal/mcp"
)

// newMCPServeCmd returns the hidden "mcp-serve" subcommand.
// It starts an MCP server over stdin/stdout so assistants can drive the daemon.
func newMCPServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:    "mcp-serve",
		Short:  "Start MCP server over stdio (internal)",
		Hidden: true,
		Args:   cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel, tc, err := setup(cmd)
			if err != nil {
				return err
			}
			defer cancel()

			srv := mcpserver.NewServer(mcpserver.Deps{Torrent: tc}, version, nil)
			return srv.ServeStdio(ctx)
		},
	}
}
