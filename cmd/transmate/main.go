package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

const (
	version           = "0.1.0"
	defaultConfigPath = "configs/transmate.yaml"
)

var configPath string

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, styleError.Render(err.Error()))
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "transmate",
		Short: "Transmission daemon client",
		Long: "Transmate talks to a Transmission daemon over its JSON-RPC interface.\n" +
			"It lists, adds and controls torrents and can expose them to MCP clients.",
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to configuration file")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(
		newVersionCmd(),
		newConfigCmd(),
		newSessionCmd(),
		newListCmd(),
		newGetCmd(),
		newLabelsCmd(),
		newAddCmd(),
		newPauseCmd(),
		newResumeCmd(),
		newVerifyCmd(),
		newReannounceCmd(),
		newRemoveCmd(),
		newMoveCmd(),
		newQueueCmd(),
		newFreeSpaceCmd(),
		newWatchCmd(),
		newMCPServeCmd(),
	)
	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "Transmate v%s\n", version)
		},
	}
}
