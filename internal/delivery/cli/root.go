// Package cli implements the userdesk command line: the HTTP server and
// one-shot user directory operations against the configured store.
//
// Usage:
//
//	userdesk serve -c userdesk.yaml      # Start the HTTP API
//	userdesk users list                  # Print the directory
//	userdesk users create --username carol --email c@example.com
//	userdesk config validate -c userdesk.yaml
//	userdesk version
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information, set at build time via ldflags.
// Example: go build -ldflags "-X userdesk/internal/delivery/cli.version=1.0.0"
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "userdesk",
		Short: "A small user directory backed by a local key/value store",
		Long: `userdesk serves a user directory over HTTP.

Users are fetched from a remote JSON directory when it is reachable and
persisted in a local key/value slot (SQLite, bbolt, memcached or memory),
which also serves as the fallback when the remote is down.

Configuration comes from defaults, an optional YAML file (-c) and
environment variables (a .env file is loaded when present).`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringP("config", "c", "", "path to YAML config file")
	root.PersistentFlags().String("backend", "", "store backend (memory, sqlite, bolt, memcache)")
	root.PersistentFlags().Duration("latency", 0, "simulated latency per store operation")
	root.PersistentFlags().Bool("offline", false, "never query the remote directory")

	root.AddCommand(
		newServeCmd(),
		newUsersCmd(),
		newConfigCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "userdesk %s\n", version)
			fmt.Fprintf(out, "  commit: %s\n", commit)
			fmt.Fprintf(out, "  built:  %s\n", date)
		},
	}
}

// Execute runs the root command and exits non-zero on failure
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		// Cobra already prints the error
		os.Exit(1)
	}
}
