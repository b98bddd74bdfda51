package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"userdesk/internal/infrastructure/kv"
)

func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Configuration utilities",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "validate",
		Short: "Validate configuration and print the effective settings",
		Args:  cobra.NoArgs,
		RunE:  runConfigValidate,
	})
	return cmd
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Configuration is valid")
	fmt.Fprintf(out, "  addr:     %s\n", cfg.Addr())
	fmt.Fprintf(out, "  backend:  %s\n", cfg.Store.Backend)
	switch cfg.Store.Backend {
	case kv.BackendSQLite:
		fmt.Fprintf(out, "  database: %s\n", cfg.Store.DatabasePath)
	case kv.BackendBolt:
		fmt.Fprintf(out, "  bolt:     %s\n", cfg.Store.BoltPath)
	case kv.BackendMemcache:
		fmt.Fprintf(out, "  servers:  %s\n", strings.Join(cfg.Store.MemcacheAddrs, ", "))
	}
	fmt.Fprintf(out, "  slot:     %s\n", cfg.Store.SlotKey)
	fmt.Fprintf(out, "  latency:  %s\n", cfg.Latency.Duration())
	if cfg.RemoteEnabled() {
		fmt.Fprintf(out, "  remote:   %s (timeout %s)\n", cfg.Remote.URL, cfg.Remote.Timeout.Duration())
	} else {
		fmt.Fprintln(out, "  remote:   disabled")
	}
	return nil
}
