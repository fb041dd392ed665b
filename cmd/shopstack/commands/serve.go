package commands

import (
	"github.com/spf13/cobra"

	"github.com/shopstack/shopstack/cmd/shopstack/handlers"
)

// Serve returns the command that runs the orchestrator HTTP server.
//
// Optional flags:
//
//	--config, -c: Path to the configuration YAML file (default: shopstack.yaml)
//
// Environment variables:
//
//	SHOPSTACK_TIMEOUT_COMMAND:  kubectl invocation timeout (default: 2m)
//	SHOPSTACK_TIMEOUT_INSTALL:  release install readiness timeout (default: 10m)
//	SHOPSTACK_TIMEOUT_SHUTDOWN: graceful shutdown timeout (default: 10s)
func Serve() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the orchestrator HTTP API",
		Long: `Run the orchestrator HTTP API.

Validates the configured chart and client tools at startup, then serves
the provisioning API until interrupted.

Examples:
  # Serve using shopstack.yaml in the current directory
  shopstack serve

  # Serve using a specific config file
  shopstack serve -c production.yaml`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Serve(cmd.Context(), configPath)
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "shopstack.yaml", "Path to configuration file")

	return cmd
}
