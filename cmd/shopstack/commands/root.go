// Package commands defines the CLI command structure and flag bindings.
//
// This package contains cobra command definitions that handle argument parsing,
// flag binding, and validation. Command execution is delegated to handler
// functions in the handlers package.
package commands

import "github.com/spf13/cobra"

// Root returns the root command for the shopstack CLI.
func Root() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "shopstack",
		Short: "Per-store Kubernetes stack orchestrator",
	}

	cmd.AddCommand(Serve())
	cmd.AddCommand(Version())
	cmd.AddCommand(Completion())

	return cmd
}
