// Package main is the entry point for the shopstack orchestrator.
//
// shopstack provisions a dedicated store stack per tenant: a Kubernetes
// namespace, a database credential secret and a helm chart release, fronted
// by an HTTP API with a pre-flight ingress host conflict check and
// best-effort rollback on partial failure.
//
// For detailed usage information, run:
//
//	shopstack --help
package main

import (
	"fmt"
	"os"

	"github.com/shopstack/shopstack/cmd/shopstack/commands"
)

// Version information set by goreleaser at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.SetVersionInfo(version, commit, date)
	if err := commands.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
