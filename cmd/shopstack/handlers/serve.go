// Package handlers implements the business logic for CLI commands.
//
// This package contains handler functions that are called by command
// definitions in the commands package. Handlers are framework-agnostic and
// can be tested independently of the CLI framework.
package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"helm.sh/helm/v3/pkg/chart/loader"

	"github.com/shopstack/shopstack/internal/config"
	"github.com/shopstack/shopstack/internal/platform/command"
	"github.com/shopstack/shopstack/internal/platform/helmcli"
	"github.com/shopstack/shopstack/internal/platform/kubectl"
	"github.com/shopstack/shopstack/internal/provisioning"
	"github.com/shopstack/shopstack/internal/routing"
	"github.com/shopstack/shopstack/internal/server"
	"github.com/shopstack/shopstack/internal/store"
	"github.com/shopstack/shopstack/internal/util/prerequisites"
)

// Factory function variables - can be replaced in tests for dependency injection.
var (
	// loadConfigFile loads config from file.
	loadConfigFile = config.LoadFile

	// loadTimeouts loads timeout configuration from the environment.
	loadTimeouts = config.LoadTimeouts

	// checkDefaultPrereqs runs the client tool checks.
	checkDefaultPrereqs = prerequisites.CheckDefault

	// loadChart loads and validates the configured chart.
	loadChart = loader.Load

	// listenAndServe runs the HTTP server until it returns.
	listenAndServe = func(srv *http.Server) error {
		return srv.ListenAndServe()
	}
)

// Serve runs the orchestrator HTTP API until the context is cancelled or an
// interrupt signal arrives.
//
// Startup performs three checks before binding the listener, so a
// misconfigured deployment fails immediately instead of on the first
// provision request:
//  1. kubectl and helm must be present on PATH
//  2. the configured chart must load and carry valid metadata
//  3. the per-environment values files must exist (enforced by config.LoadFile)
func Serve(ctx context.Context, configPath string) error {
	cfg, err := loadConfigFile(configPath)
	if err != nil {
		return err
	}
	timeouts := loadTimeouts()

	if err := checkTools(); err != nil {
		return err
	}

	if err := validateChart(cfg); err != nil {
		return err
	}

	handler := buildHandler(cfg, timeouts)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           handler,
		ReadHeaderTimeout: timeouts.Command,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Printf("Serving orchestrator API on %s", cfg.ListenAddr)
		errCh <- listenAndServe(srv)
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	case sig := <-sigCh:
		log.Printf("Received %s, shutting down", sig)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeouts.Shutdown)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

// checkTools verifies the client binaries the orchestrator shells out to.
func checkTools() error {
	results := checkDefaultPrereqs()
	for _, r := range results.Results {
		if r.Found {
			log.Printf("Found %s at %s (%s)", r.Tool.Name, r.Path, r.Version)
		}
	}
	return results.Error()
}

// validateChart loads the configured chart so broken chart deployments are
// caught at startup rather than mid-provision.
func validateChart(cfg *config.Config) error {
	chart, err := loadChart(cfg.ResolveChartPath())
	if err != nil {
		return fmt.Errorf("failed to load chart %s: %w", cfg.ChartPath, err)
	}
	if err := chart.Validate(); err != nil {
		return fmt.Errorf("chart %s is invalid: %w", cfg.ChartPath, err)
	}
	log.Printf("Validated chart %s version %s", chart.Name(), chart.Metadata.Version)
	return nil
}

// buildHandler wires the runner, clients, conflict checker, registry and
// orchestration service into the HTTP handler.
func buildHandler(cfg *config.Config, timeouts *config.Timeouts) http.Handler {
	runner := command.NewLocalRunner()

	kube := kubectl.NewClient(runner, kubectl.Options{
		Kubeconfig: cfg.Kubeconfig,
		Timeout:    timeouts.Command,
	})
	helm := helmcli.NewClient(runner, helmcli.Options{
		WorkDir:    cfg.RepoRoot,
		Kubeconfig: cfg.Kubeconfig,
		Timeout:    timeouts.Command,
	})
	checker := routing.NewChecker(kube, routing.Policy(cfg.ConflictPolicy))

	svc := provisioning.NewService(
		store.NewRegistry(),
		kube,
		helm,
		checker,
		provisioning.Config{
			ChartPath:      cfg.ChartPath,
			ValuesLocal:    cfg.ValuesLocal,
			ValuesProd:     cfg.ValuesProd,
			InstallTimeout: timeouts.Install,
		},
		provisioning.NewConsoleObserver(),
	)

	srv := server.New(svc, server.Info{
		RepoRoot:    cfg.RepoRoot,
		ChartPath:   cfg.ChartPath,
		ValuesLocal: cfg.ValuesLocal,
		ValuesProd:  cfg.ValuesProd,
	}, cfg.AllowedOrigins, log.Default())

	return srv.Handler()
}
