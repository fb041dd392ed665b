// Package helmcli drives chart releases through the helm CLI.
package helmcli

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopstack/shopstack/internal/platform/command"
)

// InstallOptions describes one chart installation.
type InstallOptions struct {
	Release    string
	Chart      string
	Namespace  string
	ValuesFile string

	// Set holds --set overrides, passed in sorted key order.
	Set map[string]string

	// Wait blocks until the release reports ready or Timeout elapses.
	Wait    bool
	Timeout time.Duration
}

// Options configures the client.
type Options struct {
	// WorkDir is the working directory for helm invocations (the chart
	// repository root, so relative chart paths resolve).
	WorkDir string

	// Kubeconfig is an explicit kubeconfig path, empty for helm's default
	// resolution.
	Kubeconfig string

	// Timeout bounds invocations that do not wait for readiness.
	Timeout time.Duration
}

// Client invokes helm for release install and uninstall.
type Client struct {
	runner command.Runner
	opts   Options
}

// NewClient creates a helm client on top of the given runner.
func NewClient(runner command.Runner, opts Options) *Client {
	return &Client{runner: runner, opts: opts}
}

func (c *Client) run(ctx context.Context, timeout time.Duration, args ...string) command.Result {
	argv := []string{"helm"}
	argv = append(argv, args...)
	if c.opts.Kubeconfig != "" {
		argv = append(argv, "--kubeconfig", c.opts.Kubeconfig)
	}
	return c.runner.Run(ctx, argv, command.Options{Dir: c.opts.WorkDir, Timeout: timeout})
}

// Install installs a release and, when opts.Wait is set, blocks until the
// deployment reports ready or opts.Timeout elapses.
func (c *Client) Install(ctx context.Context, opts InstallOptions) command.Result {
	args := []string{"install", opts.Release, opts.Chart, "--namespace", opts.Namespace}
	if opts.ValuesFile != "" {
		args = append(args, "--values", opts.ValuesFile)
	}

	keys := make([]string, 0, len(opts.Set))
	for k := range opts.Set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, "--set", fmt.Sprintf("%s=%s", k, opts.Set[k]))
	}

	timeout := c.opts.Timeout
	if opts.Wait {
		args = append(args, "--wait", "--timeout", opts.Timeout.String())
		// Give the process a little headroom over helm's own wait timeout
		// so helm reports the failure instead of being killed mid-flight.
		timeout = opts.Timeout + time.Minute
	}

	return c.run(ctx, timeout, args...)
}

// Uninstall removes a release from its namespace.
func (c *Client) Uninstall(ctx context.Context, release, namespace string) command.Result {
	return c.run(ctx, c.opts.Timeout, "uninstall", release, "-n", namespace)
}
