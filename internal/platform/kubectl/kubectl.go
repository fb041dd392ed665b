// Package kubectl drives the cluster control plane through the kubectl CLI.
//
// Every operation returns the uniform command.Result so callers can apply
// the same success/benign-failure inspection everywhere.
package kubectl

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/shopstack/shopstack/internal/platform/command"
)

// Options configures the client.
type Options struct {
	// Kubeconfig is an explicit kubeconfig path. Empty uses kubectl's own
	// resolution (KUBECONFIG, ~/.kube/config).
	Kubeconfig string

	// Timeout bounds each invocation.
	Timeout time.Duration
}

// Client invokes kubectl for namespace, secret and ingress operations.
type Client struct {
	runner command.Runner
	opts   Options
}

// NewClient creates a kubectl client on top of the given runner.
func NewClient(runner command.Runner, opts Options) *Client {
	return &Client{runner: runner, opts: opts}
}

func (c *Client) run(ctx context.Context, args ...string) command.Result {
	argv := []string{"kubectl"}
	if c.opts.Kubeconfig != "" {
		argv = append(argv, "--kubeconfig", c.opts.Kubeconfig)
	}
	argv = append(argv, args...)
	return c.runner.Run(ctx, argv, command.Options{Timeout: c.opts.Timeout})
}

// CreateNamespace creates a namespace. A non-zero exit with "already exists"
// in the output is benign; callers check Result.AlreadyExists.
func (c *Client) CreateNamespace(ctx context.Context, name string) command.Result {
	return c.run(ctx, "create", "namespace", name)
}

// DeleteNamespace deletes a namespace and everything in it.
func (c *Client) DeleteNamespace(ctx context.Context, name string) command.Result {
	return c.run(ctx, "delete", "namespace", name)
}

// CreateSecret creates a generic secret from literal key/value pairs in the
// given namespace. Literals are passed in sorted key order so the invocation
// is deterministic.
func (c *Client) CreateSecret(ctx context.Context, name, namespace string, literals map[string]string) command.Result {
	args := []string{"create", "secret", "generic", name}

	keys := make([]string, 0, len(literals))
	for k := range literals {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		args = append(args, fmt.Sprintf("--from-literal=%s=%s", k, literals[k]))
	}

	args = append(args, fmt.Sprintf("--namespace=%s", namespace))
	return c.run(ctx, args...)
}

// ListIngresses returns the JSON listing of all ingresses across all
// namespaces.
func (c *Client) ListIngresses(ctx context.Context) command.Result {
	return c.run(ctx, "get", "ingress", "-A", "-o", "json")
}
