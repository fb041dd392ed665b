// Package config loads and validates the orchestrator configuration.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config holds the application configuration.
type Config struct {
	// ListenAddr is the HTTP listen address.
	ListenAddr string `yaml:"listen_addr"`

	// Kubeconfig is an explicit kubeconfig path passed to kubectl and helm.
	// Empty uses the tools' own resolution.
	Kubeconfig string `yaml:"kubeconfig"`

	// RepoRoot is the working directory for helm invocations, so a relative
	// ChartPath resolves against it.
	RepoRoot string `yaml:"repo_root"`

	// ChartPath is the chart installed for every store.
	ChartPath string `yaml:"chart_path"`

	// ValuesLocal and ValuesProd are the per-environment values profiles.
	ValuesLocal string `yaml:"values_local"`
	ValuesProd  string `yaml:"values_prod"`

	// ConflictPolicy is "fail-open" (default) or "fail-closed" and controls
	// how an unverifiable ingress listing is treated.
	ConflictPolicy string `yaml:"conflict_policy"`

	// AllowedOrigins are the CORS origins permitted to call the API.
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8000"
	}
	if c.ConflictPolicy == "" {
		c.ConflictPolicy = "fail-open"
	}
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"http://localhost:3000"}
	}
}

// Validate checks required fields and path existence. All problems are
// reported at once.
func (c *Config) Validate() error {
	var errs []string

	if c.ChartPath == "" {
		errs = append(errs, "chart_path is required")
	}
	if c.ValuesLocal == "" {
		errs = append(errs, "values_local is required")
	}
	if c.ValuesProd == "" {
		errs = append(errs, "values_prod is required")
	}

	switch c.ConflictPolicy {
	case "fail-open", "fail-closed":
	default:
		errs = append(errs, fmt.Sprintf("conflict_policy must be fail-open or fail-closed, got %q", c.ConflictPolicy))
	}

	for _, p := range []struct{ field, path string }{
		{"values_local", c.ValuesLocal},
		{"values_prod", c.ValuesProd},
	} {
		if p.path == "" {
			continue
		}
		if info, err := os.Stat(c.resolve(p.path)); err != nil || info.IsDir() {
			errs = append(errs, fmt.Sprintf("%s: file not found: %s", p.field, p.path))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("%s", strings.Join(errs, "; "))
	}
	return nil
}

// resolve makes a path absolute against RepoRoot when it is relative.
func (c *Config) resolve(path string) string {
	if c.RepoRoot == "" || strings.HasPrefix(path, "/") {
		return path
	}
	return c.RepoRoot + "/" + path
}

// ResolveChartPath returns the chart location resolved against RepoRoot.
func (c *Config) ResolveChartPath() string {
	return c.resolve(c.ChartPath)
}
