// Package provisioning orchestrates the per-store resource lifecycle:
// namespace, credential secret and chart release, with a pre-flight host
// conflict check, best-effort rollback on partial failure, and registry
// bookkeeping.
package provisioning

import (
	"context"
	"errors"
	"time"

	"github.com/shopstack/shopstack/internal/platform/command"
	"github.com/shopstack/shopstack/internal/platform/helmcli"
	"github.com/shopstack/shopstack/internal/routing"
	"github.com/shopstack/shopstack/internal/store"
	"github.com/shopstack/shopstack/internal/util/keygen"
	"github.com/shopstack/shopstack/internal/util/naming"
)

// Cluster is the control-plane capability consumed by the orchestrator.
// Implemented by kubectl.Client.
type Cluster interface {
	CreateNamespace(ctx context.Context, name string) command.Result
	DeleteNamespace(ctx context.Context, name string) command.Result
	CreateSecret(ctx context.Context, name, namespace string, literals map[string]string) command.Result
}

// Deployer is the package-deployment capability. Implemented by
// helmcli.Client.
type Deployer interface {
	Install(ctx context.Context, opts helmcli.InstallOptions) command.Result
	Uninstall(ctx context.Context, release, namespace string) command.Result
}

// ConflictFinder performs the pre-flight host conflict check. Implemented by
// routing.Checker.
type ConflictFinder interface {
	FindHostConflict(ctx context.Context, host string) (*routing.Conflict, error)
}

// ProvisionRequest is a transport-level request to provision a store stack.
type ProvisionRequest struct {
	StoreName   string `json:"store_name"`
	Domain      string `json:"domain"`
	Environment string `json:"environment"`
}

// Config holds the chart and values locations used for every release.
type Config struct {
	ChartPath   string
	ValuesLocal string
	ValuesProd  string

	// InstallTimeout bounds the release install including its readiness
	// wait.
	InstallTimeout time.Duration
}

// Service coordinates the registry, the conflict checker and the cluster
// capabilities for provision and deprovision requests.
type Service struct {
	registry  *Registry
	cluster   Cluster
	deployer  Deployer
	conflicts ConflictFinder
	cfg       Config
	obs       Observer
}

// Registry is the store registry consumed by the service.
type Registry = store.Registry

// NewService creates the orchestration service.
func NewService(registry *Registry, cluster Cluster, deployer Deployer, conflicts ConflictFinder, cfg Config, obs Observer) *Service {
	if cfg.InstallTimeout == 0 {
		cfg.InstallTimeout = 10 * time.Minute
	}
	if obs == nil {
		obs = NewConsoleObserver()
	}
	return &Service{
		registry:  registry,
		cluster:   cluster,
		deployer:  deployer,
		conflicts: conflicts,
		cfg:       cfg,
		obs:       obs,
	}
}

// Provision runs the ordered provisioning sequence for one request:
// registry record, conflict check, namespace, credential secret, chart
// release. On a release failure it rolls back best-effort before marking the
// record Failed. The returned record reflects the final registry state.
func (s *Service) Provision(ctx context.Context, req ProvisionRequest) (store.Record, error) {
	req.normalize()
	if verrs := req.validate(); len(verrs) > 0 {
		observeProvision("invalid", 0)
		return store.Record{}, invalidInput(verrs)
	}

	rec := store.NewRecord(req.StoreName, req.Domain, req.Environment)
	s.registry.Put(rec)
	setStoresTracked(s.registry.Len())

	obs := s.obs.WithFields(map[string]string{
		"namespace": rec.Namespace,
		"domain":    rec.Domain,
	})
	obs.Event(Event{Type: EventProvisionStarted, Store: rec.ID, Message: "provision accepted"})

	start := time.Now()

	// Pre-flight: the requested host must not be claimed by any other
	// active ingress.
	conflict, err := s.conflicts.FindHostConflict(ctx, rec.Domain)
	if err != nil {
		return s.fail(rec, obs, "conflict", newError(KindProvisioningFailure, "host conflict check failed: %v", err), start)
	}
	if conflict != nil {
		return s.fail(rec, obs, "conflict", newError(KindRoutingConflict,
			"ingress host conflict: host %q already used in %s/%s", rec.Domain, conflict.Namespace, conflict.Ingress), start)
	}

	// Namespace (idempotent create).
	obs.Event(Event{Type: EventResourceCreating, Store: rec.ID, Resource: rec.Namespace, Message: "creating namespace"})
	if res := s.cluster.CreateNamespace(ctx, rec.Namespace); !res.Success() {
		if !res.AlreadyExists() {
			return s.fail(rec, obs, "failed", newError(KindProvisioningFailure, "namespace creation failed: %s", res.Output()), start)
		}
		obs.Event(Event{Type: EventResourceExists, Store: rec.ID, Resource: rec.Namespace, Message: "namespace already exists"})
	}

	// Credential secret with two independently generated passwords,
	// generated fresh per call, never logged (idempotent create).
	rootPassword, rootErr := keygen.Token()
	userPassword, userErr := keygen.Token()
	if rootErr != nil || userErr != nil {
		return s.fail(rec, obs, "failed", newError(KindProvisioningFailure, "credential generation failed: %v", errors.Join(rootErr, userErr)), start)
	}

	secretName := naming.DBSecret(rec.Namespace)
	obs.Event(Event{Type: EventResourceCreating, Store: rec.ID, Resource: secretName, Message: "creating db secret"})
	if res := s.cluster.CreateSecret(ctx, secretName, rec.Namespace, map[string]string{
		"root-password": rootPassword,
		"user-password": userPassword,
	}); !res.Success() {
		if !res.AlreadyExists() {
			return s.fail(rec, obs, "failed", newError(KindProvisioningFailure, "secret creation failed: %s", res.Output()), start)
		}
		obs.Event(Event{Type: EventResourceExists, Store: rec.ID, Resource: secretName, Message: "db secret already exists"})
	}

	// Chart release, blocking until ready or timeout.
	obs.Event(Event{Type: EventResourceCreating, Store: rec.ID, Resource: rec.HelmRelease, Message: "installing release"})
	res := s.deployer.Install(ctx, helmcli.InstallOptions{
		Release:    rec.HelmRelease,
		Chart:      s.cfg.ChartPath,
		Namespace:  rec.Namespace,
		ValuesFile: s.valuesFile(rec.Environment),
		Set: map[string]string{
			"ingress.host": rec.Domain,
			"storeName":    rec.Namespace,
		},
		Wait:    true,
		Timeout: s.cfg.InstallTimeout,
	})
	if !res.Success() {
		report := s.rollback(ctx, rec, obs)
		perr := newError(KindProvisioningFailure, "helm install failed: %s", res.Output())
		perr.Rollback = report
		return s.fail(rec, obs, "failed", perr, start)
	}

	rec, _ = s.registry.SetStatus(rec.ID, store.StatusReady)
	obs.Event(Event{Type: EventProvisionCompleted, Store: rec.ID, Message: "store ready"})
	observeProvision("ready", time.Since(start))
	return rec, nil
}

// valuesFile selects the configuration profile for an environment. Anything
// other than "local" gets the production profile.
func (s *Service) valuesFile(environment string) string {
	if environment == store.EnvLocal {
		return s.cfg.ValuesLocal
	}
	return s.cfg.ValuesProd
}

// rollback attempts release uninstall then namespace deletion. Both steps
// run even when the first fails; failures are recorded and logged, never
// propagated.
func (s *Service) rollback(ctx context.Context, rec store.Record, obs Observer) *RollbackReport {
	report := &RollbackReport{}

	res := s.deployer.Uninstall(ctx, rec.HelmRelease, rec.Namespace)
	report.Uninstall = rollbackOutcome(res)
	obs.Event(Event{
		Type: EventRollbackStep, Store: rec.ID, Resource: rec.HelmRelease,
		Message: "release uninstall attempted",
		Fields:  map[string]string{"succeeded": boolString(res.Success())},
	})

	res = s.cluster.DeleteNamespace(ctx, rec.Namespace)
	report.DeleteNamespace = rollbackOutcome(res)
	obs.Event(Event{
		Type: EventRollbackStep, Store: rec.ID, Resource: rec.Namespace,
		Message: "namespace deletion attempted",
		Fields:  map[string]string{"succeeded": boolString(res.Success())},
	})

	return report
}

func rollbackOutcome(res command.Result) RollbackOutcome {
	out := RollbackOutcome{Attempted: true, Succeeded: res.Success()}
	if !res.Success() {
		out.Diagnostic = Truncate(res.Output())
	}
	return out
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// fail marks the record Failed and returns the final registry state together
// with the taxonomy error.
func (s *Service) fail(rec store.Record, obs Observer, result string, perr *Error, start time.Time) (store.Record, error) {
	failed, ok := s.registry.SetStatus(rec.ID, store.StatusFailed)
	if !ok {
		failed = rec
		failed.Status = store.StatusFailed
	}
	obs.Event(Event{Type: EventProvisionFailed, Store: rec.ID, Message: perr.Detail})
	observeProvision(result, time.Since(start))
	return failed, perr
}

// Deprovision result statuses.
const (
	StatusDeleted        = "deleted"
	StatusUninstallError = "uninstall-error"
)

// ToolReport carries one teardown tool's captured outcome.
type ToolReport struct {
	ExitCode int    `json:"rc"`
	Stdout   string `json:"out,omitempty"`
	Stderr   string `json:"err,omitempty"`
}

// DeprovisionResult reports a teardown outcome. Status is StatusDeleted when
// the release uninstall succeeded, StatusUninstallError otherwise (with both
// tools' diagnostics attached).
type DeprovisionResult struct {
	Status    string      `json:"status"`
	Release   string      `json:"release,omitempty"`
	Namespace string      `json:"namespace,omitempty"`
	HelmError string      `json:"helm_err,omitempty"`
	Kubectl   *ToolReport `json:"kubectl,omitempty"`
}

// Deprovision reverses provisioning for a tracked store: release uninstall,
// then namespace deletion (run regardless of the uninstall outcome — the
// namespace delete is a superset cleanup). The registry entry is always
// removed: it tracks orchestration intent, not confirmed external state.
func (s *Service) Deprovision(ctx context.Context, id string) (DeprovisionResult, error) {
	rec, ok := s.registry.Get(id)
	if !ok {
		observeDeprovision("not-found")
		return DeprovisionResult{}, newError(KindNotFound, "store %s not found", id)
	}

	obs := s.obs.WithFields(map[string]string{"namespace": rec.Namespace})
	obs.Event(Event{Type: EventResourceDeleting, Store: rec.ID, Resource: rec.HelmRelease, Message: "uninstalling release"})

	unres := s.deployer.Uninstall(ctx, rec.HelmRelease, rec.Namespace)

	obs.Event(Event{Type: EventResourceDeleting, Store: rec.ID, Resource: rec.Namespace, Message: "deleting namespace"})
	nsres := s.cluster.DeleteNamespace(ctx, rec.Namespace)

	s.registry.Remove(id)
	setStoresTracked(s.registry.Len())

	out := DeprovisionResult{
		Release:   rec.HelmRelease,
		Namespace: rec.Namespace,
	}
	if !unres.Success() {
		out.Status = StatusUninstallError
		out.HelmError = Truncate(unres.Output())
		out.Kubectl = &ToolReport{
			ExitCode: nsres.ExitCode,
			Stdout:   Truncate(nsres.Stdout),
			Stderr:   Truncate(nsres.Stderr),
		}
		obs.Event(Event{Type: EventResourceFailed, Store: rec.ID, Resource: rec.HelmRelease, Message: "release uninstall failed"})
		observeDeprovision(StatusUninstallError)
		return out, nil
	}

	out.Status = StatusDeleted
	obs.Event(Event{Type: EventResourceDeleted, Store: rec.ID, Resource: rec.Namespace, Message: "store deleted"})
	observeDeprovision(StatusDeleted)
	return out, nil
}

// List returns all currently tracked records, unfiltered.
func (s *Service) List() []store.Record {
	return s.registry.List()
}
