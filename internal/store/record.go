// Package store tracks the lifecycle of provisioned store stacks.
//
// The registry is the single source of truth for status transitions. It is
// process-local by design: records live exactly as long as the orchestrator
// process (see the deprovision contract — registry entries track
// orchestration intent, not confirmed cluster state).
package store

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/shopstack/shopstack/internal/util/naming"
)

// Status represents the lifecycle state of a store stack.
type Status string

const (
	// StatusProvisioning is the initial state of a freshly accepted request.
	StatusProvisioning Status = "Provisioning"
	// StatusReady means every provisioning step completed.
	StatusReady Status = "Ready"
	// StatusFailed means a step failed; any partial resources have been
	// rolled back on a best-effort basis.
	StatusFailed Status = "Failed"
)

// Terminal reports whether no further transitions are allowed out of s.
func (s Status) Terminal() bool {
	return s == StatusReady || s == StatusFailed
}

// EnvLocal selects the local values profile; every other environment value
// falls back to the production profile.
const (
	EnvLocal = "local"
	EnvProd  = "prod"
)

// Record represents one provisioned (or provisioning/failed) store stack.
type Record struct {
	ID          string    `json:"id"`
	StoreName   string    `json:"store_name"`
	Namespace   string    `json:"namespace"`
	Domain      string    `json:"domain"`
	Status      Status    `json:"status"`
	HelmRelease string    `json:"helm_release"`
	Environment string    `json:"environment"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewID returns a short unique store identifier.
func NewID() string {
	return uuid.NewString()[:8]
}

// NewRecord builds a Provisioning record with derived resource names.
// storeName must already be normalized (see NormalizeName); namespace and
// release are always identical by construction.
func NewRecord(storeName, domain, environment string) Record {
	id := NewID()
	return Record{
		ID:          id,
		StoreName:   storeName,
		Namespace:   naming.Namespace(storeName, id),
		Domain:      domain,
		Status:      StatusProvisioning,
		HelmRelease: naming.Release(storeName, id),
		Environment: environment,
		CreatedAt:   time.Now().UTC(),
	}
}

// NormalizeName lowercases and trims a caller-supplied store name.
func NormalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
