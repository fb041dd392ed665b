package provisioning

import "fmt"

// Kind classifies orchestration failures for the transport layer.
type Kind string

const (
	// KindInvalidInput marks requests rejected before any side effect.
	KindInvalidInput Kind = "invalid_input"
	// KindRoutingConflict marks hosts already claimed by another ingress,
	// rejected before any resource creation.
	KindRoutingConflict Kind = "routing_conflict"
	// KindProvisioningFailure marks a failed namespace/secret/release step;
	// already-created resources have been best-effort rolled back.
	KindProvisioningFailure Kind = "provisioning_failure"
	// KindNotFound marks deprovision requests for unknown store ids.
	KindNotFound Kind = "not_found"
)

// MaxDetailLen bounds diagnostic text echoed to callers.
const MaxDetailLen = 1000

// Error is an orchestration failure with a bounded human-readable detail.
// Tool output never crosses the boundary unbounded, and nothing here is
// fatal to the process.
type Error struct {
	Kind   Kind
	Detail string

	// Rollback describes the cleanup attempted after a partial provisioning
	// failure. Nil when no resources had been created yet.
	Rollback *RollbackReport
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Detail)
}

func newError(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Detail: Truncate(fmt.Sprintf(format, args...))}
}

// Truncate bounds s to MaxDetailLen characters.
func Truncate(s string) string {
	if len(s) <= MaxDetailLen {
		return s
	}
	return s[:MaxDetailLen]
}

// RollbackOutcome records one best-effort cleanup step taken after a failed
// provisioning run. Failures here are swallowed (logged and reported, never
// propagated).
type RollbackOutcome struct {
	Attempted  bool   `json:"attempted"`
	Succeeded  bool   `json:"succeeded"`
	Diagnostic string `json:"diagnostic,omitempty"`
}

// RollbackReport covers both cleanup steps of a failed release install, in
// execution order: release uninstall first, then namespace deletion.
type RollbackReport struct {
	Uninstall       RollbackOutcome `json:"uninstall"`
	DeleteNamespace RollbackOutcome `json:"delete_namespace"`
}
