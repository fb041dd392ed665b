package provisioning

import (
	"fmt"
	"strings"

	"github.com/shopstack/shopstack/internal/store"
)

// ValidationError represents a request validation failure.
type ValidationError struct {
	Field   string // Request field that failed validation
	Message string // Human-readable error message
}

// Error implements the error interface.
func (ve ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", ve.Field, ve.Message)
}

// normalize trims and lowercases the caller-supplied fields and applies the
// environment default.
func (r *ProvisionRequest) normalize() {
	r.StoreName = store.NormalizeName(r.StoreName)
	r.Domain = strings.TrimSpace(r.Domain)
	r.Environment = strings.ToLower(strings.TrimSpace(r.Environment))
	if r.Environment == "" {
		r.Environment = store.EnvLocal
	}
}

// validate runs all request checks and returns any errors. It must be called
// after normalize.
func (r ProvisionRequest) validate() []ValidationError {
	var errs []ValidationError

	if r.StoreName == "" {
		errs = append(errs, ValidationError{
			Field:   "store_name",
			Message: "store_name is required",
		})
	}
	if r.Domain == "" {
		errs = append(errs, ValidationError{
			Field:   "domain",
			Message: "domain is required",
		})
	}

	return errs
}

func invalidInput(errs []ValidationError) *Error {
	msgs := make([]string, 0, len(errs))
	for _, ve := range errs {
		msgs = append(msgs, ve.Error())
	}
	return newError(KindInvalidInput, "%s", strings.Join(msgs, "; "))
}
