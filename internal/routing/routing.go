// Package routing performs the pre-flight host conflict check against the
// cluster's ingress rules.
package routing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	networkingv1 "k8s.io/api/networking/v1"

	"github.com/shopstack/shopstack/internal/platform/command"
)

// Conflict identifies the ingress already claiming a host.
type Conflict struct {
	Namespace string
	Ingress   string
}

// Policy controls how an unverifiable listing is treated.
type Policy string

const (
	// PolicyFailOpen treats a failed or unparseable listing as "no conflict
	// detected". This favors availability: a failed check does NOT guarantee
	// no conflict exists, only that none was detected among what was visible.
	PolicyFailOpen Policy = "fail-open"

	// PolicyFailClosed rejects provisioning when the listing cannot be
	// verified.
	PolicyFailClosed Policy = "fail-closed"
)

// ErrUnverifiable is returned under PolicyFailClosed when the ingress
// listing failed or could not be parsed.
var ErrUnverifiable = errors.New("ingress listing could not be verified")

// IngressLister lists all ingresses across all namespaces.
type IngressLister interface {
	ListIngresses(ctx context.Context) command.Result
}

// Checker scans cluster ingress rules for host collisions.
type Checker struct {
	lister IngressLister
	policy Policy
}

// NewChecker creates a checker with the given policy. An empty policy
// defaults to fail-open, matching the availability-over-strictness default.
func NewChecker(lister IngressLister, policy Policy) *Checker {
	if policy == "" {
		policy = PolicyFailOpen
	}
	return &Checker{lister: lister, policy: policy}
}

// FindHostConflict scans every rule of every ingress for an exact,
// case-sensitive host match and returns the first one found, in listing
// order. No wildcard or suffix matching is applied.
func (c *Checker) FindHostConflict(ctx context.Context, host string) (*Conflict, error) {
	res := c.lister.ListIngresses(ctx)
	if !res.Success() || res.Stdout == "" {
		return c.unverifiable(fmt.Sprintf("could not list ingresses: rc=%d err=%s", res.ExitCode, res.Output()))
	}

	var list networkingv1.IngressList
	if err := json.Unmarshal([]byte(res.Stdout), &list); err != nil {
		return c.unverifiable(fmt.Sprintf("failed to parse ingress listing: %v", err))
	}

	for _, ing := range list.Items {
		for _, rule := range ing.Spec.Rules {
			if rule.Host == host {
				return &Conflict{Namespace: ing.Namespace, Ingress: ing.Name}, nil
			}
		}
	}
	return nil, nil
}

func (c *Checker) unverifiable(reason string) (*Conflict, error) {
	if c.policy == PolicyFailClosed {
		return nil, fmt.Errorf("%w: %s", ErrUnverifiable, reason)
	}
	log.Printf("[routing] WARNING: %s (assuming no conflict)", reason)
	return nil, nil
}
