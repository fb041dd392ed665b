package routing

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	networkingv1 "k8s.io/api/networking/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/shopstack/shopstack/internal/platform/command"
)

type fakeLister struct {
	result command.Result
}

func (f *fakeLister) ListIngresses(_ context.Context) command.Result {
	return f.result
}

func ingressListJSON(t *testing.T, items ...networkingv1.Ingress) string {
	t.Helper()
	data, err := json.Marshal(networkingv1.IngressList{Items: items})
	require.NoError(t, err)
	return string(data)
}

func ingress(namespace, name string, hosts ...string) networkingv1.Ingress {
	rules := make([]networkingv1.IngressRule, 0, len(hosts))
	for _, h := range hosts {
		rules = append(rules, networkingv1.IngressRule{Host: h})
	}
	return networkingv1.Ingress{
		ObjectMeta: metav1.ObjectMeta{Namespace: namespace, Name: name},
		Spec:       networkingv1.IngressSpec{Rules: rules},
	}
}

func TestFindHostConflictMatch(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: ingressListJSON(t,
		ingress("other-ns", "other-ing", "other.example.com"),
		ingress("acme-ns", "acme-ing", "acme.example.com"),
	)}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "acme-ns", conflict.Namespace)
	assert.Equal(t, "acme-ing", conflict.Ingress)
}

func TestFindHostConflictFirstMatchWins(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: ingressListJSON(t,
		ingress("first-ns", "first-ing", "dup.example.com"),
		ingress("second-ns", "second-ing", "dup.example.com"),
	)}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "dup.example.com")
	require.NoError(t, err)
	require.NotNil(t, conflict)
	assert.Equal(t, "first-ns", conflict.Namespace)
}

func TestFindHostConflictExactMatchOnly(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: ingressListJSON(t,
		ingress("ns", "ing", "sub.acme.example.com", "Acme.example.com"),
	)}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFindHostConflictNoMatch(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: ingressListJSON(t)}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFailOpenOnListingFailure(t *testing.T) {
	lister := &fakeLister{result: command.Result{ExitCode: 1, Stderr: "connection refused"}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFailOpenOnMalformedListing(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: "{not json"}}
	c := NewChecker(lister, PolicyFailOpen)

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}

func TestFailClosedOnListingFailure(t *testing.T) {
	lister := &fakeLister{result: command.Result{ExitCode: 1, Stderr: "connection refused"}}
	c := NewChecker(lister, PolicyFailClosed)

	_, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrUnverifiable)
}

func TestFailClosedOnMalformedListing(t *testing.T) {
	lister := &fakeLister{result: command.Result{Stdout: "{not json"}}
	c := NewChecker(lister, PolicyFailClosed)

	_, err := c.FindHostConflict(context.Background(), "acme.example.com")
	assert.ErrorIs(t, err, ErrUnverifiable)
}

func TestDefaultPolicyIsFailOpen(t *testing.T) {
	lister := &fakeLister{result: command.Result{ExitCode: 1}}
	c := NewChecker(lister, "")

	conflict, err := c.FindHostConflict(context.Background(), "acme.example.com")
	require.NoError(t, err)
	assert.Nil(t, conflict)
}
