package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	id := NewID()
	assert.Len(t, id, 8)

	other := NewID()
	assert.NotEqual(t, id, other)
}

func TestNewRecordDerivesNames(t *testing.T) {
	rec := NewRecord("acme", "acme.example.com", EnvLocal)

	require.Len(t, rec.ID, 8)
	assert.Equal(t, "acme-"+rec.ID, rec.Namespace)
	assert.Equal(t, rec.Namespace, rec.HelmRelease)
	assert.Equal(t, StatusProvisioning, rec.Status)
	assert.Equal(t, "acme.example.com", rec.Domain)
	assert.False(t, rec.CreatedAt.IsZero())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Acme", "acme"},
		{"  acme  ", "acme"},
		{"ACME Store", "acme store"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizeName(tt.in))
	}
}

func TestStatusTerminal(t *testing.T) {
	assert.False(t, StatusProvisioning.Terminal())
	assert.True(t, StatusReady.Terminal())
	assert.True(t, StatusFailed.Terminal())
}
