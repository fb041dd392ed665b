package naming

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNamespace(t *testing.T) {
	assert.Equal(t, "acme-1a2b3c4d", Namespace("acme", "1a2b3c4d"))
}

func TestReleaseEqualsNamespace(t *testing.T) {
	assert.Equal(t, Namespace("acme", "1a2b3c4d"), Release("acme", "1a2b3c4d"))
}

func TestDBSecret(t *testing.T) {
	assert.Equal(t, "acme-1a2b3c4d-db-secret", DBSecret("acme-1a2b3c4d"))
}
