package provisioning

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorString(t *testing.T) {
	err := &Error{Kind: KindRoutingConflict, Detail: "host taken"}
	assert.Equal(t, "routing_conflict: host taken", err.Error())
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short"))

	long := strings.Repeat("a", MaxDetailLen+500)
	got := Truncate(long)
	assert.Len(t, got, MaxDetailLen)
}

func TestTruncateExactBoundary(t *testing.T) {
	s := strings.Repeat("b", MaxDetailLen)
	assert.Equal(t, s, Truncate(s))
}
