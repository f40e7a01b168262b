package operator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseChannel(t *testing.T) {
	id, broadcast, ok := ParseChannel(OperatorChannel("op-7"))
	assert.True(t, ok)
	assert.False(t, broadcast)
	assert.Equal(t, "op-7", id)

	_, broadcast, ok = ParseChannel(BroadcastChannel)
	assert.True(t, ok)
	assert.True(t, broadcast)

	for _, bad := range []string{"", "operator:", "visitor:1", "op-7"} {
		_, _, ok := ParseChannel(bad)
		assert.False(t, ok, bad)
	}
}
