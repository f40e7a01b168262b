package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateWithPrefix(t *testing.T) {
	sid, err := NewTransferID()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(sid, "tr_"))
	assert.Len(t, sid, len("tr_")+DefaultLength)
	assert.NoError(t, ValidatePrefix(sid, PrefixTransfer))
	assert.Error(t, ValidatePrefix(sid, PrefixQueueEntry))
}

func TestGenerate_Unique(t *testing.T) {
	seen := make(map[string]struct{}, 1000)
	for i := 0; i < 1000; i++ {
		s, err := Generate(0)
		require.NoError(t, err)
		_, dup := seen[s]
		require.False(t, dup)
		seen[s] = struct{}{}
	}
}

func TestValidatePrefix(t *testing.T) {
	tests := []struct {
		sid     string
		wantErr bool
	}{
		{"qe_abc123XYZ", false},
		{"qe_", true},
		{"qe", true},
		{"tr_abc", true},
		{"qe_ab-c", true},
	}
	for _, tt := range tests {
		err := ValidatePrefix(tt.sid, PrefixQueueEntry)
		assert.Equal(t, tt.wantErr, err != nil, tt.sid)
	}
}
