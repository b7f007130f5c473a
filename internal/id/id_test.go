package id

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate_Uniqueness(t *testing.T) {
	ids := make(map[string]bool)
	count := 1000

	for range count {
		id, err := Generate("test")
		require.NoError(t, err)
		assert.False(t, ids[id], "ID should be unique: %s", id)
		ids[id] = true
	}

	assert.Len(t, ids, count)
}

func TestGenerate_Format(t *testing.T) {
	id, err := Generate("ds")
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(id, "ds-"))
	body := strings.TrimPrefix(id, "ds-")
	assert.Len(t, body, size)

	for _, char := range body {
		assert.True(t, (char >= 'a' && char <= 'z') || (char >= '0' && char <= '9'),
			"character %c should be lowercase alphanumeric", char)
	}
}

func TestSnapshot(t *testing.T) {
	a, b := Snapshot(), Snapshot()

	assert.True(t, strings.HasPrefix(a, SnapshotPrefix+"-"))
	assert.NotEqual(t, a, b)
}

func BenchmarkGenerate(b *testing.B) {
	for b.Loop() {
		_, _ = Generate("bench")
	}
}
