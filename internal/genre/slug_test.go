package genre

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Fiction", "fiction"},
		{"Non Fiction", "non-fiction"},
		{"  Sci-Fi / Fantasy ", "sci-fi-fantasy"},
		{"Ficción", "ficcion"},
		{"", ""},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Slugify(tt.in))
		})
	}
}

func TestKey(t *testing.T) {
	for _, label := range []string{"Non Fiction", "NonFiction", "non-fiction", "NON_FICTION", "nonfiction"} {
		assert.Equal(t, NonFiction, Key(label), label)
	}
	assert.Equal(t, Fiction, Key(" fiction "))
	assert.Equal(t, "poetry", Key("Poetry"))
}

func TestEqual(t *testing.T) {
	assert.True(t, Equal("Non Fiction", "NonFiction"))
	assert.False(t, Equal("Fiction", "Non Fiction"))
}
