package pathutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpand(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("SLIM_TEST_DIR", "/srv/sessions")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"tilde only", "~", home},
		{"tilde prefix", "~/.claude/active", filepath.Join(home, ".claude", "active")},
		{"env var", "$SLIM_TEST_DIR/active", filepath.Join("/srv/sessions", "active")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Expand(tt.input)
			require.NoError(t, err)
			want, _ := filepath.Abs(tt.expected)
			assert.Equal(t, want, got)
		})
	}
}

func TestExpandRelative(t *testing.T) {
	got, err := Expand("active")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(got))
}
