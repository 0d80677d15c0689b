package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/lifeisriding/slimductor/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastLinesOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "x.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\nthree\n"), 0644))

	tests := []struct {
		n    int
		want int64
	}{
		{0, 0},
		{1, 8},
		{2, 4},
		{3, 0},
		{10, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d", tt.n), func(t *testing.T) {
			got, err := lastLinesOffset(path, tt.n)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFindLatestLogFile(t *testing.T) {
	dir := t.TempDir()
	older := filepath.Join(dir, "slimductor-2025-01-01.log")
	newer := filepath.Join(dir, "slimductor-2025-01-02.log")
	require.NoError(t, os.WriteFile(older, []byte("a\n"), 0644))
	require.NoError(t, os.WriteFile(newer, []byte("b\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("c\n"), 0644))
	past := time.Now().Add(-time.Hour)
	require.NoError(t, os.Chtimes(older, past, past))

	got, err := findLatestLogFile(dir)
	require.NoError(t, err)
	assert.Equal(t, newer, got)

	_, err = findLatestLogFile(filepath.Join(dir, "missing"))
	assert.Error(t, err)
}

func TestLogsCmd(t *testing.T) {
	env := testutil.IsolateEnv(t)
	logFile := filepath.Join(t.TempDir(), "diag.log")
	require.NoError(t, os.WriteFile(logFile, []byte("first\nsecond\nthird\n"), 0644))
	env.WriteConfig(t, fmt.Sprintf("logging:\n  file:\n    path: %s\n", logFile))

	assert.Equal(t, "second\nthird\n", mustRun(t, "logs", "-n", "2"))
	assert.Equal(t, "first\nsecond\nthird\n", mustRun(t, "logs", "-n", "0"))
}
