package testutil

import (
	"crypto/rand"
	"encoding/hex"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// Env describes the isolated directories set up by IsolateEnv.
type Env struct {
	// Home is SLIMDUCTOR_HOME; config and state live below it.
	Home string
	// HostDir is CLAUDE_CONFIG_DIR.
	HostDir string
	// ActiveDir is the default active-sessions directory under HostDir.
	ActiveDir string
}

// ConfigDir returns the slimductor config directory under Home.
func (e Env) ConfigDir() string {
	return filepath.Join(e.Home, "config")
}

// WriteConfig writes slimductor.yml into the config directory.
func (e Env) WriteConfig(t *testing.T, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(e.ConfigDir(), 0755))
	path := filepath.Join(e.ConfigDir(), "slimductor.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// IsolateEnv points every directory slimductor reads or writes at a fresh
// temp dir and clears the variables that would override them. Everything
// is restored when the test ends.
func IsolateEnv(t *testing.T) Env {
	t.Helper()

	home := t.TempDir()
	env := Env{
		Home:    home,
		HostDir: filepath.Join(home, "claude"),
	}
	env.ActiveDir = filepath.Join(env.HostDir, "active")

	t.Setenv("SLIMDUCTOR_HOME", home)
	t.Setenv("CLAUDE_CONFIG_DIR", env.HostDir)
	for _, name := range []string{
		"SLIMDUCTOR_CONFIG",
		"SLIMDUCTOR_ACTIVE_DIR",
		"SLIMDUCTOR_LOG_LEVEL",
		"SLIMDUCTOR_LOG_CALLER",
		"SLIMDUCTOR_DEBUG",
		"CLAUDE_SESSION_ID",
	} {
		t.Setenv(name, "")
	}
	return env
}

// ExitedPID returns the pid of a process that has already exited and been
// reaped. It re-runs the test binary with a filter that matches no test.
func ExitedPID(t *testing.T) int {
	t.Helper()

	cmd := exec.Command(os.Args[0], "-test.run=^$")
	require.NoError(t, cmd.Run())
	return cmd.Process.Pid
}

// RandomString generates a random string of the specified length
func RandomString(length int) string {
	bytes := make([]byte, length/2+1)
	if _, err := rand.Read(bytes); err != nil {
		panic(err)
	}
	return hex.EncodeToString(bytes)[:length]
}
