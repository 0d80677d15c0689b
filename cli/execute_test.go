package cli

import (
	"bytes"
	"context"
	stderrors "errors"
	"testing"

	"github.com/lifeisriding/slimductor/errors"
	"github.com/lifeisriding/slimductor/testutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func isolate(t *testing.T) {
	t.Helper()
	testutil.IsolateEnv(t)
}

func newTestRoot(run func(cmd *cobra.Command, args []string) error) (*cobra.Command, *bytes.Buffer) {
	root := NewStandardCommand("slimductor", "test root")
	sub := &cobra.Command{Use: "do", RunE: run}
	root.AddCommand(sub)

	var errBuf bytes.Buffer
	root.SetErr(&errBuf)
	root.SetOut(&bytes.Buffer{})
	return root, &errBuf
}

func TestExecuteSuccess(t *testing.T) {
	isolate(t)
	root, errBuf := newTestRoot(func(cmd *cobra.Command, args []string) error { return nil })
	root.SetArgs([]string{"do"})

	res := Execute(context.Background(), root)
	assert.True(t, res.OK())
	assert.False(t, res.Panicked)
	assert.Equal(t, "slimductor do", res.Command)
	assert.Empty(t, errBuf.String())
}

func TestExecuteCapturesError(t *testing.T) {
	isolate(t)
	boom := stderrors.New("disk on fire")
	root, errBuf := newTestRoot(func(cmd *cobra.Command, args []string) error { return boom })
	root.SetArgs([]string{"do"})

	res := Execute(context.Background(), root)
	require.False(t, res.OK())
	assert.ErrorIs(t, res.Err, boom)
	assert.Empty(t, errBuf.String(), "failures stay silent without --verbose")
}

func TestExecuteVerbosePrintsError(t *testing.T) {
	isolate(t)
	root, errBuf := newTestRoot(func(cmd *cobra.Command, args []string) error {
		return errors.RegistryUnavailable("/nope", stderrors.New("read-only"))
	})
	root.SetArgs([]string{"do", "--verbose"})

	res := Execute(context.Background(), root)
	require.False(t, res.OK())
	assert.Contains(t, errBuf.String(), "Session directory is not usable")
	assert.Contains(t, errBuf.String(), "REGISTRY_UNAVAILABLE")
}

func TestExecuteRecoversPanic(t *testing.T) {
	isolate(t)
	root, _ := newTestRoot(func(cmd *cobra.Command, args []string) error {
		var m map[string]int
		m["x"] = 1
		return nil
	})
	root.SetArgs([]string{"do"})

	var res Result
	assert.NotPanics(t, func() {
		res = Execute(context.Background(), root)
	})
	assert.True(t, res.Panicked)
	assert.True(t, errors.Is(res.Err, errors.ErrCodeInternal))
}

func TestExecuteUnknownCommand(t *testing.T) {
	isolate(t)
	root, errBuf := newTestRoot(func(cmd *cobra.Command, args []string) error { return nil })
	root.SetArgs([]string{"nonsense"})

	res := Execute(context.Background(), root)
	assert.False(t, res.OK())
	assert.Empty(t, errBuf.String())
}

func TestGetOptions(t *testing.T) {
	root, _ := newTestRoot(func(cmd *cobra.Command, args []string) error {
		opts := GetOptions(cmd)
		assert.True(t, opts.JSONOutput)
		assert.Equal(t, "/tmp/s.yml", opts.ConfigFile)
		assert.False(t, opts.Verbose)
		return nil
	})
	root.SetArgs([]string{"do", "--json", "-c", "/tmp/s.yml"})
	require.NoError(t, root.Execute())

	// The root sees the values parsed by the subcommand.
	assert.True(t, GetOptions(root).JSONOutput)
}
