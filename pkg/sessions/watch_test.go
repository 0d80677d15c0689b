package sessions

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestWatchNotifiesOnRecordChanges(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "active")
	r, err := New(Options{Dir: dir})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	changes := make(chan struct{}, 8)
	done := make(chan error, 1)
	go func() {
		done <- r.Watch(ctx, 20*time.Millisecond, func() {
			select {
			case changes <- struct{}{}:
			default:
			}
		})
	}()

	// Wait for the watcher to create the directory before writing.
	require.Eventually(t, func() bool {
		_, err := os.Stat(dir)
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	// Writes keep coming until one is observed, so a slow watcher start
	// cannot make the test miss the event.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(filepath.Join(dir, "S1.json"), []byte(`{"pid": 1}`), 0644)
		select {
		case <-changes:
			return true
		default:
			return false
		}
	}, 5*time.Second, 50*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("watch did not stop after cancel")
	}
}
