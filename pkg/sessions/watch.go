package sessions

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/lifeisriding/slimductor/errors"
)

// DefaultDebounce groups bursts of record changes into one notification.
const DefaultDebounce = 200 * time.Millisecond

// Watch calls onChange after record files are created, written or removed,
// once per burst of events. It blocks until ctx is cancelled. The directory
// is created if needed so a watch can start before any session registers.
// Watching needs the OS filesystem regardless of the registry's Fs.
func (r *Registry) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if err := os.MkdirAll(r.dir, 0755); err != nil {
		return errors.RegistryUnavailable(r.dir, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(r.dir); err != nil {
		return errors.RegistryUnavailable(r.dir, err)
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(event.Name, recordExt) {
				continue
			}
			if event.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			r.logger.Debugf("fsnotify event: %s op=%v", filepath.Base(event.Name), event.Op)
			timer.Reset(debounce)
		case <-timer.C:
			onChange()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			r.logger.Errorf("Watcher error: %v", err)
		case <-ctx.Done():
			return nil
		}
	}
}
