package process

import (
	"errors"
	"strings"
)

// ErrSnapshotUnsupported is returned by TakeSnapshot on platforms where the
// parent pid is used directly.
var ErrSnapshotUnsupported = errors.New("process snapshot not supported on this platform")

// Snapshot is a point-in-time view of the process table.
type Snapshot struct {
	// Parents maps a pid to its parent pid.
	Parents map[int]int
	// Names maps a pid to its lower-cased executable name.
	Names map[int]string
}

// NewSnapshot returns an empty snapshot ready for Add.
func NewSnapshot() Snapshot {
	return Snapshot{
		Parents: make(map[int]int),
		Names:   make(map[int]string),
	}
}

// Add records a process in the snapshot.
func (s Snapshot) Add(pid, parent int, name string) {
	s.Parents[pid] = parent
	s.Names[pid] = strings.ToLower(name)
}

// Parent returns the parent of pid and whether pid is known.
func (s Snapshot) Parent(pid int) (int, bool) {
	parent, ok := s.Parents[pid]
	return parent, ok
}

// Name returns the executable name of pid, or "" when unknown.
func (s Snapshot) Name(pid int) string {
	return s.Names[pid]
}

// TakeSnapshot captures the current process table.
func TakeSnapshot() (Snapshot, error) {
	return takeSnapshot()
}
