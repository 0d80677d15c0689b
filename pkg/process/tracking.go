package process

import (
	"os"
	"strings"
)

// DefaultMaxHops bounds the ancestry walk against cycles and broken snapshots.
const DefaultMaxHops = 15

// Ancestry configures how the tracking pid is found among the ancestors of
// the current process.
type Ancestry struct {
	// HostNames are executable names of the host application. The first
	// ancestor with one of these names wins outright.
	HostNames []string
	// SkipNames are short-lived launchers and shells walked past.
	SkipNames []string
	// MaxHops caps the number of parent steps.
	MaxHops int
}

// DefaultAncestry returns the names used when nothing is configured.
func DefaultAncestry() Ancestry {
	return Ancestry{
		HostNames: []string{"claude.exe", "claude"},
		SkipNames: []string{"py.exe", "python.exe", "python3", "python", "bash.exe", "bash", "sh.exe", "sh"},
		MaxHops:   DefaultMaxHops,
	}
}

// Walk climbs from start through snap. It returns the first ancestor named
// like the host, otherwise the first live ancestor that is not a launcher,
// otherwise the last live ancestor seen. ok is false when no live ancestor
// was found at all.
func (a Ancestry) Walk(start int, snap Snapshot, alive func(int) bool) (pid int, ok bool) {
	hosts := nameSet(a.HostNames)
	skips := nameSet(a.SkipNames)
	hops := a.MaxHops
	if hops <= 0 {
		hops = DefaultMaxHops
	}

	current := start
	lastAlive := 0
	for i := 0; i < hops; i++ {
		parent, known := snap.Parent(current)
		if !known || parent <= 1 || parent == current {
			break
		}

		name := snap.Name(parent)
		if hosts[name] {
			return parent, true
		}
		if alive(parent) {
			lastAlive = parent
			if !skips[name] {
				break
			}
		}
		current = parent
	}

	if lastAlive > 0 {
		return lastAlive, true
	}
	return 0, false
}

// Resolve picks the tracking pid for a process self whose parent is ppid.
// take is nil where the parent pid is authoritative. Resolve never fails:
// snapshot errors and panics fall back to ParentOrSelf.
func (a Ancestry) Resolve(self, ppid int, take func() (Snapshot, error), alive func(int) bool) (pid int) {
	fallback := ParentOrSelf(self, ppid)
	if take == nil {
		return fallback
	}

	defer func() {
		if r := recover(); r != nil {
			pid = fallback
		}
	}()

	snap, err := take()
	if err != nil {
		return fallback
	}
	if found, ok := a.Walk(self, snap, alive); ok {
		return found
	}
	return fallback
}

// ParentOrSelf returns ppid unless it is the idle/init process or otherwise
// degenerate, in which case it returns self.
func ParentOrSelf(self, ppid int) int {
	if ppid > 1 {
		return ppid
	}
	return self
}

// TrackingPID returns the pid of the long-lived process that represents the
// current session.
func TrackingPID(a Ancestry) int {
	var take func() (Snapshot, error)
	if useAncestry {
		take = TakeSnapshot
	}
	return a.Resolve(os.Getpid(), os.Getppid(), take, IsProcessAlive)
}

func nameSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, n := range names {
		set[strings.ToLower(n)] = true
	}
	return set
}
