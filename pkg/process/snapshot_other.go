//go:build !windows

package process

const useAncestry = false

func takeSnapshot() (Snapshot, error) {
	return Snapshot{}, ErrSnapshotUnsupported
}
