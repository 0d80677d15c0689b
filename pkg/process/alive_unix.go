//go:build unix

package process

import (
	"errors"

	"golang.org/x/sys/unix"
)

// IsProcessAlive checks if a process with the given PID is still running.
func IsProcessAlive(pid int) bool {
	// PID 0 or less is invalid.
	if pid <= 0 {
		return false
	}

	// Signal 0 performs the existence and permission checks without delivering anything.
	// EPERM means the process exists but belongs to someone else; ESRCH means it is gone.
	err := unix.Kill(pid, 0)
	return err == nil || errors.Is(err, unix.EPERM)
}
