//go:build windows

package process

import (
	"errors"
	"fmt"
	"unsafe"

	"golang.org/x/sys/windows"
)

// useAncestry is true where the immediate parent is usually a launcher.
const useAncestry = true

func takeSnapshot() (Snapshot, error) {
	h, err := windows.CreateToolhelp32Snapshot(windows.TH32CS_SNAPPROCESS, 0)
	if err != nil {
		return Snapshot{}, fmt.Errorf("create process snapshot: %w", err)
	}
	defer windows.CloseHandle(h)

	snap := NewSnapshot()
	var entry windows.ProcessEntry32
	entry.Size = uint32(unsafe.Sizeof(entry))

	if err := windows.Process32First(h, &entry); err != nil {
		return snap, fmt.Errorf("read first process entry: %w", err)
	}
	for {
		snap.Add(int(entry.ProcessID), int(entry.ParentProcessID), windows.UTF16ToString(entry.ExeFile[:]))

		if err := windows.Process32Next(h, &entry); err != nil {
			if errors.Is(err, windows.ERROR_NO_MORE_FILES) {
				break
			}
			return snap, fmt.Errorf("read process entry: %w", err)
		}
	}

	return snap, nil
}
