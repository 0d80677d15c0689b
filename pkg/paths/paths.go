// Package paths provides path resolution for slimductor and its host.
//
// The tool's own directories resolve in this order:
// 1. SLIMDUCTOR_HOME (portable root) → $SLIMDUCTOR_HOME/{config,state}
// 2. XDG env vars → $XDG_*_HOME/slimductor
// 3. Platform defaults → ~/.config/slimductor, ~/.local/state/slimductor
//
// The host directory is CLAUDE_CONFIG_DIR when set, otherwise ~/.claude.
package paths

import (
	"os"
	"path/filepath"
)

const appName = "slimductor"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if home := os.Getenv("SLIMDUCTOR_HOME"); home != "" {
		return filepath.Join(home, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if home := os.Getenv("SLIMDUCTOR_HOME"); home != "" {
		return filepath.Join(home, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the slimductor configuration directory.
func ConfigDir() string {
	if os.Getenv("SLIMDUCTOR_HOME") != "" {
		return getConfigHome()
	}
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the slimductor state directory.
// Used for diagnostics logs.
func StateDir() string {
	if os.Getenv("SLIMDUCTOR_HOME") != "" {
		return getStateHome()
	}
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// LogDir returns the directory holding the diagnostics log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// HostDir returns the host application's config directory.
func HostDir() string {
	if dir := os.Getenv("CLAUDE_CONFIG_DIR"); dir != "" {
		return dir
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".claude")
	}
	return ""
}

// ActiveDir returns the default active-sessions directory.
func ActiveDir() string {
	host := HostDir()
	if host == "" {
		return ""
	}
	return filepath.Join(host, "active")
}
