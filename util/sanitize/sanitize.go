package sanitize

import (
	"strings"
)

// keyReplacer replaces characters that would let a key escape its directory
// or that no filesystem accepts in a file name.
var keyReplacer = strings.NewReplacer(
	"/", "_",
	`\`, "_",
	"\x00", "_",
	":", "_",
)

// ForSessionKey makes a session key safe to use as a single file name.
// Ordinary identifiers such as UUIDs or "pid-1234" are returned unchanged.
func ForSessionKey(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}

	s = keyReplacer.Replace(s)

	// Dot-only names resolve to the directory itself or its parent
	if strings.Trim(s, ".") == "" {
		return strings.Repeat("_", len(s))
	}

	return s
}
