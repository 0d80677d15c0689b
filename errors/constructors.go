package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *SlimductorError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *SlimductorError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// RecordInvalid reports a session record file that could not be decoded.
func RecordInvalid(path string, err error) *SlimductorError {
	return Wrap(err, ErrCodeRecordInvalid, "session record is not valid").
		WithDetail("path", path)
}

// RecordWrite reports a failure to create a session record.
func RecordWrite(path string, err error) *SlimductorError {
	return Wrap(err, ErrCodeRecordWrite, "failed to write session record").
		WithDetail("path", path)
}

// RecordRemove reports a failure to delete a session record.
func RecordRemove(path string, err error) *SlimductorError {
	return Wrap(err, ErrCodeRecordRemove, "failed to remove session record").
		WithDetail("path", path)
}

// RegistryUnavailable reports that the active-sessions directory
// could not be created or read.
func RegistryUnavailable(dir string, err error) *SlimductorError {
	return Wrap(err, ErrCodeRegistryUnavailable, fmt.Sprintf("session directory unavailable: %s", dir)).
		WithDetail("dir", dir)
}

// Internal wraps a recovered panic or other unexpected condition.
func Internal(reason string, err error) *SlimductorError {
	return Wrap(err, ErrCodeInternal, reason)
}
