package sessions

import (
	"fmt"
	"time"
)

// TimeFormat is the layout of Record.StartedAt. It is always UTC.
const TimeFormat = "2006-01-02T15:04:05Z"

// UnknownSessionID is stored when the host supplied no session id.
const UnknownSessionID = "unknown"

// OrchestratorRole is the role counted separately in summaries.
const OrchestratorRole = "orchestrator"

// Record is the data stored on disk for one active session.
type Record struct {
	// TrackingID is the file key. It is derived from the file name and not
	// stored in the body.
	TrackingID string `json:"-"`

	PID       int    `json:"pid" jsonschema:"description=Process id of the long-lived process tracked for liveness"`
	StartedAt string `json:"startedAt" jsonschema:"description=UTC registration time (YYYY-MM-DDTHH:MM:SSZ)"`
	SessionID string `json:"sessionId" jsonschema:"description=Host-supplied session id or \"unknown\""`
	Cwd       string `json:"cwd" jsonschema:"description=Working directory at registration"`
	Role      string `json:"role" jsonschema:"description=Session role such as orchestrator or worker"`
}

// FormatTime renders t in the record timestamp layout.
func FormatTime(t time.Time) string {
	return t.UTC().Format(TimeFormat)
}

// Started parses StartedAt. An empty value yields the zero time and no error.
func (r Record) Started() (time.Time, error) {
	if r.StartedAt == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(TimeFormat, r.StartedAt)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid startedAt %q: %w", r.StartedAt, err)
	}
	return t, nil
}

// Age returns how long ago the record was started. A record without a
// timestamp has age zero.
func (r Record) Age(now time.Time) (time.Duration, error) {
	started, err := r.Started()
	if err != nil {
		return 0, err
	}
	if started.IsZero() {
		return 0, nil
	}
	return now.Sub(started), nil
}
