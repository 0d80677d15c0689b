package sessions

import (
	"os"
	"strconv"

	"github.com/lifeisriding/slimductor/pkg/process"
	"github.com/lifeisriding/slimductor/util/sanitize"
)

// Identity names the session the current invocation belongs to.
type Identity struct {
	// SessionID is the host-supplied session id, empty when none was given.
	SessionID string
	// TrackingPID is the pid whose liveness stands for the session.
	TrackingPID int
}

// Key returns the record key: the session id when present, otherwise
// "pid-<tracking pid>". A blank session id counts as absent. Every hook invocation of one session derives the
// same key.
func (id Identity) Key() string {
	if key := sanitize.ForSessionKey(id.SessionID); key != "" {
		return key
	}
	return "pid-" + strconv.Itoa(id.TrackingPID)
}

// StoredSessionID is the value written to Record.SessionID.
func (id Identity) StoredSessionID() string {
	if id.SessionID == "" {
		return UnknownSessionID
	}
	return id.SessionID
}

// CurrentIdentity builds the identity of the running process from the
// session variable named sessionEnv and the process ancestry.
func CurrentIdentity(sessionEnv string, ancestry process.Ancestry) Identity {
	return Identity{
		SessionID:   os.Getenv(sessionEnv),
		TrackingPID: process.TrackingPID(ancestry),
	}
}
