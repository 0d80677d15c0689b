package sessions

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckScenario(t *testing.T) {
	h := newFakeHost()
	h.alive[5150] = true
	r := h.registry(t)

	_, err := r.Register(Identity{SessionID: "S1", TrackingPID: 5150}, "orchestrator", "/work/repo")
	require.NoError(t, err)

	records, err := r.Active()
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, Summarize(records).WriteText(&buf))
	assert.Equal(t, "1 active session(s), 1 orchestrator(s)\n  [orchestrator] PID 5150  /work/repo\n", buf.String())

	h.alive[5150] = false
	records, err = r.Active()
	require.NoError(t, err)
	buf.Reset()
	require.NoError(t, Summarize(records).WriteText(&buf))
	assert.Equal(t, "0 active session(s), 0 orchestrator(s)\n", buf.String())
	assert.False(t, h.exists(t, r.RecordPath("S1")))
}

func TestMultiSessionSummary(t *testing.T) {
	h := newFakeHost()
	h.alive[10] = true
	h.alive[20] = true
	r := h.registry(t)

	_, err := r.Register(Identity{SessionID: "S1", TrackingPID: 10}, "orchestrator", "/one")
	require.NoError(t, err)
	h.now = baseTime.Add(time.Minute)
	_, err = r.Register(Identity{SessionID: "S2", TrackingPID: 20}, "worker", "/two")
	require.NoError(t, err)

	records, err := r.Active()
	require.NoError(t, err)
	s := Summarize(records)
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Orchestrators)

	var buf bytes.Buffer
	require.NoError(t, s.WriteText(&buf))
	assert.Equal(t, "2 active session(s), 1 orchestrator(s)\n"+
		"  [orchestrator] PID 10  /one\n"+
		"  [worker] PID 20  /two\n", buf.String())
}

func TestSummaryJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Summarize(nil).WriteJSON(&buf))

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, float64(0), got["total"])
	assert.Equal(t, float64(0), got["orchestrators"])
	assert.Equal(t, []interface{}{}, got["sessions"])
}

func TestWriteRecordsJSON(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteRecordsJSON(&buf, nil))
	assert.Equal(t, "[]\n", buf.String())

	buf.Reset()
	require.NoError(t, WriteRecordsJSON(&buf, []Record{{TrackingID: "S1", PID: 1, StartedAt: "2025-03-01T12:00:00Z", SessionID: "S1", Cwd: "/c", Role: "worker"}}))
	assert.JSONEq(t, `[{"pid":1,"startedAt":"2025-03-01T12:00:00Z","sessionId":"S1","cwd":"/c","role":"worker"}]`, buf.String())
}
