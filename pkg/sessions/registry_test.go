package sessions

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/lifeisriding/slimductor/errors"
	"github.com/lifeisriding/slimductor/pkg/process"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testDir = "/home/user/.claude/active"

var baseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

type fakeHost struct {
	fs    afero.Fs
	now   time.Time
	alive map[int]bool
}

func newFakeHost() *fakeHost {
	return &fakeHost{
		fs:    afero.NewMemMapFs(),
		now:   baseTime,
		alive: map[int]bool{},
	}
}

func (h *fakeHost) registry(t *testing.T) *Registry {
	t.Helper()
	r, err := New(Options{
		Dir:   testDir,
		Fs:    h.fs,
		Alive: func(pid int) bool { return h.alive[pid] },
		Now:   func() time.Time { return h.now },
	})
	require.NoError(t, err)
	return r
}

func (h *fakeHost) writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(testDir, name)
	require.NoError(t, h.fs.MkdirAll(testDir, 0755))
	require.NoError(t, afero.WriteFile(h.fs, path, []byte(content), 0644))
	return path
}

func (h *fakeHost) exists(t *testing.T, path string) bool {
	t.Helper()
	ok, err := afero.Exists(h.fs, path)
	require.NoError(t, err)
	return ok
}

func TestNewRequiresDir(t *testing.T) {
	_, err := New(Options{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidInput))
}

func TestRegisterWritesRecord(t *testing.T) {
	h := newFakeHost()
	h.alive[4242] = true
	r := h.registry(t)

	created, err := r.Register(Identity{SessionID: "S1", TrackingPID: 4242}, "", "/work/repo")
	require.NoError(t, err)
	assert.True(t, created)

	data, err := afero.ReadFile(h.fs, filepath.Join(testDir, "S1.json"))
	require.NoError(t, err)

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &body))
	assert.Equal(t, map[string]interface{}{
		"pid":       float64(4242),
		"startedAt": "2025-03-01T12:00:00Z",
		"sessionId": "S1",
		"cwd":       "/work/repo",
		"role":      "orchestrator",
	}, body)
}

func TestRegisterIsIdempotent(t *testing.T) {
	h := newFakeHost()
	h.alive[4242] = true
	r := h.registry(t)
	id := Identity{SessionID: "S1", TrackingPID: 4242}

	created, err := r.Register(id, "orchestrator", "/work/repo")
	require.NoError(t, err)
	assert.True(t, created)

	h.now = baseTime.Add(10 * time.Minute)
	created, err = r.Register(id, "worker", "/elsewhere")
	require.NoError(t, err)
	assert.False(t, created)

	entries, err := afero.ReadDir(h.fs, testDir)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	records, err := r.Active()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "2025-03-01T12:00:00Z", records[0].StartedAt)
	assert.Equal(t, "orchestrator", records[0].Role)
	assert.Equal(t, "/work/repo", records[0].Cwd)
}

func TestRegisterLeavesExistingFileUntouched(t *testing.T) {
	h := newFakeHost()
	path := h.writeFile(t, "S1.json", "{corrupt")
	r := h.registry(t)

	created, err := r.Register(Identity{SessionID: "S1", TrackingPID: 1}, "", "/x")
	require.NoError(t, err)
	assert.False(t, created)

	data, err := afero.ReadFile(h.fs, path)
	require.NoError(t, err)
	assert.Equal(t, "{corrupt", string(data))
}

func TestRoundTrip(t *testing.T) {
	h := newFakeHost()
	h.alive[777] = true
	r := h.registry(t)

	_, err := r.Register(Identity{TrackingPID: 777}, "worker", "/work/a")
	require.NoError(t, err)

	records, err := r.Active()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, Record{
		TrackingID: "pid-777",
		PID:        777,
		StartedAt:  "2025-03-01T12:00:00Z",
		SessionID:  UnknownSessionID,
		Cwd:        "/work/a",
		Role:       "worker",
	}, records[0])
}

func TestActiveEvictsDeadProcess(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	r := h.registry(t)

	_, err := r.Register(Identity{SessionID: "S1", TrackingPID: 100}, "", "/a")
	require.NoError(t, err)

	records, err := r.Active()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	h.alive[100] = false
	records, err = r.Active()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, h.exists(t, r.RecordPath("S1")))
}

func TestActiveEvictsStaleRecord(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	r := h.registry(t)

	_, err := r.Register(Identity{SessionID: "S1", TrackingPID: 100}, "", "/a")
	require.NoError(t, err)

	h.now = baseTime.Add(4*time.Hour - time.Second)
	records, err := r.Active()
	require.NoError(t, err)
	assert.Len(t, records, 1)

	h.now = baseTime.Add(4 * time.Hour)
	records, err = r.Active()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.False(t, h.exists(t, r.RecordPath("S1")))
}

func TestActiveHonorsConfiguredStaleAfter(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	r, err := New(Options{
		Dir:        testDir,
		Fs:         h.fs,
		StaleAfter: time.Minute,
		Alive:      func(pid int) bool { return h.alive[pid] },
		Now:        func() time.Time { return h.now },
	})
	require.NoError(t, err)

	_, err = r.Register(Identity{SessionID: "S1", TrackingPID: 100}, "", "/a")
	require.NoError(t, err)

	h.now = baseTime.Add(2 * time.Minute)
	records, err := r.Active()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestDeregister(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	r := h.registry(t)
	id := Identity{SessionID: "S1", TrackingPID: 100}

	_, err := r.Register(id, "", "/a")
	require.NoError(t, err)

	removed, err := r.Deregister(id)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.False(t, h.exists(t, r.RecordPath("S1")))

	records, err := r.Active()
	require.NoError(t, err)
	assert.Empty(t, records)

	removed, err = r.Deregister(id)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestDeregisterWithoutDirectory(t *testing.T) {
	h := newFakeHost()
	r := h.registry(t)

	removed, err := r.Deregister(Identity{SessionID: "nobody"})
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestActiveSkipsCorruptFiles(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true

	cases := map[string]string{
		"garbage.json":   "{not json",
		"array.json":     "[]",
		"pidtext.json":   `{"pid": "abc", "role": "orchestrator"}`,
		"fraction.json":  `{"pid": 1.5}`,
		"badtime.json":   `{"pid": 100, "startedAt": "yesterday"}`,
		"wrongtype.json": `{"pid": 100, "cwd": 42}`,
	}
	paths := make([]string, 0, len(cases))
	for name, content := range cases {
		paths = append(paths, h.writeFile(t, name, content))
	}
	h.writeFile(t, "good.json", `{"pid": 100, "startedAt": "2025-03-01T11:00:00Z", "sessionId": "good", "cwd": "/g", "role": "orchestrator"}`)

	r := h.registry(t)
	records, err := r.Active()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "good", records[0].TrackingID)

	for _, p := range paths {
		assert.True(t, h.exists(t, p), "corrupt file %s must stay on disk", p)
	}
}

func TestActiveMissingDirectoryHasNoSideEffects(t *testing.T) {
	h := newFakeHost()
	r := h.registry(t)

	records, err := r.Active()
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
	assert.False(t, h.exists(t, testDir))
}

func TestActiveIgnoresOtherEntries(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	notes := h.writeFile(t, "notes.txt", "hello")
	require.NoError(t, h.fs.MkdirAll(filepath.Join(testDir, "nested.json"), 0755))

	r := h.registry(t)
	records, err := r.Active()
	require.NoError(t, err)
	assert.Empty(t, records)
	assert.True(t, h.exists(t, notes))
}

func TestActiveRecordWithoutTimestampOrPID(t *testing.T) {
	h := newFakeHost()
	h.alive[100] = true
	h.writeFile(t, "notime.json", `{"pid": 100, "role": "worker", "cwd": "/n"}`)
	nopid := h.writeFile(t, "nopid.json", `{"role": "worker", "cwd": "/n"}`)

	r := h.registry(t)
	records, err := r.Active()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "notime", records[0].TrackingID)
	assert.False(t, h.exists(t, nopid))
}

func TestActiveSortsByStartTime(t *testing.T) {
	h := newFakeHost()
	h.alive[1] = true
	h.alive[2] = true
	h.alive[3] = true
	h.writeFile(t, "c.json", `{"pid": 3, "startedAt": "2025-03-01T11:00:00Z"}`)
	h.writeFile(t, "a.json", `{"pid": 1, "startedAt": "2025-03-01T11:30:00Z"}`)
	h.writeFile(t, "b.json", `{"pid": 2, "startedAt": "2025-03-01T11:00:00Z"}`)

	r := h.registry(t)
	records, err := r.Active()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"b", "c", "a"}, []string{records[0].TrackingID, records[1].TrackingID, records[2].TrackingID})
}

func TestActiveOnOSFilesystem(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "active")
	r, err := New(Options{Dir: dir})
	require.NoError(t, err)

	child := startSleeper(t)
	childPID := child.Process.Pid

	_, err = r.Register(Identity{SessionID: "S1", TrackingPID: childPID}, "orchestrator", "/work/one")
	require.NoError(t, err)
	_, err = r.Register(Identity{SessionID: "S2", TrackingPID: os.Getpid()}, "worker", "/work/two")
	require.NoError(t, err)

	records, err := r.Active()
	require.NoError(t, err)
	assert.Len(t, records, 2)

	require.NoError(t, child.Process.Kill())
	_ = child.Wait()
	require.False(t, process.IsProcessAlive(childPID))

	records, err = r.Active()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "S2", records[0].TrackingID)

	_, err = os.Stat(filepath.Join(dir, "S1.json"))
	assert.True(t, os.IsNotExist(err))
}

// startSleeper runs a copy of the test binary that blocks until killed.
func startSleeper(t *testing.T) *exec.Cmd {
	t.Helper()
	cmd := exec.Command(os.Args[0], "-test.run=^TestHelperSleeper$")
	cmd.Env = append(os.Environ(), "SLIMDUCTOR_HELPER_SLEEP=1")
	require.NoError(t, cmd.Start())
	t.Cleanup(func() {
		_ = cmd.Process.Kill()
		_ = cmd.Wait()
	})
	return cmd
}

func TestHelperSleeper(t *testing.T) {
	if os.Getenv("SLIMDUCTOR_HELPER_SLEEP") != "1" {
		t.Skip("helper process")
	}
	time.Sleep(time.Minute)
}
