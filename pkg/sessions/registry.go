package sessions

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/lifeisriding/slimductor/errors"
	"github.com/lifeisriding/slimductor/pkg/process"
	"github.com/sirupsen/logrus"
	"github.com/spf13/afero"
)

// DefaultStaleAfter is the maximum record age when none is configured.
const DefaultStaleAfter = 4 * time.Hour

const recordExt = ".json"

// Options configures a Registry. Zero values select the production
// behavior.
type Options struct {
	// Dir is the active-sessions directory. Required.
	Dir string
	// StaleAfter is the age at which a live record is still evicted.
	StaleAfter time.Duration
	// Fs defaults to the OS filesystem.
	Fs afero.Fs
	// Alive defaults to process.IsProcessAlive.
	Alive func(pid int) bool
	// Now defaults to time.Now.
	Now func() time.Time
	// Logger defaults to a discarding logger.
	Logger *logrus.Entry
}

// Registry manages the directory of active session records. It holds no
// locks; concurrent invocations cooperate through the filesystem.
type Registry struct {
	fs         afero.Fs
	dir        string
	staleAfter time.Duration
	alive      func(int) bool
	now        func() time.Time
	logger     *logrus.Entry
	validator  *Validator
}

// New creates a Registry for opts.Dir. The directory is not created until
// the first Register.
func New(opts Options) (*Registry, error) {
	if opts.Dir == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "active-sessions directory is not set")
	}

	validator, err := NewValidator()
	if err != nil {
		return nil, errors.Internal("record schema", err)
	}

	r := &Registry{
		fs:         opts.Fs,
		dir:        opts.Dir,
		staleAfter: opts.StaleAfter,
		alive:      opts.Alive,
		now:        opts.Now,
		logger:     opts.Logger,
		validator:  validator,
	}
	if r.fs == nil {
		r.fs = afero.NewOsFs()
	}
	if r.staleAfter <= 0 {
		r.staleAfter = DefaultStaleAfter
	}
	if r.alive == nil {
		r.alive = process.IsProcessAlive
	}
	if r.now == nil {
		r.now = time.Now
	}
	if r.logger == nil {
		discard := logrus.New()
		discard.SetOutput(io.Discard)
		r.logger = logrus.NewEntry(discard)
	}
	return r, nil
}

// Dir returns the active-sessions directory.
func (r *Registry) Dir() string {
	return r.dir
}

// RecordPath returns the file holding the record for key.
func (r *Registry) RecordPath(key string) string {
	return filepath.Join(r.dir, key+recordExt)
}

// Register writes a record for id unless one already exists. It reports
// whether a new record was written. The file is created exclusively, so of
// two racing first registrations exactly one writes.
func (r *Registry) Register(id Identity, role, cwd string) (bool, error) {
	if role == "" {
		role = OrchestratorRole
	}

	if err := r.fs.MkdirAll(r.dir, 0755); err != nil {
		return false, errors.RegistryUnavailable(r.dir, err)
	}

	path := r.RecordPath(id.Key())
	if exists, err := afero.Exists(r.fs, path); err == nil && exists {
		r.logger.WithField("key", id.Key()).Debug("Session already registered")
		return false, nil
	}

	record := Record{
		PID:       id.TrackingPID,
		StartedAt: FormatTime(r.now()),
		SessionID: id.StoredSessionID(),
		Cwd:       cwd,
		Role:      role,
	}
	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return false, errors.RecordWrite(path, err)
	}

	f, err := r.fs.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if stderrors.Is(err, fs.ErrExist) {
			r.logger.WithField("key", id.Key()).Debug("Session registered concurrently")
			return false, nil
		}
		return false, errors.RecordWrite(path, err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		// A truncated record would be skipped forever; drop it.
		_ = r.fs.Remove(path)
		return false, errors.RecordWrite(path, err)
	}
	if err := f.Close(); err != nil {
		return false, errors.RecordWrite(path, err)
	}

	r.logger.WithFields(logrus.Fields{
		"key":  id.Key(),
		"pid":  record.PID,
		"role": record.Role,
	}).Info("Registered session")
	return true, nil
}

// Deregister removes the record for id. It reports whether a record was
// removed; a missing record is not an error.
func (r *Registry) Deregister(id Identity) (bool, error) {
	removed, err := r.remove(r.RecordPath(id.Key()))
	if err != nil {
		return false, err
	}
	if removed {
		r.logger.WithField("key", id.Key()).Info("Deregistered session")
	}
	return removed, nil
}

// Active returns the live records, oldest first. Records whose process is
// gone or whose age reached the staleness threshold are deleted as a side
// effect. Files that cannot be read or parsed are skipped and left alone.
// A missing directory yields an empty result.
func (r *Registry) Active() ([]Record, error) {
	entries, err := afero.ReadDir(r.fs, r.dir)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return []Record{}, nil
		}
		return nil, errors.RegistryUnavailable(r.dir, err)
	}

	now := r.now()
	records := []Record{}
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), recordExt) {
			continue
		}
		key := strings.TrimSuffix(entry.Name(), recordExt)
		path := filepath.Join(r.dir, entry.Name())
		log := r.logger.WithField("key", key)

		record, err := r.read(path)
		if err != nil {
			log.WithError(err).Debug("Skipping unreadable record")
			continue
		}
		record.TrackingID = key

		age, err := record.Age(now)
		if err != nil {
			log.WithError(err).Debug("Skipping record with bad timestamp")
			continue
		}

		if r.alive(record.PID) && age < r.staleAfter {
			records = append(records, record)
			continue
		}

		if _, err := r.remove(path); err != nil {
			log.WithError(err).Debug("Failed to evict record")
			continue
		}
		log.WithFields(logrus.Fields{"pid": record.PID, "age": age.Round(time.Second)}).Info("Evicted stale session")
	}

	sort.SliceStable(records, func(i, j int) bool {
		if records[i].StartedAt != records[j].StartedAt {
			return records[i].StartedAt < records[j].StartedAt
		}
		return records[i].TrackingID < records[j].TrackingID
	})
	return records, nil
}

func (r *Registry) read(path string) (Record, error) {
	var record Record

	data, err := afero.ReadFile(r.fs, path)
	if err != nil {
		return record, err
	}
	if err := r.validator.Validate(data); err != nil {
		return record, errors.RecordInvalid(path, err)
	}
	if err := json.Unmarshal(data, &record); err != nil {
		return record, errors.RecordInvalid(path, err)
	}
	return record, nil
}

// remove deletes path, treating an already-missing file as success.
func (r *Registry) remove(path string) (bool, error) {
	if err := r.fs.Remove(path); err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, errors.RecordRemove(path, err)
	}
	return true, nil
}
