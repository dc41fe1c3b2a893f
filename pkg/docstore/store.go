package docstore

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/natefinch/atomic"

	"shelf/pkg/docstore/schema"
)

// System-managed record fields.
const (
	FieldID        = "id"
	FieldHandle    = "handle"
	FieldCreatedAt = "createdAt"
	FieldUpdatedAt = "updatedAt"
)

const (
	// DefaultMaxBackups is the number of snapshots kept when
	// Options.MaxBackups is zero.
	DefaultMaxBackups = 5

	// DefaultBackupPrefix is the backup filename prefix when
	// Options.BackupPrefix is empty.
	DefaultBackupPrefix = "backup"

	dirPerms = 0o750
)

// Record is one stored document. Beyond the system-managed fields (id,
// handle, createdAt, updatedAt) its contents are opaque to the store and
// only constrained by the schema.
type Record map[string]any

// ID returns the record's system-generated identifier.
func (r Record) ID() string {
	id, _ := r[FieldID].(string)
	return id
}

// Handle returns the record's unique human-readable key.
func (r Record) Handle() string {
	handle, _ := r[FieldHandle].(string)
	return handle
}

// Clone returns a shallow copy. Nested values are shared.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}

	return out
}

// SearchConfig names the record fields the Search operation inspects.
type SearchConfig struct {
	// TextFields are matched case-insensitively against Filter.Text.
	TextFields []string

	// CategoryField is compared exactly against Filter.Category.
	CategoryField string

	// TagsField is the multi-valued field intersected with Filter.Tags.
	TagsField string
}

// Options configures a Store.
type Options struct {
	// Path is the primary collection file. Required.
	Path string

	// BackupDir holds rolling snapshots. Defaults to a "backups" directory
	// next to Path.
	BackupDir string

	// MaxBackups is the number of snapshots retained. Defaults to
	// DefaultMaxBackups.
	MaxBackups int

	// BackupPrefix is the snapshot filename prefix. Defaults to
	// DefaultBackupPrefix.
	BackupPrefix string

	// Schema validates full records. The creation-input schema is derived
	// from it by dropping the system-managed fields. Required.
	Schema *schema.Schema

	// Search configures the Search operation's field mapping.
	Search SearchConfig

	// Logger receives warnings (skipped invalid records, backup failures).
	// Defaults to a discard logger.
	Logger *slog.Logger
}

// Store is a single-file JSON collection with validated CRUD, rolling
// backups and atomic writes. Construct with New; the zero value is not
// usable.
//
// All operations on one Store are serialized by an internal mutex. Distinct
// instances pointing at the same file are not coordinated.
type Store struct {
	mu sync.Mutex

	path         string
	backupDir    string
	backupPrefix string
	maxBackups   int

	full  *schema.Schema
	input *schema.Schema

	search SearchConfig
	log    *slog.Logger

	// Injection points for tests.
	now       func() time.Time
	writeFile func(path string, r io.Reader) error
}

// New creates a Store for the collection file at opts.Path. The file itself
// is created lazily, on first access.
func New(opts Options) (*Store, error) {
	if opts.Path == "" {
		return nil, errPathEmpty
	}

	if opts.Schema == nil {
		return nil, errSchemaNil
	}

	if opts.MaxBackups < 0 {
		return nil, errMaxBackups
	}

	maxBackups := opts.MaxBackups
	if maxBackups == 0 {
		maxBackups = DefaultMaxBackups
	}

	backupDir := opts.BackupDir
	if backupDir == "" {
		backupDir = filepath.Join(filepath.Dir(opts.Path), "backups")
	}

	backupPrefix := opts.BackupPrefix
	if backupPrefix == "" {
		backupPrefix = DefaultBackupPrefix
	}

	log := opts.Logger
	if log == nil {
		log = slog.New(slog.DiscardHandler)
	}

	return &Store{
		path:         opts.Path,
		backupDir:    backupDir,
		backupPrefix: backupPrefix,
		maxBackups:   maxBackups,
		full:         opts.Schema,
		input:        opts.Schema.Without(FieldID, FieldCreatedAt, FieldUpdatedAt),
		search:       opts.Search,
		log:          log,
		now:          time.Now,
		writeFile:    atomic.WriteFile,
	}, nil
}

// List returns every valid record in file order. Records that fail to
// validate against the schema are skipped with a logged warning instead of
// failing the whole read.
func (s *Store) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.load()
}

// GetByID returns the record with the given id, or ok=false if no record
// matches. A miss is not an error.
func (s *Store) GetByID(id string) (Record, bool, error) {
	return s.find(func(r Record) bool { return r.ID() == id })
}

// GetByHandle returns the record with the given handle, or ok=false on a
// miss.
func (s *Store) GetByHandle(handle string) (Record, bool, error) {
	return s.find(func(r Record) bool { return r.Handle() == handle })
}

func (s *Store) find(match func(Record) bool) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, false, err
	}

	for _, rec := range records {
		if match(rec) {
			return rec, true, nil
		}
	}

	return nil, false, nil
}

// load reads and parses the collection file, creating it empty if missing.
// Invalid elements are dropped, not fatal. Callers must hold s.mu.
func (s *Store) load() ([]Record, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("read collection %s: %w", s.path, err)
		}

		initErr := s.initEmpty()
		if initErr != nil {
			return nil, initErr
		}

		return []Record{}, nil
	}

	var raw []json.RawMessage

	unmarshalErr := json.Unmarshal(data, &raw)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("parse collection %s: %w: %w", s.path, errNotCollection, unmarshalErr)
	}

	records := make([]Record, 0, len(raw))

	for i, elem := range raw {
		var rec Record

		elemErr := json.Unmarshal(elem, &rec)
		if elemErr != nil {
			s.log.Warn("skipping invalid record",
				"path", s.path, "index", i, "error", fmt.Sprintf("%v: %v", errRecordNotObject, elemErr))

			continue
		}

		if violations := s.full.Validate(rec); len(violations) > 0 {
			s.log.Warn("skipping record that fails validation",
				"path", s.path, "index", i, "id", rec.ID(), "violations", len(violations))

			continue
		}

		records = append(records, rec)
	}

	return records, nil
}

// initEmpty writes a fresh empty collection file.
func (s *Store) initEmpty() error {
	mkdirErr := os.MkdirAll(filepath.Dir(s.path), dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("create collection directory: %w", mkdirErr)
	}

	writeErr := s.writeFile(s.path, strings.NewReader("[]\n"))
	if writeErr != nil {
		return fmt.Errorf("initialize collection %s: %w", s.path, writeErr)
	}

	return nil
}
