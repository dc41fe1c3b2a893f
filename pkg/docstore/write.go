package docstore

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// backupTimestampLayout is an ISO-8601-derived layout with colons replaced
// so the result is safe in filenames. Fixed width keeps lexicographic order
// equal to chronological order.
const backupTimestampLayout = "2006-01-02T15-04-05.000000000Z"

// writeCollection persists records as the new collection state.
//
// Protocol: snapshot the current file into the backup directory, prune old
// snapshots, then atomically replace the primary file (temp file in the
// same directory + rename). Backup and prune failures are logged and
// swallowed - only the primary write can fail the call. A failed primary
// write leaves the previous file untouched.
//
// Callers must hold s.mu.
func (s *Store) writeCollection(records []Record) error {
	s.backup()

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}

	data = append(data, '\n')

	mkdirErr := os.MkdirAll(filepath.Dir(s.path), dirPerms)
	if mkdirErr != nil {
		return fmt.Errorf("create collection directory: %w", mkdirErr)
	}

	writeErr := s.writeFile(s.path, bytes.NewReader(data))
	if writeErr != nil {
		return fmt.Errorf("write collection %s: %w", s.path, writeErr)
	}

	return nil
}

// backup copies the current primary file into the backup directory and
// prunes old snapshots. Never blocks the primary write: all failures are
// warnings.
func (s *Store) backup() {
	current, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.log.Warn("backup skipped: cannot read collection", "path", s.path, "error", err)
		}

		// Nothing to snapshot before the first write.
		return
	}

	mkdirErr := os.MkdirAll(s.backupDir, dirPerms)
	if mkdirErr != nil {
		s.log.Warn("backup skipped: cannot create backup directory",
			"dir", s.backupDir, "error", mkdirErr)

		return
	}

	name := s.backupPrefix + "-" + s.now().UTC().Format(backupTimestampLayout) + ".json"
	dest := filepath.Join(s.backupDir, name)

	writeErr := s.writeFile(dest, bytes.NewReader(current))
	if writeErr != nil {
		s.log.Warn("backup failed", "path", dest, "error", writeErr)

		return
	}

	s.prune()
}

// prune deletes all but the newest maxBackups snapshots. Snapshot names
// embed a fixed-width timestamp, so sorting by filename sorts by time.
func (s *Store) prune() {
	entries, err := os.ReadDir(s.backupDir)
	if err != nil {
		s.log.Warn("backup prune failed: cannot list backup directory",
			"dir", s.backupDir, "error", err)

		return
	}

	var names []string

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, s.backupPrefix+"-") || !strings.HasSuffix(name, ".json") {
			continue
		}

		names = append(names, name)
	}

	if len(names) <= s.maxBackups {
		return
	}

	// Newest first.
	sort.Sort(sort.Reverse(sort.StringSlice(names)))

	for _, name := range names[s.maxBackups:] {
		removeErr := os.Remove(filepath.Join(s.backupDir, name))
		if removeErr != nil {
			s.log.Warn("backup prune failed", "path", name, "error", removeErr)
		}
	}
}
