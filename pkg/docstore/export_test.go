package docstore

import (
	"io"
	"time"
)

// SetNowFunc replaces the store's clock for tests.
func (s *Store) SetNowFunc(now func() time.Time) {
	s.now = now
}

// SetWriteFileFunc replaces the atomic write primitive for tests, e.g. to
// simulate a write failure after the backup step.
func (s *Store) SetWriteFileFunc(write func(path string, r io.Reader) error) {
	s.writeFile = write
}

// BackupTimestampLayout exposes the snapshot filename layout for tests.
const BackupTimestampLayout = backupTimestampLayout
