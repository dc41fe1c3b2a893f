package docstore

import (
	"time"
)

// Create validates input against the creation schema (system-managed fields
// excluded), rejects handle collisions, stamps id/createdAt/updatedAt,
// re-validates the assembled record against the full schema, then durably
// appends it to the collection.
//
// Returns *ValidationError or *DuplicateHandleError on rejection; neither
// touches the file.
func (s *Store) Create(input Record) (Record, error) {
	if violations := s.input.Validate(input); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return nil, err
	}

	handle := input.Handle()
	for _, existing := range records {
		if existing.Handle() == handle {
			return nil, &DuplicateHandleError{Handle: handle}
		}
	}

	now := s.now()
	stamp := timestamp(now)

	rec := input.Clone()
	rec[FieldID] = newID(now)
	rec[FieldCreatedAt] = stamp
	rec[FieldUpdatedAt] = stamp

	// Defense in depth: the assembled record must satisfy the full schema.
	if violations := s.full.Validate(rec); len(violations) > 0 {
		return nil, &ValidationError{Violations: violations}
	}

	records = append(records, rec)

	writeErr := s.writeCollection(records)
	if writeErr != nil {
		return nil, writeErr
	}

	return rec, nil
}

// Update merges patch over the record with the given id, refreshes
// updatedAt, validates the result and writes the collection. A missing id
// returns ok=false without touching the file - absence is not an error.
//
// The id and createdAt fields are immutable; values for them in patch are
// ignored.
func (s *Store) Update(id string, patch Record) (Record, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.update(id, patch)
}

// update is Update without locking, for BulkUpdate. Callers must hold s.mu.
func (s *Store) update(id string, patch Record) (Record, bool, error) {
	records, err := s.load()
	if err != nil {
		return nil, false, err
	}

	idx := -1

	for i, rec := range records {
		if rec.ID() == id {
			idx = i

			break
		}
	}

	if idx == -1 {
		return nil, false, nil
	}

	merged := records[idx].Clone()
	for k, v := range patch {
		merged[k] = v
	}

	merged[FieldID] = records[idx][FieldID]
	merged[FieldCreatedAt] = records[idx][FieldCreatedAt]
	merged[FieldUpdatedAt] = timestamp(s.now())

	if violations := s.full.Validate(merged); len(violations) > 0 {
		return nil, false, &ValidationError{Violations: violations}
	}

	records[idx] = merged

	writeErr := s.writeCollection(records)
	if writeErr != nil {
		return nil, false, writeErr
	}

	return merged, true, nil
}

// Delete removes the record with the given id and reports whether one was
// actually removed. When nothing matches, the file is left untouched.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, err := s.load()
	if err != nil {
		return false, err
	}

	idx := -1

	for i, rec := range records {
		if rec.ID() == id {
			idx = i

			break
		}
	}

	if idx == -1 {
		return false, nil
	}

	records = append(records[:idx], records[idx+1:]...)

	writeErr := s.writeCollection(records)
	if writeErr != nil {
		return false, writeErr
	}

	return true, nil
}

// BulkUpdate applies the same patch to each id in turn and returns every
// record that was actually updated. Ids with no matching record are
// silently skipped; the result carries no per-id failure report.
func (s *Store) BulkUpdate(ids []string, patch Record) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	updated := make([]Record, 0, len(ids))

	for _, id := range ids {
		rec, ok, err := s.update(id, patch)
		if err != nil {
			return nil, err
		}

		if ok {
			updated = append(updated, rec)
		}
	}

	return updated, nil
}

// timestamp renders a mutation time as RFC 3339 with nanoseconds, so two
// consecutive mutations get strictly increasing updatedAt values.
func timestamp(t time.Time) string {
	return t.UTC().Format(time.RFC3339Nano)
}
