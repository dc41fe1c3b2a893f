package docstore_test

import (
	"fmt"
	"sync"
	"testing"

	"shelf/pkg/docstore"
)

// TestConcurrentCreatesAreSerialized drives parallel creates through one
// store instance and checks that no write is lost: the internal mutex must
// serialize the read-modify-write sequences.
func TestConcurrentCreatesAreSerialized(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	const writers = 16

	var wg sync.WaitGroup

	errs := make([]error, writers)

	for i := range writers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = store.Create(docstore.Record{
				"handle": fmt.Sprintf("item-%02d", i),
				"title":  fmt.Sprintf("Item %d", i),
				"price":  float64(i + 1),
			})
		}()
	}

	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Errorf("writer %d failed: %v", i, err)
		}
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(records) != writers {
		t.Errorf("expected %d records, got %d (lost updates)", writers, len(records))
	}
}

// TestConcurrentDuplicateHandle races identical creates; exactly one may
// win.
func TestConcurrentDuplicateHandle(t *testing.T) {
	t.Parallel()

	store, _ := newTestStore(t)

	const attempts = 8

	var wg sync.WaitGroup

	errs := make([]error, attempts)

	for i := range attempts {
		wg.Add(1)

		go func() {
			defer wg.Done()

			_, errs[i] = store.Create(widgetInput())
		}()
	}

	wg.Wait()

	failures := 0

	for _, err := range errs {
		if err != nil {
			failures++
		}
	}

	if failures != attempts-1 {
		t.Errorf("expected %d duplicate-handle failures, got %d", attempts-1, failures)
	}

	records, err := store.List()
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}

	if len(records) != 1 {
		t.Errorf("expected 1 record, got %d", len(records))
	}
}
