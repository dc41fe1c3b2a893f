package catalog_test

import (
	"testing"

	"shelf/internal/catalog"
)

func TestDemoRecordsSatisfyInputSchema(t *testing.T) {
	t.Parallel()

	input := catalog.Schema().Without("id", "createdAt", "updatedAt")

	for _, rec := range catalog.Demo() {
		handle, _ := rec["handle"].(string)

		if violations := input.Validate(rec); len(violations) > 0 {
			t.Errorf("demo record %q is invalid: %v", handle, violations)
		}
	}
}

func TestDemoHandlesUnique(t *testing.T) {
	t.Parallel()

	seen := make(map[string]bool)

	for _, rec := range catalog.Demo() {
		handle, _ := rec["handle"].(string)
		if seen[handle] {
			t.Errorf("duplicate demo handle %q", handle)
		}

		seen[handle] = true
	}
}
