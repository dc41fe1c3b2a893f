package docstore

import (
	"errors"
	"fmt"
	"strings"

	"shelf/pkg/docstore/schema"
)

var (
	errPathEmpty       = errors.New("store path is empty")
	errSchemaNil       = errors.New("schema is nil")
	errMaxBackups      = errors.New("max backups cannot be negative")
	errNotCollection   = errors.New("file is not a JSON array")
	errRecordNotObject = errors.New("collection element is not a JSON object")
)

// ValidationError reports that a record or input failed schema validation.
// Violations holds every failed field constraint, in schema order.
type ValidationError struct {
	Violations []schema.Violation
}

func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}

	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = v.String()
	}

	return "validation failed: " + strings.Join(parts, "; ")
}

// DuplicateHandleError reports a create whose handle collides with an
// existing record.
type DuplicateHandleError struct {
	Handle string
}

func (e *DuplicateHandleError) Error() string {
	return fmt.Sprintf("handle %q already exists", e.Handle)
}
