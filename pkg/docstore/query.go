package docstore

import "strings"

// Filter selects records for Search. All set predicates must match (AND
// semantics); the zero Filter matches everything.
type Filter struct {
	// Text is matched as a case-insensitive substring against the
	// configured text fields. A record matches if any text field contains
	// it.
	Text string

	// Category is compared exactly against the configured category field.
	Category string

	// Tags matches records whose configured tags field contains at least
	// one of these values.
	Tags []string

	// Flags maps boolean field names to the value they must hold.
	Flags map[string]bool
}

// IsZero reports whether the filter has no predicates.
func (f Filter) IsZero() bool {
	return f.Text == "" && f.Category == "" && len(f.Tags) == 0 && len(f.Flags) == 0
}

// Search returns the records matching filter, in collection order. An empty
// filter returns the whole collection.
func (s *Store) Search(filter Filter) ([]Record, error) {
	records, err := s.List()
	if err != nil {
		return nil, err
	}

	if filter.IsZero() {
		return records, nil
	}

	matched := make([]Record, 0, len(records))

	for _, rec := range records {
		if s.matches(rec, filter) {
			matched = append(matched, rec)
		}
	}

	return matched, nil
}

func (s *Store) matches(rec Record, filter Filter) bool {
	if filter.Text != "" && !s.matchesText(rec, filter.Text) {
		return false
	}

	if filter.Category != "" {
		got, _ := rec[s.search.CategoryField].(string)
		if got != filter.Category {
			return false
		}
	}

	if len(filter.Tags) > 0 && !s.matchesTags(rec, filter.Tags) {
		return false
	}

	for name, want := range filter.Flags {
		got, ok := rec[name].(bool)
		if !ok || got != want {
			return false
		}
	}

	return true
}

func (s *Store) matchesText(rec Record, text string) bool {
	needle := strings.ToLower(text)

	for _, field := range s.search.TextFields {
		value, ok := rec[field].(string)
		if !ok {
			continue
		}

		if strings.Contains(strings.ToLower(value), needle) {
			return true
		}
	}

	return false
}

// matchesTags reports whether the record's tags field shares at least one
// value with want.
func (s *Store) matchesTags(rec Record, want []string) bool {
	var tags []string

	switch raw := rec[s.search.TagsField].(type) {
	case []string:
		tags = raw
	case []any:
		for _, elem := range raw {
			if str, ok := elem.(string); ok {
				tags = append(tags, str)
			}
		}
	default:
		return false
	}

	for _, tag := range tags {
		for _, w := range want {
			if tag == w {
				return true
			}
		}
	}

	return false
}
