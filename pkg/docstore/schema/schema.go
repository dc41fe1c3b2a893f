// Package schema validates map-shaped JSON documents against a declared
// field schema.
//
// Validation is exhaustive: Validate reports every violated constraint, not
// just the first, so callers can surface a complete list of problems to the
// user in one pass. Fields not declared in the schema are permitted and
// ignored - the document owner's domain fields are opaque to this package.
package schema

import (
	"fmt"
	"slices"
	"strings"
)

// Kind is the expected JSON type of a field.
type Kind uint8

// Field kinds.
const (
	KindText Kind = iota
	KindNumber
	KindInt
	KindBool
	KindTextList
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindNumber:
		return "number"
	case KindInt:
		return "integer"
	case KindBool:
		return "boolean"
	case KindTextList:
		return "list of strings"
	case KindAny:
		return "any"
	default:
		return "string"
	}
}

// Violation describes a single failed constraint on a single field.
type Violation struct {
	// Field is the document field the constraint applies to.
	Field string

	// Rule is the machine-readable constraint name, e.g. "required", "type",
	// "min", "enum".
	Rule string

	// Message is a human-readable description of the failure.
	Message string
}

func (v Violation) String() string {
	return v.Field + ": " + v.Message
}

// fieldDef holds one field's declared kind and constraints.
type fieldDef struct {
	name     string
	kind     Kind
	required bool
	nonEmpty bool
	hasMin   bool
	min      float64
	minExcl  bool
	hasMax   bool
	max      float64
	minLen   int
	enum     []string
	charset  string
}

// Rule configures a constraint on a field declaration.
type Rule func(*fieldDef)

// Required marks the field as mandatory: a missing field is a violation.
func Required() Rule {
	return func(f *fieldDef) { f.required = true }
}

// NonEmpty rejects empty strings (and, for lists, empty string elements).
func NonEmpty() Rule {
	return func(f *fieldDef) { f.nonEmpty = true }
}

// Min sets an inclusive lower bound for numeric fields.
func Min(v float64) Rule {
	return func(f *fieldDef) {
		f.hasMin = true
		f.min = v
		f.minExcl = false
	}
}

// Positive requires a numeric field to be strictly greater than zero.
func Positive() Rule {
	return func(f *fieldDef) {
		f.hasMin = true
		f.min = 0
		f.minExcl = true
	}
}

// Max sets an inclusive upper bound for numeric fields.
func Max(v float64) Rule {
	return func(f *fieldDef) {
		f.hasMax = true
		f.max = v
	}
}

// MinLen sets a minimum length for string fields.
func MinLen(n int) Rule {
	return func(f *fieldDef) { f.minLen = n }
}

// Enum restricts a string field to one of the given values.
func Enum(values ...string) Rule {
	return func(f *fieldDef) { f.enum = values }
}

// Charset restricts a string field to the given set of characters.
func Charset(allowed string) Rule {
	return func(f *fieldDef) { f.charset = allowed }
}

// Schema is an ordered set of field declarations.
//
// Build one with [New] and the chained field methods, then call
// [Schema.Validate]. A Schema is immutable after construction aside from the
// builder methods themselves; share freely across goroutines once built.
type Schema struct {
	fields []fieldDef
}

// New creates an empty schema.
func New() *Schema {
	return &Schema{}
}

// Text declares a string field.
func (s *Schema) Text(name string, rules ...Rule) *Schema {
	return s.add(name, KindText, rules)
}

// Number declares a numeric field (any JSON number).
func (s *Schema) Number(name string, rules ...Rule) *Schema {
	return s.add(name, KindNumber, rules)
}

// Int declares an integer field. JSON numbers with a fractional part are
// rejected.
func (s *Schema) Int(name string, rules ...Rule) *Schema {
	return s.add(name, KindInt, rules)
}

// Bool declares a boolean field.
func (s *Schema) Bool(name string, rules ...Rule) *Schema {
	return s.add(name, KindBool, rules)
}

// TextList declares a field holding a list of strings.
func (s *Schema) TextList(name string, rules ...Rule) *Schema {
	return s.add(name, KindTextList, rules)
}

// Any declares a field with no type constraint (presence rules still apply).
func (s *Schema) Any(name string, rules ...Rule) *Schema {
	return s.add(name, KindAny, rules)
}

func (s *Schema) add(name string, kind Kind, rules []Rule) *Schema {
	def := fieldDef{name: name, kind: kind}
	for _, rule := range rules {
		rule(&def)
	}

	s.fields = append(s.fields, def)

	return s
}

// Without returns a copy of the schema with the named fields removed.
// Used to derive input schemas that omit system-managed fields.
func (s *Schema) Without(names ...string) *Schema {
	out := &Schema{fields: make([]fieldDef, 0, len(s.fields))}

	for _, f := range s.fields {
		if slices.Contains(names, f.name) {
			continue
		}

		out.fields = append(out.fields, f)
	}

	return out
}

// Validate checks doc against every declared field and returns all
// violations found, in schema declaration order. A nil or empty result means
// the document is valid.
func (s *Schema) Validate(doc map[string]any) []Violation {
	var out []Violation

	for i := range s.fields {
		out = append(out, s.fields[i].check(doc)...)
	}

	return out
}

func (f *fieldDef) check(doc map[string]any) []Violation {
	value, present := doc[f.name]
	if !present {
		if f.required {
			return []Violation{f.violation("required", "field is required")}
		}

		return nil
	}

	// An explicit null counts as missing for required checks and skips the
	// remaining constraints.
	if value == nil {
		if f.required {
			return []Violation{f.violation("required", "field is required (got null)")}
		}

		return nil
	}

	switch f.kind {
	case KindText:
		return f.checkText(value)
	case KindNumber, KindInt:
		return f.checkNumber(value)
	case KindBool:
		return f.checkBool(value)
	case KindTextList:
		return f.checkTextList(value)
	case KindAny:
		return nil
	}

	return nil
}

func (f *fieldDef) checkText(value any) []Violation {
	str, ok := value.(string)
	if !ok {
		return []Violation{f.typeViolation(value)}
	}

	var out []Violation

	if f.nonEmpty && str == "" {
		out = append(out, f.violation("non_empty", "must not be empty"))
	}

	if f.minLen > 0 && len(str) < f.minLen {
		out = append(out, f.violation("min_len",
			fmt.Sprintf("must be at least %d characters (got %d)", f.minLen, len(str))))
	}

	if len(f.enum) > 0 && !slices.Contains(f.enum, str) {
		out = append(out, f.violation("enum",
			fmt.Sprintf("must be one of [%s] (got %q)", strings.Join(f.enum, ", "), str)))
	}

	if f.charset != "" && str != "" {
		for _, r := range str {
			if !strings.ContainsRune(f.charset, r) {
				out = append(out, f.violation("charset",
					fmt.Sprintf("contains disallowed character %q", r)))

				break
			}
		}
	}

	return out
}

func (f *fieldDef) checkNumber(value any) []Violation {
	num, ok := asFloat(value)
	if !ok {
		return []Violation{f.typeViolation(value)}
	}

	var out []Violation

	if f.kind == KindInt && num != float64(int64(num)) {
		out = append(out, f.violation("type",
			fmt.Sprintf("must be an integer (got %v)", num)))
	}

	if f.hasMin {
		if f.minExcl && num <= f.min {
			out = append(out, f.violation("min",
				fmt.Sprintf("must be greater than %v (got %v)", f.min, num)))
		} else if !f.minExcl && num < f.min {
			out = append(out, f.violation("min",
				fmt.Sprintf("must be at least %v (got %v)", f.min, num)))
		}
	}

	if f.hasMax && num > f.max {
		out = append(out, f.violation("max",
			fmt.Sprintf("must be at most %v (got %v)", f.max, num)))
	}

	return out
}

func (f *fieldDef) checkBool(value any) []Violation {
	if _, ok := value.(bool); !ok {
		return []Violation{f.typeViolation(value)}
	}

	return nil
}

func (f *fieldDef) checkTextList(value any) []Violation {
	var out []Violation

	check := func(i int, elem any) {
		str, ok := elem.(string)
		if !ok {
			out = append(out, f.violation("type",
				fmt.Sprintf("element %d must be a string (got %s)", i, jsonType(elem))))

			return
		}

		if f.nonEmpty && str == "" {
			out = append(out, f.violation("non_empty",
				fmt.Sprintf("element %d must not be empty", i)))
		}
	}

	switch list := value.(type) {
	case []any:
		for i, elem := range list {
			check(i, elem)
		}
	case []string:
		for i, elem := range list {
			check(i, elem)
		}
	default:
		return []Violation{f.typeViolation(value)}
	}

	return out
}

func (f *fieldDef) violation(rule, msg string) Violation {
	return Violation{Field: f.name, Rule: rule, Message: msg}
}

func (f *fieldDef) typeViolation(value any) Violation {
	return f.violation("type",
		fmt.Sprintf("must be a %s (got %s)", f.kind, jsonType(value)))
}

// asFloat normalizes the numeric types json.Unmarshal and Go callers
// produce.
func asFloat(value any) (float64, bool) {
	switch n := value.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}

	return 0, false
}

// jsonType names a Go value in JSON terms for error messages.
func jsonType(value any) string {
	switch value.(type) {
	case nil:
		return "null"
	case string:
		return "string"
	case bool:
		return "boolean"
	case float64, float32, int, int64:
		return "number"
	case []any, []string:
		return "array"
	case map[string]any:
		return "object"
	default:
		return fmt.Sprintf("%T", value)
	}
}
