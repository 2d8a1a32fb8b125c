package domain

import (
	"strconv"
	"strings"
)

// FieldState discriminates how a numeric ledger cell parsed.
type FieldState int

const (
	// FieldAbsent means the cell was empty: the value is not yet known.
	FieldAbsent FieldState = iota
	// FieldPresent means the cell parsed to a usable number.
	FieldPresent
	// FieldMalformed means the cell held text that is not a number. The raw
	// text is retained so the defect can be reported instead of being
	// silently conflated with "absent".
	FieldMalformed
)

// Field is the parse result of one numeric ledger cell.
type Field struct {
	state FieldState
	value float64
	raw   string
}

// Present returns a field holding a parsed value.
func Present(v float64) Field {
	return Field{state: FieldPresent, value: v}
}

// Absent returns an empty field.
func Absent() Field {
	return Field{state: FieldAbsent}
}

// Malformed returns a field for a cell that failed numeric coercion.
func Malformed(raw string) Field {
	return Field{state: FieldMalformed, raw: raw}
}

// ParseField coerces a raw cell to a Field. Whitespace-only cells are Absent.
func ParseField(raw string) Field {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Absent()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Malformed(raw)
	}
	return Present(v)
}

// State returns the parse state of the field.
func (f Field) State() FieldState { return f.state }

// IsPresent reports whether the field holds a parsed value.
func (f Field) IsPresent() bool { return f.state == FieldPresent }

// IsMalformed reports whether the field held unparseable text.
func (f Field) IsMalformed() bool { return f.state == FieldMalformed }

// Value returns the parsed value and whether one is present.
func (f Field) Value() (float64, bool) {
	return f.value, f.state == FieldPresent
}

// Or returns the parsed value, or def when the field is not present.
func (f Field) Or(def float64) float64 {
	if f.state == FieldPresent {
		return f.value
	}
	return def
}

// Raw returns the original cell text of a malformed field.
func (f Field) Raw() string { return f.raw }

// Cell serializes the field back to its ledger cell representation: the
// number for present fields, the original text for malformed ones, and the
// empty string for absent ones.
func (f Field) Cell() string {
	switch f.state {
	case FieldPresent:
		return strconv.FormatFloat(f.value, 'f', -1, 64)
	case FieldMalformed:
		return f.raw
	default:
		return ""
	}
}
