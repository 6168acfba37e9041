package domain

import "strings"

// Sentinel is the placeholder recorded for fields that could not be verified.
// It is distinct from absence: a sentinel field passed validation, an unset
// field did not.
const Sentinel = "N/A"

type fieldState uint8

const (
	fieldUnset fieldState = iota
	fieldKnown
	fieldUnknown
)

// Field is a validated string slot that is either resolved to a value or
// collapsed to the unknown sentinel. The zero Field is unset and fails
// record validation.
type Field struct {
	value string
	state fieldState
}

// Known wraps a resolved value. Blank input collapses to Unknown so that
// records never carry empty strings disguised as data.
func Known(value string) Field {
	value = strings.TrimSpace(value)
	if value == "" {
		return Unknown()
	}
	return Field{value: value, state: fieldKnown}
}

// Unknown returns the validated-absent sentinel field.
func Unknown() Field {
	return Field{value: Sentinel, state: fieldUnknown}
}

// Resolved reports whether the field holds a verified value.
func (f Field) Resolved() bool {
	return f.state == fieldKnown
}

// Set reports whether the field passed through validation at all.
func (f Field) Set() bool {
	return f.state != fieldUnset
}

// String returns the value, or the sentinel for unknown fields. Unset fields
// render as the empty string so they are visible in output as a defect.
func (f Field) String() string {
	return f.value
}
