package service

import (
	"sort"
	"strings"
)

// Validation messages, per field.
const (
	msgFieldRequired         = "This field is required"
	msgNameTooLong           = "Ensure this field has no more than 100 characters"
	msgPhoneDigitsOnly       = "Phone number must contain only digits"
	msgPhoneLength           = "Phone number must be exactly 10 digits"
	msgPhoneTaken            = "A driver with this phone number already exists"
	msgPlateEmpty            = "Vehicle plate cannot be empty"
	msgPlateTooLong          = "Ensure this field has no more than 20 characters"
	msgPlateTaken            = "A driver with this vehicle plate already exists"
	msgInvalidType = "Not a valid vehicle type"
)

// FieldErrors maps field names to their validation messages.
type FieldErrors map[string][]string

// ValidationError reports per-field validation failures. The request must be
// rejected before any mutation is applied.
type ValidationError struct {
	Fields FieldErrors
}

func (e *ValidationError) Error() string {
	fields := make([]string, 0, len(e.Fields))
	for f := range e.Fields {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return "validation failed: " + strings.Join(fields, ", ")
}

// add appends a message for a field.
func (e *ValidationError) add(field, msg string) {
	if e.Fields == nil {
		e.Fields = make(FieldErrors)
	}
	e.Fields[field] = append(e.Fields[field], msg)
}

// ok reports whether no failure has been recorded.
func (e *ValidationError) ok() bool {
	return len(e.Fields) == 0
}

// isDigits reports whether s is non-empty and all ASCII digits.
func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
