package errors

import (
	"strings"
	"unicode"
)

// maxIDLength bounds node and edge identifiers.
const maxIDLength = 256

// ValidateID validates a node or edge identifier.
//
// Identifiers end up in SVG id attributes, cache keys and DOT source, so the
// rules are conservative:
//   - No empty identifiers
//   - No control characters or null bytes
//   - No whitespace (ids become element ids)
//   - Maximum length of 256 bytes
func ValidateID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "identifier cannot be empty")
	}
	if len(id) > maxIDLength {
		return New(ErrCodeInvalidInput, "identifier too long (max %d characters)", maxIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "identifier %q contains control characters", id)
		}
		if unicode.IsSpace(r) {
			return New(ErrCodeInvalidInput, "identifier %q contains whitespace", id)
		}
	}
	return nil
}

// ValidateName validates a display name taken from a mapping result
// (state names, effect names, JSX tags). Names may contain spaces and
// punctuation but not control characters.
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "name cannot be empty")
	}
	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "name %q contains control characters", name)
		}
	}
	return nil
}
