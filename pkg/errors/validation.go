package errors

import (
	"strings"
	"time"
	"unicode"
)

// ValidateID validates a row, task or timespan identifier.
//
// The validation rules are intentionally conservative:
//   - No empty ids
//   - No control characters
//   - Maximum length of 256 characters
func ValidateID(kind, id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "%s id cannot be empty", kind)
	}

	if len(id) > 256 {
		return New(ErrCodeInvalidInput, "%s id too long (max 256 characters)", kind)
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "%s id contains invalid control characters", kind)
		}
	}

	return nil
}

// ValidateRange validates that from is not after to.
// Zero values are rejected because a range needs both bounds.
func ValidateRange(from, to time.Time) error {
	if from.IsZero() || to.IsZero() {
		return New(ErrCodeInvalidDate, "range requires both from and to")
	}
	if from.After(to) {
		return New(ErrCodeInvalidDate, "range start %s is after end %s",
			from.Format(time.RFC3339), to.Format(time.RFC3339))
	}
	return nil
}

// ValidatePath validates a file path given on the command line or in a
// request for safety.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No path traversal sequences (..)
func ValidatePath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 500
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if r == '\x00' || unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid characters")
		}
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	return nil
}
