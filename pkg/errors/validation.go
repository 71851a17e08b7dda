package errors

import (
	"regexp"
	"strings"
	"unicode"
)

// familyIDRegex matches family identifiers as they appear in processed file
// names and HTTP routes (e.g. "10001").
var familyIDRegex = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9_.-]*$`)

// ValidateFamilyID validates a family identifier for safety.
// Family ids become file names and URL segments, so the rules reject
// anything that could escape a data directory:
//   - No empty ids
//   - Maximum length of 128 characters
//   - No path traversal sequences (..)
//   - Only letters, digits, '_', '-' and '.'
func ValidateFamilyID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidFamilyID, "family id cannot be empty")
	}

	if len(id) > 128 {
		return New(ErrCodeInvalidFamilyID, "family id too long (max 128 characters)")
	}

	if strings.Contains(id, "..") {
		return New(ErrCodeInvalidFamilyID, "family id cannot contain path traversal sequences (..)")
	}

	if !familyIDRegex.MatchString(id) {
		return New(ErrCodeInvalidFamilyID, "invalid family id: %q", id)
	}

	return nil
}

// ValidatePersonID validates a person identifier from a dataset.
// Person ids are opaque, but they must be non-empty and free of control
// characters so they can be rendered and used as DOT node names.
func ValidatePersonID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidDataset, "person id cannot be empty")
	}

	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidDataset, "person id %q contains invalid control characters", id)
		}
	}

	return nil
}

// ValidatePath validates a relative file path for safety.
// It prevents path traversal attacks and ensures reasonable path length.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 500 characters
//   - No null bytes or control characters
//   - No absolute paths (must be relative)
//   - No path traversal sequences (..)
//   - No backslashes (Windows-style paths)
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

	if strings.HasPrefix(path, "/") {
		return New(ErrCodeInvalidPath, "path must be relative (cannot start with /)")
	}

	if strings.Contains(path, "..") {
		return New(ErrCodeInvalidPath, "path cannot contain path traversal sequences (..)")
	}

	if strings.Contains(path, "\\") {
		return New(ErrCodeInvalidPath, "path cannot contain backslashes")
	}

	return nil
}
