package errors

import (
	"slices"
	"strings"
	"unicode"
)

// ValidateFormat checks that value is one of allowed. kind names the option
// in the error message (e.g. "input format").
func ValidateFormat(kind, value string, allowed []string) error {
	if slices.Contains(allowed, value) {
		return nil
	}
	return New(ErrCodeInvalidFormat, "unsupported %s %q (want one of %s)", kind, value, strings.Join(allowed, ", "))
}

// ValidateInputPath validates a local input file path.
//
// Validation rules:
//   - Path cannot be empty
//   - Maximum length of 4096 characters
//   - No null bytes or control characters
func ValidateInputPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "path cannot be empty")
	}

	const maxPathLength = 4096
	if len(path) > maxPathLength {
		return New(ErrCodeInvalidPath, "path too long (max %d characters)", maxPathLength)
	}

	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "path contains invalid control characters")
		}
	}

	return nil
}

// ValidateRedisURL validates a Redis connection URL.
// Only the redis:// and rediss:// schemes are accepted.
func ValidateRedisURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidConfig, "redis URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "redis://") && !strings.HasPrefix(rawURL, "rediss://") {
		return New(ErrCodeInvalidConfig, "redis URL must use redis or rediss scheme")
	}

	return nil
}
