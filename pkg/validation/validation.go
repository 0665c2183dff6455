package validation

import (
	"strings"
	"unicode/utf8"
)

// IsNotEmpty checks if string is not empty after trimming
func IsNotEmpty(s string) bool {
	return strings.TrimSpace(s) != ""
}

// HasMinLength reports whether s holds at least n characters.
func HasMinLength(s string, n int) bool {
	return utf8.RuneCountInString(s) >= n
}

// TrimAndValidate trims string and validates it's not empty
func TrimAndValidate(s string) (string, bool) {
	trimmed := strings.TrimSpace(s)
	return trimmed, trimmed != ""
}

// AllNotEmpty reports whether every value is non-blank.
func AllNotEmpty(values ...string) bool {
	for _, v := range values {
		if !IsNotEmpty(v) {
			return false
		}
	}
	return true
}
