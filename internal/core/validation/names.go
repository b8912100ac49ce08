package validation

import (
	"fmt"
	"regexp"
)

// =============================================================================
// Service Name Validation
// =============================================================================

// MaxNameLength is the longest name usable as a DNS label.
const MaxNameLength = 63

// A service name is a compose key, a directory name and a hostname on the
// compose network.
var nameRegex = regexp.MustCompile(`^[a-z0-9]([a-z0-9_-]*[a-z0-9])?$`)

// ValidateName checks that name is a lowercase DNS label (underscores
// allowed, as compose accepts them).
//
// Example:
//
//	ValidateName("backend")  // nil
//	ValidateName("Back End") // ErrInvalidName
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidName, name, MaxNameLength)
	}
	if !nameRegex.MatchString(name) {
		if s := SuggestName(name); s != "" {
			return fmt.Errorf("%w: %q (try %q)", ErrInvalidName, name, s)
		}
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// SuggestName converts a name to a valid service name.
//
// The transformation rules are:
//   - Lowercase letters (a-z), digits, hyphens and underscores are kept as-is
//   - Uppercase letters (A-Z) are converted to lowercase
//   - Spaces and dots are converted to hyphens
//   - All other characters are removed
//   - Leading and trailing hyphens and underscores are trimmed
//
// Example:
//
//	SuggestName("Hello World") // returns "hello-world"
//	SuggestName("My App 2.0!") // returns "my-app-2-0"
func SuggestName(name string) string {
	slug := make([]byte, 0, len(name))
	for _, r := range name {
		switch {
		case (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '-' || r == '_':
			slug = append(slug, byte(r))
		case r >= 'A' && r <= 'Z':
			slug = append(slug, byte(r+32))
		case r == ' ' || r == '.':
			slug = append(slug, '-')
		}
	}

	start, end := 0, len(slug)
	for start < end && (slug[start] == '-' || slug[start] == '_') {
		start++
	}
	for end > start && (slug[end-1] == '-' || slug[end-1] == '_') {
		end--
	}
	if end-start > MaxNameLength {
		end = start + MaxNameLength
	}
	return string(slug[start:end])
}
