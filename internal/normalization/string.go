package normalization

import (
	"strings"
)

// ParseInputString canonicalizes user-supplied identifiers (emails, usernames)
// before storage or lookup: trimmed and lowercased.
func ParseInputString(input string) string {
	return strings.ToLower(strings.TrimSpace(input))
}

func ParseInputStringPtr(input *string) *string {
	if input == nil {
		return nil
	}
	normalized := ParseInputString(*input)
	return &normalized
}
