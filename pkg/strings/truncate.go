package strings

import (
	"strings"
)

// MinTruncateLen is the smallest maxLen Truncate honours; smaller values
// would not leave room for a character plus "...".
const MinTruncateLen = 4

// Truncate collapses whitespace (including newlines) to single spaces and
// shortens the result to maxLen runes, ending in "..." when cut.
func Truncate(s string, maxLen int) string {
	if maxLen < MinTruncateLen {
		maxLen = MinTruncateLen
	}

	s = strings.Join(strings.Fields(s), " ")

	runes := []rune(s)
	if len(runes) > maxLen {
		return string(runes[:maxLen-3]) + "..."
	}
	return s
}
