package helpers

import "unicode/utf8"

// Truncate shortens the given string to at most n bytes, appending "..." if truncation occurs.
// The cut never splits a multi-byte rune.
func Truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := max(n-3, 0)
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
