package tui

import "strings"

// truncate shortens a string to max length with ellipsis
func truncate(s string, max int) string {
	if max <= 3 || len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// repeat creates a string by repeating s n times
func repeat(s string, n int) string {
	if n < 0 {
		n = 0
	}
	return strings.Repeat(s, n)
}
