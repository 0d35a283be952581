package test_helpers

import (
	"strings"
)

func numSpaces(s string) int {
	n := 0
	for _, ch := range s {
		if ch != ' ' {
			break
		}
		n++
	}
	return n
}

// Dedent removes the common leading spaces of every line, and trims the result.
// Indent multiline `backtick` strings with spaces, not tabs.
func Dedent(s string) string {
	lines := strings.Split(s, "\n")
	minSpaces := len(s)
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		if n := numSpaces(line); n < minSpaces {
			minSpaces = n
		}
	}
	prefix := strings.Repeat(" ", minSpaces)
	for i, line := range lines {
		lines[i] = strings.TrimPrefix(line, prefix)
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
