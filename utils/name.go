package utils

import (
	"path/filepath"
	"strings"
)

// TeamNameFromArchive derives a display name from an uploaded archive name,
// e.g. "uploads/Team Rocket.zip" -> "Team Rocket".
func TeamNameFromArchive(name string) string {
	base := filepath.Base(name)
	ext := filepath.Ext(base)
	if strings.EqualFold(ext, ".zip") {
		base = strings.TrimSuffix(base, ext)
	}
	base = strings.TrimSpace(base)
	if base == "" || base == "." {
		return "submission"
	}
	return base
}

// TruncateRunes cuts s to at most n runes without splitting a multi-byte
// character. Content beyond the budget is dropped silently.
func TruncateRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	count := 0
	for i := range s {
		if count == n {
			return s[:i]
		}
		count++
	}
	return s
}
