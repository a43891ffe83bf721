package models

import (
	"strings"
	"unicode"
)

// Slugify derives a URL-safe slug from a display name: lowercase, ASCII
// letters and digits kept, everything else collapsed to single dashes.
func Slugify(name string) string {
	var b strings.Builder
	lastDash := true // avoid a leading dash
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case unicode.IsLetter(r) && r < 128, unicode.IsDigit(r) && r < 128:
			b.WriteRune(r)
			lastDash = false
		default:
			if !lastDash {
				b.WriteByte('-')
				lastDash = true
			}
		}
	}
	return strings.TrimRight(b.String(), "-")
}
