package upload

import (
	"fmt"
	"regexp"
	"strings"
	"time"
)

const DefaultCategory = "general"

var categoryPattern = regexp.MustCompile(`^[a-z0-9-]+$`)

// ValidCategory reports whether category is a lowercase slug.
func ValidCategory(category string) bool {
	return categoryPattern.MatchString(category)
}

// SanitizeFileName keeps ASCII letters, digits, dot, underscore and hyphen and
// replaces every other rune with an underscore.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '_', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	if b.Len() == 0 {
		return "file"
	}
	return b.String()
}

// ObjectPath lays out an upload as {category}/{unixMillis}-{random}-{name}.
func ObjectPath(category, fileName string, at time.Time, random string) string {
	return fmt.Sprintf("%s/%d-%s-%s", category, at.UnixMilli(), random, SanitizeFileName(fileName))
}
