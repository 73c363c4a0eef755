package render

import (
	"regexp"
	"strings"
)

// Earlier content defaults seeded blocks with placeholder phrases. They are
// blanked at render time so stale auto-filled text never shows up in a
// finished document; the stored value is left untouched.
var legacyDefaultPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)^\*{0,2}\s*\{\{\s*full_name\s*\}\}\s*\*{0,2}$`),
	regexp.MustCompile(`(?i)^\*{0,2}\s*your name\s*\*{0,2}$`),
	regexp.MustCompile(`(?i)#position`),
	regexp.MustCompile(`(?i)#company`),
}

// IsLegacyDefault reports whether text is a known leftover default. Callers
// treat the field as empty for rendering when true. Applied to block and
// section markdown only, never to structured fields.
func IsLegacyDefault(text string) bool {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return false
	}
	for _, p := range legacyDefaultPatterns {
		if p.MatchString(trimmed) {
			return true
		}
	}
	return false
}

// DropLegacyDefault returns text unchanged unless it is a legacy default, in
// which case it returns the empty string.
func DropLegacyDefault(text string) string {
	if IsLegacyDefault(text) {
		return ""
	}
	return text
}
