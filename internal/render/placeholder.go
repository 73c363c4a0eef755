package render

import (
	"regexp"

	"cvforge/internal/document"
)

var placeholderPattern = regexp.MustCompile(`\{\{\s*(.+?)\s*\}\}`)

// ResolvePlaceholders substitutes {{ key }} tokens against the cover letter's
// meta and sender fields. Unknown keys resolve to the empty string rather
// than staying literal or erroring. Resolution runs strictly before the
// formatting engine; resolved values are opaque text and get escaped there.
func ResolvePlaceholders(text string, cover document.CoverLetterContent) string {
	values := map[string]string{
		"company_name":    cover.Meta.CompanyName,
		"job_title":       cover.Meta.JobTitle,
		"recipient_name":  cover.Meta.RecipientName,
		"recipient_title": cover.Meta.RecipientTitle,
		"full_name":       cover.Sender.FullName,
	}

	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		key := placeholderPattern.FindStringSubmatch(match)[1]
		return values[key]
	})
}
