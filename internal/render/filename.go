package render

import (
	"regexp"
	"strings"

	"cvforge/internal/document"
)

const (
	fileNameFallback = "document"
	fileNameMaxLen   = 180
)

var whitespaceRun = regexp.MustCompile(`\s+`)

// ResumeFileName builds the export file name for a resume:
// "Resume, First Last.pdf", with the name clause omitted when both name
// parts are empty.
func ResumeFileName(c document.ResumeContent) string {
	name := strings.TrimSpace(c.Profile.FirstName + " " + c.Profile.LastName)
	base := "Resume"
	if name != "" {
		base += ", " + name
	}
	return finishFileName(base)
}

// CoverLetterFileName builds the export file name for a cover letter:
// "Cover letter, {full_name}. {company_name}.pdf". The name and company
// clauses are omitted independently when empty, and trailing separators are
// trimmed so an empty company never leaves a dangling dot.
func CoverLetterFileName(c document.CoverLetterContent) string {
	base := "Cover letter"
	if name := strings.TrimSpace(c.Sender.FullName); name != "" {
		base += ", " + name
	}
	if company := strings.TrimSpace(c.Meta.CompanyName); company != "" {
		base += ". " + company
	}
	return finishFileName(base)
}

// finishFileName sanitizes the assembled name so it can never be empty or
// escape the export directory, then appends the pdf extension.
func finishFileName(base string) string {
	base = strings.TrimRight(base, ".,")
	base = strings.ReplaceAll(base, "/", "-")
	base = strings.ReplaceAll(base, "\\", "-")
	base = whitespaceRun.ReplaceAllString(base, " ")
	base = strings.TrimSpace(base)
	base = strings.Trim(base, ".")
	if base == "" {
		base = fileNameFallback
	}
	if runes := []rune(base); len(runes) > fileNameMaxLen {
		base = strings.TrimSpace(string(runes[:fileNameMaxLen]))
	}
	return base + ".pdf"
}
