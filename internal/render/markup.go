package render

import (
	"regexp"
	"strings"
)

// The formatting engine is a total text-to-markup transform. Escaping always
// runs first so that user-authored bold/link syntax can never smuggle raw
// HTML through, and every function returns some output for any input:
// unbalanced tokens simply stay literal.

var (
	boldPattern   = regexp.MustCompile(`(?s)\*\*(.+?)\*\*`)
	italicPattern = regexp.MustCompile(`(?s)_(.+?)_`)
	linkPattern   = regexp.MustCompile(`(?s)\[(.+?)\]\((.+?)\)`)

	paragraphSplit = regexp.MustCompile(`\n\s*\n`)
)

// Entities the escaper itself emits. Leaving them untouched keeps escaping
// idempotent on already-formatted plain text.
var knownEntities = []string{"&amp;", "&lt;", "&gt;", "&quot;", "&#039;"}

// EscapeHTML escapes the five HTML-significant characters. An ampersand that
// already begins one of the escaper's own entities passes through unchanged.
func EscapeHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '&':
			if startsKnownEntity(s[i:]) {
				b.WriteByte('&')
			} else {
				b.WriteString("&amp;")
			}
		case '<':
			b.WriteString("&lt;")
		case '>':
			b.WriteString("&gt;")
		case '"':
			b.WriteString("&quot;")
		case '\'':
			b.WriteString("&#039;")
		default:
			b.WriteByte(s[i])
		}
	}
	return b.String()
}

func startsKnownEntity(s string) bool {
	for _, e := range knownEntities {
		if strings.HasPrefix(s, e) {
			return true
		}
	}
	return false
}

// FormatInline escapes the input and then applies, in this fixed order, the
// three inline markup rules: **bold**, _italic_ and [label](url). Patterns
// are non-greedy and may span newlines. Links open in a new context without
// a referrer.
func FormatInline(s string) string {
	html := EscapeHTML(s)
	html = boldPattern.ReplaceAllString(html, "<strong>$1</strong>")
	html = italicPattern.ReplaceAllString(html, "<em>$1</em>")
	html = linkPattern.ReplaceAllString(html, `<a href="$2" target="_blank" rel="noreferrer">$1</a>`)
	return html
}

// FormatLines is the single-line render contract: inline formatting with
// every remaining newline converted to an explicit line break. Used for
// resume summaries and entry descriptions.
func FormatLines(s string) string {
	return strings.ReplaceAll(FormatInline(s), "\n", "<br />")
}

// SplitParagraphs groups text into blank-line-separated paragraphs, dropping
// empty ones. This is the letter-body contract shared by the preview and
// print renderers; neither re-implements its own splitting.
func SplitParagraphs(s string) []string {
	parts := paragraphSplit.Split(strings.TrimSpace(s), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, p)
	}
	return out
}

// FormatParagraphs applies the inline rules to each blank-line-separated
// paragraph of s, preserving single newlines inside a paragraph as breaks.
func FormatParagraphs(s string) []string {
	paragraphs := SplitParagraphs(s)
	out := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		out = append(out, FormatLines(p))
	}
	return out
}
