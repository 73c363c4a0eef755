package render

import (
	"strings"
	"time"

	"cvforge/internal/document"
)

// Variant is the layout variant tag carried on a render plan.
type Variant string

const (
	VariantClassic Variant = "classic"
	VariantModern  Variant = "modern"
)

// SelectVariant maps a template key to a layout variant. Unset or
// unrecognized keys fall back to classic.
func SelectVariant(templateKey string) Variant {
	if templateKey == document.TemplateModern {
		return VariantModern
	}
	return VariantClassic
}

// FontFamily resolves a stored font name to a CSS font stack. The three
// recognized fonts come from the editor's font picker; anything else falls
// back to Garamond.
func FontFamily(font string) string {
	switch font {
	case "Times New Roman":
		return `"Times New Roman", Times, serif`
	case "Montserrat":
		return `"Montserrat", "Helvetica Neue", Arial, sans-serif`
	default:
		return `Garamond, "Times New Roman", serif`
	}
}

// SignatureFontFamily resolves the signature script font with the cursive
// fallback chain shared by both renderers.
func SignatureFontFamily(font string) string {
	if strings.TrimSpace(font) == "" {
		font = document.DefaultSignatureFont
	}
	return `"` + font + `", "Alex Brush", "Great Vibes", "Imperial Script", "Mrs Saint Delafield", "WindSong", "Yesteryear", cursive`
}

// Labels is the per-language copy table for the cover letter chrome.
// English is the unconditional fallback for unknown codes.
type Labels struct {
	To      string `json:"to"`
	Subject string `json:"subject"`
	Date    string `json:"date"`
}

var coverLabels = map[string]Labels{
	"en": {To: "To", Subject: "Subject", Date: "Date"},
	"de": {To: "An", Subject: "Betreff", Date: "Datum"},
	"fr": {To: "À", Subject: "Objet", Date: "Date"},
}

// LabelsFor returns the label set for a language code, falling back to
// English when the code is unknown.
func LabelsFor(language string) Labels {
	if l, ok := coverLabels[language]; ok {
		return l
	}
	return coverLabels["en"]
}

// Plan is the pure, template-derived projection of a document's presentation
// parameters. Both renderers consume the same plan, which is what keeps the
// preview and the print output visually consistent. A plan never mutates the
// content it was derived from.
type Plan struct {
	DocumentType string  `json:"document_type"`
	Variant      Variant `json:"variant"`
	FontFamily   string  `json:"font_family"`
	Labels       Labels  `json:"labels"`

	// Cover letter derived fields; zero-valued for resumes.
	SignatureFontFamily string   `json:"signature_font_family,omitempty"`
	JobLine             string   `json:"job_line,omitempty"`
	ContactParts        []string `json:"contact_parts,omitempty"`
	RecipientLines      []string `json:"recipient_lines,omitempty"`
	SpacingClass        string   `json:"spacing_class,omitempty"`
}

// PlanResume builds the render plan for a resume.
func PlanResume(c document.ResumeContent, templateKey string) Plan {
	return Plan{
		DocumentType: document.TypeResume,
		Variant:      SelectVariant(templateKey),
		FontFamily:   FontFamily(c.Font),
		Labels:       LabelsFor(c.Language),
	}
}

// PlanCoverLetter builds the render plan for a cover letter, including the
// per-variant computed fields: the job line, the contact line parts, the
// recipient lines and the paragraph spacing class.
func PlanCoverLetter(c document.CoverLetterContent, templateKey string) Plan {
	return Plan{
		DocumentType:        document.TypeCoverLetter,
		Variant:             SelectVariant(templateKey),
		FontFamily:          FontFamily(c.Font),
		Labels:              LabelsFor(c.Language),
		SignatureFontFamily: SignatureFontFamily(c.SignatureFont),
		JobLine:             joinNonEmpty(" • ", c.Meta.JobTitle, c.Meta.CompanyName),
		ContactParts:        nonEmpty(c.Sender.Email, c.Sender.Phone, c.Sender.Location),
		RecipientLines:      nonEmpty(c.Meta.RecipientName, c.Meta.RecipientTitle, c.Meta.CompanyName),
		SpacingClass:        "spacing-" + c.Layout.Spacing(),
	}
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}

func joinNonEmpty(sep string, values ...string) string {
	return strings.Join(nonEmpty(values...), sep)
}

// FormatDate renders a stored ISO date as "Jan 2006" for display. Values
// that do not parse pass through verbatim; empty stays empty.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	for _, layout := range []string{"2006-01-02", "2006-01", "2006"} {
		if t, err := time.Parse(layout, value); err == nil {
			if layout == "2006" {
				return t.Format("2006")
			}
			return t.Format("Jan 2006")
		}
	}
	return value
}

// DateRange joins a start and end date with a dash; IsCurrent entries end in
// "Present". A missing side is dropped rather than leaving a dangling dash.
func DateRange(start, end string, current bool) string {
	startLabel := FormatDate(start)
	endLabel := FormatDate(end)
	if current {
		endLabel = "Present"
	}
	if startLabel == "" {
		return endLabel
	}
	if endLabel == "" {
		return startLabel
	}
	return startLabel + " - " + endLabel
}
