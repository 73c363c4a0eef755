package render

import (
	"fmt"
	"html/template"
	"strings"

	"cvforge/internal/document"
)

// The print renderer emits deterministic, self-contained HTML (inline CSS,
// no mutable external state) that the headless browser rasterizes to an A4
// page. It consumes the same render plan, formatting engine, placeholder
// resolver and legacy sanitizer as the preview renderer.

var (
	resumePrintTemplate = template.Must(template.New("resume").Parse(resumePrintTemplateString))
	coverPrintTemplate  = template.Must(template.New("cover").Parse(coverPrintTemplateString))
)

type printLink struct {
	Label string
	URL   string
}

type printEntry struct {
	Title    string
	Subtitle string
	Meta     string
	Range    string
	BodyHTML template.HTML
}

type printPair struct {
	Label string
	Value string
}

type printSkillGroup struct {
	Title string
	Items []printPair
}

type resumePrintData struct {
	Title       string
	FontFamily  template.CSS
	Modern      bool
	Name        string
	Headline    string
	Location    string
	Phone       string
	Email       string
	Website     string
	Extras      []printPair
	SummaryHTML template.HTML
	Links       []printLink
	Experience  []printEntry
	Education   []printEntry
	SkillGroups []printSkillGroup
	SkillPairs  []printPair
	Languages   []printPair
	Custom      []resumeCustomPrint
}

type resumeCustomPrint struct {
	Title string
	Items []printEntry
}

// PrintResume renders a resume into print HTML for the chosen variant.
func PrintResume(title string, c document.ResumeContent, plan Plan) (string, error) {
	data := resumePrintData{
		Title:      title,
		FontFamily: template.CSS(plan.FontFamily),
		Modern:     plan.Variant == VariantModern,
		Name:       strings.TrimSpace(c.Profile.FirstName + " " + c.Profile.LastName),
		Headline:   c.Profile.Headline,
		Location:   c.Profile.Location,
		Phone:      c.Profile.Phone,
		Email:      c.Profile.Email,
		Website:    c.Profile.Website,
	}
	if data.Name == "" {
		data.Name = "Your Name"
	}
	for _, f := range c.Profile.ExtraFields {
		if f.Label != "" && f.Value != "" {
			data.Extras = append(data.Extras, printPair{Label: f.Label, Value: f.Value})
		}
	}
	if strings.TrimSpace(c.Profile.SummaryMarkdown) != "" {
		data.SummaryHTML = template.HTML(FormatLines(c.Profile.SummaryMarkdown))
	}
	for _, l := range c.Links {
		label := l.Label
		if label == "" {
			label = "Link"
		}
		data.Links = append(data.Links, printLink{Label: label, URL: l.URL})
	}
	for _, e := range c.Experience {
		entry := printEntry{
			Title:    orDefault(e.Role, "Role"),
			Subtitle: orDefault(e.Company, "Company"),
			Meta:     e.Location,
			Range:    DateRange(e.StartDate, e.EndDate, e.IsCurrent),
		}
		if strings.TrimSpace(e.DescriptionMarkdown) != "" {
			entry.BodyHTML = template.HTML(FormatLines(e.DescriptionMarkdown))
		}
		data.Experience = append(data.Experience, entry)
	}
	for _, e := range c.Education {
		entry := printEntry{
			Title:    orDefault(e.Degree, "Degree"),
			Subtitle: orDefault(e.School, "School"),
			Meta:     joinNonEmpty(" · ", e.Field, e.Location),
			Range:    DateRange(e.StartDate, e.EndDate, false),
		}
		if strings.TrimSpace(e.DescriptionMarkdown) != "" {
			entry.BodyHTML = template.HTML(FormatLines(e.DescriptionMarkdown))
		}
		data.Education = append(data.Education, entry)
	}
	if c.Skills.Grouped() {
		for _, g := range c.Skills.Groups {
			if len(g.Items) == 0 {
				continue
			}
			group := printSkillGroup{Title: g.Title}
			for _, item := range g.Items {
				group.Items = append(group.Items, printPair{Label: item.Name})
			}
			data.SkillGroups = append(data.SkillGroups, group)
		}
	} else {
		for _, s := range c.Skills.Flat {
			pair := printPair{Label: s.Name}
			if s.Level > 0 {
				pair.Value = levelLabel(s.Level)
			}
			data.SkillPairs = append(data.SkillPairs, pair)
		}
	}
	for _, l := range c.Languages {
		data.Languages = append(data.Languages, printPair{Label: l.Name, Value: l.Level})
	}
	for _, cs := range c.CustomSections {
		if len(cs.Items) == 0 {
			continue
		}
		sec := resumeCustomPrint{Title: orDefault(cs.Title, "Section")}
		for _, item := range cs.Items {
			entry := printEntry{
				Title: orDefault(item.Label, "Item"),
				Range: DateRange(item.StartDate, item.EndDate, false),
			}
			if strings.TrimSpace(item.DescriptionMarkdown) != "" {
				entry.BodyHTML = template.HTML(FormatLines(item.DescriptionMarkdown))
			}
			sec.Items = append(sec.Items, entry)
		}
		data.Custom = append(data.Custom, sec)
	}

	var b strings.Builder
	if err := resumePrintTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute resume print template: %w", err)
	}
	return b.String(), nil
}

type coverBlockPrint struct {
	IsSignature bool
	Font        template.CSS
	Paragraphs  []template.HTML
	SenderName  string
}

type coverSectionPrint struct {
	Title      string
	Paragraphs []template.HTML
}

type coverPrintData struct {
	Title        string
	FontFamily   template.CSS
	Modern       bool
	SpacingClass string
	ShowHeader   bool
	SenderName   string
	DateLabel    string
	DateLine     string
	ContactParts []string
	Links        []printLink
	ToLabel      string
	Recipient    []string
	ShowSubject  bool
	SubjectLabel string
	Subject      string
	Blocks       []coverBlockPrint
	Custom       []coverSectionPrint
}

// PrintCoverLetter renders a cover letter into print HTML. The disabled
// block invariant and the date consumption rule match the preview renderer
// because both sides read the same plan and helpers.
func PrintCoverLetter(title string, c document.CoverLetterContent, plan Plan) (string, error) {
	senderName := strings.TrimSpace(c.Sender.FullName)
	if senderName == "" {
		senderName = "Your Name"
	}

	data := coverPrintData{
		Title:        title,
		FontFamily:   template.CSS(plan.FontFamily),
		Modern:       plan.Variant == VariantModern,
		SpacingClass: plan.SpacingClass,
		ShowHeader:   c.Layout.IncludeSenderHeader(),
		SenderName:   senderName,
		DateLabel:    plan.Labels.Date,
		ToLabel:      plan.Labels.To,
		Recipient:    plan.RecipientLines,
		ContactParts: plan.ContactParts,
		SubjectLabel: plan.Labels.Subject,
	}
	if date, ok := c.DateBlock(); ok && strings.TrimSpace(date.Value) != "" {
		data.DateLine = ResolvePlaceholders(date.Value, c)
	}
	for _, l := range c.Sender.Links {
		if l.Label == "" && l.URL == "" {
			continue
		}
		label := l.Label
		if label == "" {
			label = l.URL
		}
		data.Links = append(data.Links, printLink{Label: label, URL: l.URL})
	}
	if c.Layout.IncludeMetaLine() && plan.JobLine != "" {
		data.ShowSubject = true
		data.Subject = subjectLine(c)
	}
	for _, block := range c.EnabledBlocks() {
		if block.Type == document.BlockDate {
			continue
		}
		markdown := DropLegacyDefault(block.Markdown)
		out := coverBlockPrint{IsSignature: block.Type == document.BlockSignature}
		for _, p := range FormatParagraphs(ResolvePlaceholders(markdown, c)) {
			out.Paragraphs = append(out.Paragraphs, template.HTML(p))
		}
		if out.IsSignature {
			out.Font = template.CSS(plan.SignatureFontFamily)
			out.SenderName = senderName
		}
		if len(out.Paragraphs) == 0 && !out.IsSignature {
			continue
		}
		data.Blocks = append(data.Blocks, out)
	}
	for _, cs := range c.EnabledCustomSections() {
		sec := coverSectionPrint{Title: orDefault(cs.Title, "Section")}
		for _, p := range FormatParagraphs(ResolvePlaceholders(cs.Markdown, c)) {
			sec.Paragraphs = append(sec.Paragraphs, template.HTML(p))
		}
		data.Custom = append(data.Custom, sec)
	}

	var b strings.Builder
	if err := coverPrintTemplate.Execute(&b, data); err != nil {
		return "", fmt.Errorf("execute cover letter print template: %w", err)
	}
	return b.String(), nil
}

func orDefault(value, fallback string) string {
	if strings.TrimSpace(value) == "" {
		return fallback
	}
	return value
}
