package render

import (
	"strings"

	"cvforge/internal/document"
)

// The preview renderer produces a JSON-serializable node tree the editor
// turns into live markup. It is a pure function of the content and the plan:
// no caching, no state, so every keystroke re-renders from scratch and the
// editor never flashes stale output.

// Node kinds understood by the editor's preview component.
const (
	NodePage      = "page"
	NodeHeader    = "header"
	NodeSection   = "section"
	NodeHeading   = "heading"
	NodeEntry     = "entry"
	NodeLine      = "line"
	NodeParagraph = "paragraph"
	NodeLink      = "link"
	NodePill      = "pill"
	NodeSignature = "signature"
)

// Node is one element of the preview tree. HTML holds pre-formatted markup
// from the formatting engine; Text holds plain (unformatted) strings.
type Node struct {
	Kind     string  `json:"kind"`
	Text     string  `json:"text,omitempty"`
	HTML     string  `json:"html,omitempty"`
	Href     string  `json:"href,omitempty"`
	Meta     string  `json:"meta,omitempty"`
	Font     string  `json:"font,omitempty"`
	Class    string  `json:"class,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

func section(title string, children ...*Node) *Node {
	s := &Node{Kind: NodeSection, Children: []*Node{{Kind: NodeHeading, Text: title}}}
	return s.add(children...)
}

// PreviewResume renders a resume content payload into a preview tree.
// Sections with no underlying items are omitted entirely; the section order
// is the fixed canonical one regardless of layout.section_order.
func PreviewResume(c document.ResumeContent, plan Plan) *Node {
	page := &Node{Kind: NodePage, Font: plan.FontFamily, Class: string(plan.Variant)}

	header := &Node{Kind: NodeHeader}
	name := strings.TrimSpace(c.Profile.FirstName + " " + c.Profile.LastName)
	if name == "" {
		name = "Your Name"
	}
	header.add(&Node{Kind: NodeHeading, Text: name, Class: "name"})
	if c.Profile.Headline != "" {
		header.add(&Node{Kind: NodeLine, Text: c.Profile.Headline, Class: "headline"})
	}
	for _, part := range nonEmpty(c.Profile.Email, c.Profile.Phone, c.Profile.Location, c.Profile.Website) {
		header.add(&Node{Kind: NodeLine, Text: part, Class: "contact"})
	}
	for _, f := range c.Profile.ExtraFields {
		if f.Label != "" && f.Value != "" {
			header.add(&Node{Kind: NodeLine, Text: f.Label + ": " + f.Value, Class: "contact"})
		}
	}
	page.add(header)

	if strings.TrimSpace(c.Profile.SummaryMarkdown) != "" {
		page.add(section("Profile", &Node{
			Kind: NodeParagraph,
			HTML: FormatLines(c.Profile.SummaryMarkdown),
		}))
	}

	if len(c.Links) > 0 {
		links := section("Links")
		for _, l := range c.Links {
			label := l.Label
			if label == "" {
				label = "Link"
			}
			links.add(&Node{Kind: NodeLink, Text: label, Href: l.URL})
		}
		page.add(links)
	}

	if len(c.Experience) > 0 {
		exp := section("Experience")
		for _, e := range c.Experience {
			entry := &Node{
				Kind: NodeEntry,
				Text: joinNonEmpty(" · ", e.Role, e.Company),
				Meta: DateRange(e.StartDate, e.EndDate, e.IsCurrent),
			}
			if e.Location != "" {
				entry.add(&Node{Kind: NodeLine, Text: e.Location, Class: "muted"})
			}
			if strings.TrimSpace(e.DescriptionMarkdown) != "" {
				entry.add(&Node{Kind: NodeParagraph, HTML: FormatLines(e.DescriptionMarkdown)})
			}
			exp.add(entry)
		}
		page.add(exp)
	}

	if len(c.Education) > 0 {
		edu := section("Education")
		for _, e := range c.Education {
			entry := &Node{
				Kind: NodeEntry,
				Text: joinNonEmpty(" · ", e.Degree, e.School),
				Meta: DateRange(e.StartDate, e.EndDate, false),
			}
			for _, extra := range nonEmpty(e.Field, e.Location) {
				entry.add(&Node{Kind: NodeLine, Text: extra, Class: "muted"})
			}
			if strings.TrimSpace(e.DescriptionMarkdown) != "" {
				entry.add(&Node{Kind: NodeParagraph, HTML: FormatLines(e.DescriptionMarkdown)})
			}
			edu.add(entry)
		}
		page.add(edu)
	}

	if !c.Skills.Empty() {
		page.add(previewSkills(c.Skills))
	}

	if len(c.Languages) > 0 {
		langs := section("Languages")
		for _, l := range c.Languages {
			langs.add(&Node{Kind: NodePill, Text: l.Name, Meta: l.Level})
		}
		page.add(langs)
	}

	for _, cs := range c.CustomSections {
		if len(cs.Items) == 0 {
			continue
		}
		title := cs.Title
		if title == "" {
			title = "Section"
		}
		sec := section(title)
		for _, item := range cs.Items {
			entry := &Node{
				Kind: NodeEntry,
				Text: item.Label,
				Meta: DateRange(item.StartDate, item.EndDate, false),
			}
			if strings.TrimSpace(item.DescriptionMarkdown) != "" {
				entry.add(&Node{Kind: NodeParagraph, HTML: FormatLines(item.DescriptionMarkdown)})
			}
			sec.add(entry)
		}
		page.add(sec)
	}

	return page
}

// previewSkills branches on which of the two stored skill shapes is present.
func previewSkills(skills document.SkillList) *Node {
	sec := section("Skills")
	if skills.Grouped() {
		for _, g := range skills.Groups {
			if len(g.Items) == 0 {
				continue
			}
			group := &Node{Kind: NodeEntry, Text: g.Title}
			for _, item := range g.Items {
				group.add(&Node{Kind: NodePill, Text: item.Name})
			}
			sec.add(group)
		}
		return sec
	}
	for _, s := range skills.Flat {
		pill := &Node{Kind: NodePill, Text: s.Name}
		if s.Level > 0 {
			pill.Meta = levelLabel(s.Level)
		}
		sec.add(pill)
	}
	return sec
}

func levelLabel(level int) string {
	if level < 1 {
		level = 1
	}
	if level > 5 {
		level = 5
	}
	return []string{"1/5", "2/5", "3/5", "4/5", "5/5"}[level-1]
}

// PreviewCoverLetter renders a cover letter into a preview tree. Disabled
// blocks and sections never appear in the output, a disabled date block
// produces no date line, and the date block is consumed into the header
// rather than rendered in the body.
func PreviewCoverLetter(c document.CoverLetterContent, plan Plan) *Node {
	page := &Node{Kind: NodePage, Font: plan.FontFamily, Class: string(plan.Variant) + " " + plan.SpacingClass}

	senderName := strings.TrimSpace(c.Sender.FullName)
	if senderName == "" {
		senderName = "Your Name"
	}

	if c.Layout.IncludeSenderHeader() {
		header := &Node{Kind: NodeHeader}
		header.add(&Node{Kind: NodeHeading, Text: senderName, Class: "name"})
		if date, ok := c.DateBlock(); ok && strings.TrimSpace(date.Value) != "" {
			header.add(&Node{
				Kind:  NodeLine,
				Text:  ResolvePlaceholders(date.Value, c),
				Meta:  plan.Labels.Date,
				Class: "date",
			})
		}
		for _, part := range plan.ContactParts {
			header.add(&Node{Kind: NodeLine, Text: part, Class: "contact"})
		}
		for _, l := range c.Sender.Links {
			if l.Label == "" && l.URL == "" {
				continue
			}
			label := l.Label
			if label == "" {
				label = l.URL
			}
			header.add(&Node{Kind: NodeLink, Text: label, Href: l.URL})
		}
		page.add(header)
	}

	if len(plan.RecipientLines) > 0 {
		recipient := &Node{Kind: NodeSection, Class: "recipient"}
		recipient.add(&Node{Kind: NodeHeading, Text: plan.Labels.To})
		for _, line := range plan.RecipientLines {
			recipient.add(&Node{Kind: NodeLine, Text: line})
		}
		page.add(recipient)
	}

	if c.Layout.IncludeMetaLine() && plan.JobLine != "" {
		page.add(&Node{Kind: NodeLine, Text: plan.Labels.Subject + ": " + subjectLine(c), Class: "subject"})
	}

	for _, block := range c.EnabledBlocks() {
		if block.Type == document.BlockDate {
			continue
		}
		markdown := DropLegacyDefault(block.Markdown)
		node := &Node{Kind: NodeSection, Class: "block " + block.Type}
		for _, p := range FormatParagraphs(ResolvePlaceholders(markdown, c)) {
			para := &Node{Kind: NodeParagraph, HTML: p}
			if block.Type == document.BlockSignature {
				para.Font = plan.SignatureFontFamily
				para.Class = "signature-script"
			}
			node.add(para)
		}
		if block.Type == document.BlockSignature {
			node.Kind = NodeSignature
			node.add(&Node{Kind: NodeLine, Text: senderName, Class: "signature-name"})
		}
		if len(node.Children) == 0 {
			continue
		}
		page.add(node)
	}

	for _, cs := range c.EnabledCustomSections() {
		title := cs.Title
		if title == "" {
			title = "Section"
		}
		sec := section(title)
		sec.Class = "custom"
		for _, p := range FormatParagraphs(ResolvePlaceholders(cs.Markdown, c)) {
			sec.add(&Node{Kind: NodeParagraph, HTML: p})
		}
		page.add(sec)
	}

	return page
}

func subjectLine(c document.CoverLetterContent) string {
	title := c.Meta.JobTitle
	if title == "" {
		title = "Role"
	}
	if c.Meta.CompanyName != "" {
		return title + " — " + c.Meta.CompanyName
	}
	return title
}
