package render

import (
	"strings"
	"testing"

	"cvforge/internal/document"
)

func findSection(page *Node, heading string) *Node {
	for _, child := range page.Children {
		if child.Kind != NodeSection {
			continue
		}
		if len(child.Children) > 0 && child.Children[0].Kind == NodeHeading && child.Children[0].Text == heading {
			return child
		}
	}
	return nil
}

func collectText(n *Node, sb *strings.Builder) {
	sb.WriteString(n.Text)
	sb.WriteString(n.HTML)
	for _, c := range n.Children {
		collectText(c, sb)
	}
}

func treeText(n *Node) string {
	var sb strings.Builder
	collectText(n, &sb)
	return sb.String()
}

func TestPreviewResumeSections(t *testing.T) {
	var c document.ResumeContent
	c.Profile.FirstName = "Ada"
	c.Profile.LastName = "Lovelace"
	c.Experience = []document.ResumeExperience{{
		Role:      "Engineer",
		Company:   "Acme",
		StartDate: "2021-03",
		IsCurrent: true,
	}}

	page := PreviewResume(c, PlanResume(c, "classic"))

	if page.Kind != NodePage {
		t.Fatalf("root kind = %q", page.Kind)
	}
	exp := findSection(page, "Experience")
	if exp == nil {
		t.Fatal("missing Experience section")
	}
	entry := exp.Children[1]
	if entry.Text != "Engineer · Acme" {
		t.Errorf("entry text = %q", entry.Text)
	}
	if entry.Meta != "Mar 2021 - Present" {
		t.Errorf("entry meta = %q", entry.Meta)
	}

	if findSection(page, "Education") != nil {
		t.Error("empty Education section should be omitted")
	}
	if findSection(page, "Skills") != nil {
		t.Error("empty Skills section should be omitted")
	}
}

func TestPreviewResumeFormatsDescriptions(t *testing.T) {
	var c document.ResumeContent
	c.Experience = []document.ResumeExperience{{
		Role:                "Engineer",
		DescriptionMarkdown: "Shipped **v2**\n<script>",
	}}

	page := PreviewResume(c, PlanResume(c, ""))

	text := treeText(page)
	if !strings.Contains(text, "Shipped <strong>v2</strong><br />&lt;script&gt;") {
		t.Errorf("description not formatted, tree text: %q", text)
	}
}

func TestPreviewResumeSkillShapes(t *testing.T) {
	var c document.ResumeContent
	c.Skills.Groups = []document.SkillGroup{{
		Title: "Backend",
		Items: []document.Skill{{Name: "Go"}, {Name: "Postgres"}},
	}}

	page := PreviewResume(c, PlanResume(c, ""))
	skills := findSection(page, "Skills")
	if skills == nil {
		t.Fatal("missing Skills section")
	}
	group := skills.Children[1]
	if group.Text != "Backend" || len(group.Children) != 2 {
		t.Errorf("unexpected group node: %+v", group)
	}

	var flat document.ResumeContent
	flat.Skills.Flat = []document.Skill{{Name: "Go", Level: 4}}
	page = PreviewResume(flat, PlanResume(flat, ""))
	skills = findSection(page, "Skills")
	if skills == nil {
		t.Fatal("missing flat Skills section")
	}
	pill := skills.Children[1]
	if pill.Kind != NodePill || pill.Text != "Go" || pill.Meta != "4/5" {
		t.Errorf("unexpected pill: %+v", pill)
	}
}

func TestPreviewResumeOmitsItemlessSkillGroups(t *testing.T) {
	var c document.ResumeContent
	c.Skills.Groups = []document.SkillGroup{{Title: "Backend"}, {Title: "Tooling"}}

	page := PreviewResume(c, PlanResume(c, ""))
	if findSection(page, "Skills") != nil {
		t.Error("Skills section rendered with only itemless groups")
	}
}

func TestPreviewCoverLetterDisabledBlockNeverRenders(t *testing.T) {
	c := testCover()
	c.Blocks = []document.CoverLetterBlock{
		{Type: document.BlockBody, Enabled: true, Markdown: "I would love to join {{company_name}}."},
		{Type: document.BlockBody, Enabled: false, Markdown: "secret draft"},
	}

	page := PreviewCoverLetter(c, PlanCoverLetter(c, "classic"))

	text := treeText(page)
	if strings.Contains(text, "secret draft") {
		t.Error("disabled block leaked into preview")
	}
	if !strings.Contains(text, "I would love to join Acme.") {
		t.Errorf("enabled block missing, tree text: %q", text)
	}
}

func TestPreviewCoverLetterSubjectLine(t *testing.T) {
	c := testCover()
	page := PreviewCoverLetter(c, PlanCoverLetter(c, ""))
	if !strings.Contains(treeText(page), "Subject: Engineer — Acme") {
		t.Error("missing subject line")
	}

	off := false
	c.Layout.IncludeMetaLineRaw = &off
	page = PreviewCoverLetter(c, PlanCoverLetter(c, ""))
	if strings.Contains(treeText(page), "Subject:") {
		t.Error("subject line rendered despite include_meta_line=false")
	}
}

func TestPreviewCoverLetterHeaderToggle(t *testing.T) {
	c := testCover()
	off := false
	c.Layout.IncludeSenderHeaderRaw = &off

	page := PreviewCoverLetter(c, PlanCoverLetter(c, ""))
	for _, child := range page.Children {
		if child.Kind == NodeHeader {
			t.Fatal("header rendered despite include_sender_header=false")
		}
	}
}

func TestPreviewCoverLetterDateStaysInHeader(t *testing.T) {
	c := testCover()
	c.Blocks = append([]document.CoverLetterBlock{
		{Type: document.BlockDate, Enabled: true, Value: "31 August 2026"},
	}, c.Blocks...)

	page := PreviewCoverLetter(c, PlanCoverLetter(c, ""))

	var header *Node
	for _, child := range page.Children {
		if child.Kind == NodeHeader {
			header = child
		}
		if child.Kind == NodeSection && strings.Contains(child.Class, document.BlockDate) {
			t.Error("date block rendered in the body")
		}
	}
	if header == nil {
		t.Fatal("missing header")
	}
	if !strings.Contains(treeText(header), "31 August 2026") {
		t.Error("date line missing from header")
	}
}

func TestPreviewCoverLetterLegacyScaffoldDropped(t *testing.T) {
	c := testCover()
	c.Blocks = []document.CoverLetterBlock{
		{Type: document.BlockBody, Enabled: true, Markdown: "**{{full_name}}**"},
	}

	page := PreviewCoverLetter(c, PlanCoverLetter(c, ""))
	if strings.Contains(treeText(page), "Ada Lovelace**") || strings.Contains(treeText(page), "<strong>Ada") {
		t.Error("legacy scaffold rendered instead of being dropped")
	}
}

func TestPreviewCoverLetterSignature(t *testing.T) {
	c := testCover()
	c.Blocks = []document.CoverLetterBlock{
		{Type: document.BlockSignature, Enabled: true, Markdown: "Ada"},
	}

	page := PreviewCoverLetter(c, PlanCoverLetter(c, ""))

	var sig *Node
	for _, child := range page.Children {
		if child.Kind == NodeSignature {
			sig = child
		}
	}
	if sig == nil {
		t.Fatal("missing signature node")
	}
	last := sig.Children[len(sig.Children)-1]
	if last.Class != "signature-name" || last.Text != "Ada Lovelace" {
		t.Errorf("unexpected signature name node: %+v", last)
	}
	if sig.Children[0].Font == "" {
		t.Error("signature paragraph missing script font")
	}
}
