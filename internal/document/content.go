package document

import (
	"bytes"
	"encoding/json"
)

// Document type, status and template enums shared by the store and the renderers.
const (
	TypeResume      = "resume"
	TypeCoverLetter = "cover_letter"

	StatusDraft    = "draft"
	StatusFinal    = "final"
	StatusArchived = "archived"

	TemplateClassic = "classic"
	TemplateModern  = "modern"
)

// Types lists the document types accepted by the store.
func Types() []string { return []string{TypeResume, TypeCoverLetter} }

// Statuses lists the lifecycle states a document can be in.
func Statuses() []string { return []string{StatusDraft, StatusFinal, StatusArchived} }

// Templates lists the layout variants exposed to callers.
func Templates() []string { return []string{TemplateClassic, TemplateModern} }

// ValidType reports whether t is a known document type.
func ValidType(t string) bool {
	return t == TypeResume || t == TypeCoverLetter
}

// ValidStatus reports whether s is a known document status.
func ValidStatus(s string) bool {
	return s == StatusDraft || s == StatusFinal || s == StatusArchived
}

// ValidTemplateKey reports whether k names a known layout variant.
// The empty key is valid and means "use the classic fallback".
func ValidTemplateKey(k string) bool {
	return k == "" || k == TemplateClassic || k == TemplateModern
}

// ExtraField is a free-form label/value pair shown alongside contact details.
type ExtraField struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// Link is an ordered, labeled URL.
type Link struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// ResumeProfile holds the identity block of a resume.
type ResumeProfile struct {
	FirstName       string       `json:"first_name"`
	LastName        string       `json:"last_name"`
	Headline        string       `json:"headline"`
	Email           string       `json:"email"`
	Phone           string       `json:"phone"`
	Location        string       `json:"location"`
	Website         string       `json:"website"`
	SummaryMarkdown string       `json:"summary_markdown"`
	ExtraFields     []ExtraField `json:"extra_fields"`
}

// ResumeExperience is one employment entry. IsCurrent forces the end date to
// render as "Present" regardless of EndDate.
type ResumeExperience struct {
	Company             string `json:"company"`
	Role                string `json:"role"`
	Location            string `json:"location"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	IsCurrent           bool   `json:"is_current"`
	DescriptionMarkdown string `json:"description_markdown"`
}

// ResumeEducation is one education entry.
type ResumeEducation struct {
	School              string `json:"school"`
	Degree              string `json:"degree"`
	Field               string `json:"field"`
	Location            string `json:"location"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
	DescriptionMarkdown string `json:"description_markdown"`
}

// Skill is a single named skill. Level is only populated by the legacy flat
// shape; the current grouped shape stores names only.
type Skill struct {
	Name  string `json:"name"`
	Level int    `json:"level,omitempty"`
}

// SkillGroup is the current skills shape: a titled group of named skills.
type SkillGroup struct {
	Title string  `json:"title"`
	Items []Skill `json:"items"`
}

// SkillList is the tagged union over the two skills shapes the schema has
// carried: a legacy flat list of {name, level} and the current grouped
// {title, items} form. Both decode; the grouped form is always written back.
type SkillList struct {
	Groups []SkillGroup
	Flat   []Skill
}

// Grouped reports whether the grouped (current) shape is present.
func (s SkillList) Grouped() bool { return s.Groups != nil }

// Empty reports whether the list holds no skills at all, in either shape.
func (s SkillList) Empty() bool {
	for _, g := range s.Groups {
		if len(g.Items) > 0 {
			return false
		}
	}
	return s.Groups != nil || len(s.Flat) == 0
}

// UnmarshalJSON probes the first element for the grouped shape ("items" or
// "title" keys) and decodes accordingly. An empty array decodes as an empty
// grouped list, matching what the current editor writes.
func (s *SkillList) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		s.Groups = []SkillGroup{}
		s.Flat = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(trimmed, &raw); err != nil {
		return err
	}
	if len(raw) == 0 {
		s.Groups = []SkillGroup{}
		s.Flat = nil
		return nil
	}

	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw[0], &probe); err != nil {
		return err
	}
	if _, ok := probe["items"]; ok {
		return s.decodeGrouped(trimmed)
	}
	if _, ok := probe["title"]; ok {
		return s.decodeGrouped(trimmed)
	}

	var flat []Skill
	if err := json.Unmarshal(trimmed, &flat); err != nil {
		return err
	}
	s.Groups = nil
	s.Flat = flat
	return nil
}

func (s *SkillList) decodeGrouped(data []byte) error {
	var groups []SkillGroup
	if err := json.Unmarshal(data, &groups); err != nil {
		return err
	}
	s.Groups = groups
	s.Flat = nil
	return nil
}

// MarshalJSON always emits the current grouped shape; a legacy flat list is
// upcast into a single "Skills" group on save. Levels do not survive the
// upcast because the current schema has no level field.
func (s SkillList) MarshalJSON() ([]byte, error) {
	if s.Groups != nil {
		return json.Marshal(s.Groups)
	}
	if len(s.Flat) == 0 {
		return json.Marshal([]SkillGroup{})
	}
	items := make([]Skill, 0, len(s.Flat))
	for _, sk := range s.Flat {
		items = append(items, Skill{Name: sk.Name})
	}
	return json.Marshal([]SkillGroup{{Title: "Skills", Items: items}})
}

// ResumeLanguage pairs a language name with a free-text or CEFR level.
type ResumeLanguage struct {
	Name  string `json:"name"`
	Level string `json:"level"`
}

// ResumeCustomItem is one entry inside a user-defined resume section.
type ResumeCustomItem struct {
	Label               string `json:"label"`
	DescriptionMarkdown string `json:"description_markdown"`
	StartDate           string `json:"start_date"`
	EndDate             string `json:"end_date"`
}

// ResumeCustomSection is a titled list of custom items.
type ResumeCustomSection struct {
	Title string             `json:"title"`
	Items []ResumeCustomItem `json:"items"`
}

// ResumeLayout carries layout hints. SectionOrder is stored but renderers
// apply a fixed canonical order.
type ResumeLayout struct {
	SectionOrder []string `json:"section_order"`
}

// ResumeContent is the structured payload stored on a resume document.
type ResumeContent struct {
	SchemaVersion  int                   `json:"schema_version"`
	Font           string                `json:"font"`
	Language       string                `json:"language"`
	Profile        ResumeProfile         `json:"profile"`
	Links          []Link                `json:"links"`
	Experience     []ResumeExperience    `json:"experience"`
	Education      []ResumeEducation     `json:"education"`
	Skills         SkillList             `json:"skills"`
	Languages      []ResumeLanguage      `json:"languages"`
	CustomSections []ResumeCustomSection `json:"custom_sections"`
	Layout         ResumeLayout          `json:"layout"`
}

// CoverLetterMeta describes the targeted job and its recipient.
type CoverLetterMeta struct {
	CompanyName    string `json:"company_name"`
	JobTitle       string `json:"job_title"`
	JobLocation    string `json:"job_location"`
	RecipientName  string `json:"recipient_name"`
	RecipientTitle string `json:"recipient_title"`
	JobReference   string `json:"job_reference"`
	JobURL         string `json:"job_url"`
}

// CoverLetterSender is the letterhead identity.
type CoverLetterSender struct {
	FullName    string       `json:"full_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone"`
	Location    string       `json:"location"`
	Links       []Link       `json:"links"`
	ExtraFields []ExtraField `json:"extra_fields"`
}

// CoverLetterSettings are editor hints; they are stored but never rendered.
type CoverLetterSettings struct {
	Tone   string `json:"tone"`
	Length string `json:"length"`
}

// Cover letter block types. A date block is consumed into the header; every
// other type renders in order inside the letter body.
const (
	BlockDate      = "date"
	BlockRecipient = "recipient"
	BlockOpening   = "opening"
	BlockBody      = "body"
	BlockClosing   = "closing"
	BlockSignature = "signature"
	BlockCustom    = "custom"
)

// CoverLetterBlock is one removable, typed unit of letter content.
type CoverLetterBlock struct {
	Type     string `json:"type"`
	Enabled  bool   `json:"enabled"`
	Value    string `json:"value,omitempty"`
	Markdown string `json:"markdown,omitempty"`
}

// CoverLetterCustomSection is a toggleable titled markdown section appended
// after the letter body.
type CoverLetterCustomSection struct {
	Title    string `json:"title"`
	Enabled  bool   `json:"enabled"`
	Markdown string `json:"markdown"`
}

// Paragraph spacing keys accepted by CoverLetterLayout.
const (
	SpacingCompact = "compact"
	SpacingNormal  = "normal"
	SpacingRelaxed = "relaxed"
)

// CoverLetterLayout holds presentation toggles. The booleans are pointers so
// that documents saved before the fields existed keep the historical default
// of true; use the accessor methods instead of the fields.
type CoverLetterLayout struct {
	IncludeSenderHeaderRaw *bool  `json:"include_sender_header,omitempty"`
	IncludeMetaLineRaw     *bool  `json:"include_meta_line,omitempty"`
	ParagraphSpacing       string `json:"paragraph_spacing,omitempty"`
}

// IncludeSenderHeader defaults to true when the field is absent.
func (l CoverLetterLayout) IncludeSenderHeader() bool {
	return l.IncludeSenderHeaderRaw == nil || *l.IncludeSenderHeaderRaw
}

// IncludeMetaLine defaults to true when the field is absent.
func (l CoverLetterLayout) IncludeMetaLine() bool {
	return l.IncludeMetaLineRaw == nil || *l.IncludeMetaLineRaw
}

// Spacing returns the paragraph spacing key, defaulting to normal.
func (l CoverLetterLayout) Spacing() string {
	switch l.ParagraphSpacing {
	case SpacingCompact, SpacingRelaxed:
		return l.ParagraphSpacing
	default:
		return SpacingNormal
	}
}

// CoverLetterContent is the structured payload stored on a cover letter.
type CoverLetterContent struct {
	SchemaVersion  int                        `json:"schema_version"`
	Font           string                     `json:"font"`
	Language       string                     `json:"language"`
	SignatureFont  string                     `json:"signature_font"`
	Meta           CoverLetterMeta            `json:"meta"`
	Sender         CoverLetterSender          `json:"sender"`
	Settings       CoverLetterSettings        `json:"settings"`
	Blocks         []CoverLetterBlock         `json:"blocks"`
	CustomSections []CoverLetterCustomSection `json:"custom_sections"`
	Layout         CoverLetterLayout          `json:"layout"`
}

// EnabledBlocks returns the blocks that participate in rendering, in order.
func (c CoverLetterContent) EnabledBlocks() []CoverLetterBlock {
	out := make([]CoverLetterBlock, 0, len(c.Blocks))
	for _, b := range c.Blocks {
		if b.Enabled {
			out = append(out, b)
		}
	}
	return out
}

// DateBlock returns the first enabled date block, if any. Multiple date
// blocks are tolerated; the first one wins.
func (c CoverLetterContent) DateBlock() (CoverLetterBlock, bool) {
	for _, b := range c.Blocks {
		if b.Enabled && b.Type == BlockDate {
			return b, true
		}
	}
	return CoverLetterBlock{}, false
}

// EnabledCustomSections returns the custom sections that render.
func (c CoverLetterContent) EnabledCustomSections() []CoverLetterCustomSection {
	out := make([]CoverLetterCustomSection, 0, len(c.CustomSections))
	for _, s := range c.CustomSections {
		if s.Enabled {
			out = append(out, s)
		}
	}
	return out
}
