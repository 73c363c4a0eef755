package document

// CurrentSchemaVersion is stamped on freshly created content. It only ever
// moves forward.
const CurrentSchemaVersion = 1

// Display defaults applied when a payload does not specify them.
const (
	DefaultFont          = "Garamond"
	DefaultLanguage      = "en"
	DefaultSignatureFont = "Alex Brush"
)

// DefaultResumeContent returns a fresh blank resume payload. Every call
// returns a new value; nothing here is shared or mutated in place.
func DefaultResumeContent() ResumeContent {
	return ResumeContent{
		SchemaVersion: CurrentSchemaVersion,
		Font:          DefaultFont,
		Language:      DefaultLanguage,
		Profile: ResumeProfile{
			ExtraFields: []ExtraField{{Label: "Citizenship"}},
		},
		Links: []Link{
			{Label: "LinkedIn"},
			{Label: "GitHub"},
		},
		Experience: []ResumeExperience{
			{IsCurrent: true},
		},
		Education: []ResumeEducation{{}},
		Skills: SkillList{
			Groups: []SkillGroup{
				{Title: "Core skills", Items: []Skill{{}}},
			},
		},
		Languages: []ResumeLanguage{{}},
		CustomSections: []ResumeCustomSection{
			{Title: "Projects", Items: []ResumeCustomItem{{}}},
		},
		Layout: ResumeLayout{
			SectionOrder: []string{
				"profile",
				"links",
				"experience",
				"education",
				"skills",
				"languages",
				"custom_sections",
			},
		},
	}
}

// DefaultCoverLetterContent returns a fresh blank cover letter payload.
func DefaultCoverLetterContent() CoverLetterContent {
	return CoverLetterContent{
		SchemaVersion: CurrentSchemaVersion,
		Font:          DefaultFont,
		Language:      DefaultLanguage,
		SignatureFont: DefaultSignatureFont,
		Sender: CoverLetterSender{
			Links: []Link{
				{Label: "Portfolio"},
				{Label: "LinkedIn"},
			},
			ExtraFields: []ExtraField{{Label: "Availability"}},
		},
		Settings: CoverLetterSettings{
			Tone:   "professional",
			Length: "medium",
		},
		Blocks: []CoverLetterBlock{
			{Type: BlockBody, Enabled: true},
			{Type: BlockSignature, Enabled: true},
		},
		CustomSections: []CoverLetterCustomSection{},
		Layout: CoverLetterLayout{
			ParagraphSpacing: SpacingNormal,
		},
	}
}
