package document

import (
	"encoding/json"
	"fmt"
)

// DecodeResume parses a stored resume payload and normalizes it so that
// renderers can use direct field access. Decoding is the single validation
// point; downstream code assumes the shape is already correct.
func DecodeResume(raw []byte) (ResumeContent, error) {
	var c ResumeContent
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return ResumeContent{}, fmt.Errorf("decode resume content: %w", err)
		}
	}
	c.normalize()
	return c, nil
}

// DecodeCoverLetter parses a stored cover letter payload and normalizes it.
func DecodeCoverLetter(raw []byte) (CoverLetterContent, error) {
	var c CoverLetterContent
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &c); err != nil {
			return CoverLetterContent{}, fmt.Errorf("decode cover letter content: %w", err)
		}
	}
	c.normalize()
	return c, nil
}

// Decode parses content for the given document type and re-encodes it in the
// current shape. The store calls this on every save so that legacy payloads
// (flat skills, missing versions) are upcast on write, never on read.
func Decode(docType string, raw []byte) (json.RawMessage, error) {
	switch docType {
	case TypeResume:
		c, err := DecodeResume(raw)
		if err != nil {
			return nil, err
		}
		return json.Marshal(c)
	case TypeCoverLetter:
		c, err := DecodeCoverLetter(raw)
		if err != nil {
			return nil, err
		}
		return json.Marshal(c)
	default:
		return nil, fmt.Errorf("unknown document type %q", docType)
	}
}

func (c *ResumeContent) normalize() {
	if c.SchemaVersion < CurrentSchemaVersion {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.Font == "" {
		c.Font = DefaultFont
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.Profile.ExtraFields == nil {
		c.Profile.ExtraFields = []ExtraField{}
	}
	if c.Links == nil {
		c.Links = []Link{}
	}
	if c.Experience == nil {
		c.Experience = []ResumeExperience{}
	}
	if c.Education == nil {
		c.Education = []ResumeEducation{}
	}
	if c.Skills.Groups == nil && c.Skills.Flat == nil {
		c.Skills.Groups = []SkillGroup{}
	}
	if c.Languages == nil {
		c.Languages = []ResumeLanguage{}
	}
	if c.CustomSections == nil {
		c.CustomSections = []ResumeCustomSection{}
	}
	if c.Layout.SectionOrder == nil {
		c.Layout.SectionOrder = []string{}
	}
	for i := range c.Experience {
		if c.Experience[i].IsCurrent {
			c.Experience[i].EndDate = ""
		}
	}
}

func (c *CoverLetterContent) normalize() {
	if c.SchemaVersion < CurrentSchemaVersion {
		c.SchemaVersion = CurrentSchemaVersion
	}
	if c.Font == "" {
		c.Font = DefaultFont
	}
	if c.Language == "" {
		c.Language = DefaultLanguage
	}
	if c.SignatureFont == "" {
		c.SignatureFont = DefaultSignatureFont
	}
	if c.Sender.Links == nil {
		c.Sender.Links = []Link{}
	}
	if c.Sender.ExtraFields == nil {
		c.Sender.ExtraFields = []ExtraField{}
	}
	if c.Blocks == nil {
		c.Blocks = []CoverLetterBlock{}
	}
	if c.CustomSections == nil {
		c.CustomSections = []CoverLetterCustomSection{}
	}
}
