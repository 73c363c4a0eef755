package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func mustJSON(t *testing.T, v any) []byte {
	t.Helper()
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return out
}

func TestDecodeResumeNormalizes(t *testing.T) {
	c, err := DecodeResume([]byte(`{"profile":{"first_name":"Ada"}}`))
	if err != nil {
		t.Fatalf("DecodeResume: %v", err)
	}
	if c.SchemaVersion != CurrentSchemaVersion {
		t.Errorf("schema version = %d", c.SchemaVersion)
	}
	if c.Font != DefaultFont || c.Language != DefaultLanguage {
		t.Errorf("defaults not applied: font=%q language=%q", c.Font, c.Language)
	}
	if c.Links == nil || c.Experience == nil || c.Skills.Groups == nil {
		t.Error("nil slices should be normalized to empty")
	}
	if c.Profile.FirstName != "Ada" {
		t.Errorf("first name = %q", c.Profile.FirstName)
	}
}

func TestDecodeResumeEmptyPayload(t *testing.T) {
	c, err := DecodeResume(nil)
	if err != nil {
		t.Fatalf("DecodeResume(nil): %v", err)
	}
	if c.SchemaVersion != CurrentSchemaVersion || c.Font != DefaultFont {
		t.Errorf("empty payload not normalized: %+v", c)
	}
}

func TestDecodeResumeCurrentClearsEndDate(t *testing.T) {
	c, err := DecodeResume([]byte(`{"experience":[{"role":"x","is_current":true,"end_date":"2024-01"}]}`))
	if err != nil {
		t.Fatalf("DecodeResume: %v", err)
	}
	if c.Experience[0].EndDate != "" {
		t.Errorf("end date = %q, want cleared", c.Experience[0].EndDate)
	}
}

func TestDecodeCoverLetterNormalizes(t *testing.T) {
	c, err := DecodeCoverLetter([]byte(`{"meta":{"company_name":"Acme"}}`))
	if err != nil {
		t.Fatalf("DecodeCoverLetter: %v", err)
	}
	if c.SignatureFont != DefaultSignatureFont {
		t.Errorf("signature font = %q", c.SignatureFont)
	}
	if c.Blocks == nil || c.Sender.Links == nil {
		t.Error("nil slices should be normalized to empty")
	}
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	if _, err := DecodeResume([]byte(`{"font":`)); err == nil {
		t.Error("expected error for malformed resume payload")
	}
	if _, err := Decode(TypeCoverLetter, []byte(`[]`)); err == nil {
		t.Error("expected error for wrong top-level shape")
	}
}

func TestDecodeUnknownType(t *testing.T) {
	if _, err := Decode("memo", []byte(`{}`)); err == nil {
		t.Error("expected error for unknown document type")
	}
}

func TestDecodeUpcastsLegacySkillsOnWrite(t *testing.T) {
	out, err := Decode(TypeResume, []byte(`{"skills":[{"name":"Go","level":4}]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	s := string(out)
	if !strings.Contains(s, `"title":"Skills"`) {
		t.Errorf("legacy skills not upcast on save: %s", s)
	}
	if strings.Contains(s, `"level"`) {
		t.Errorf("level should not survive the upcast: %s", s)
	}
}

func TestDefaultContentRoundTrips(t *testing.T) {
	if _, err := Decode(TypeResume, mustJSON(t, DefaultResumeContent())); err != nil {
		t.Errorf("default resume does not round trip: %v", err)
	}
	if _, err := Decode(TypeCoverLetter, mustJSON(t, DefaultCoverLetterContent())); err != nil {
		t.Errorf("default cover letter does not round trip: %v", err)
	}
}
