package document

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestSkillListDecodesBothShapes(t *testing.T) {
	var flat SkillList
	if err := json.Unmarshal([]byte(`[{"name":"Go","level":4},{"name":"SQL"}]`), &flat); err != nil {
		t.Fatalf("unmarshal flat: %v", err)
	}
	if flat.Grouped() {
		t.Fatal("flat payload decoded as grouped")
	}
	if len(flat.Flat) != 2 || flat.Flat[0].Name != "Go" || flat.Flat[0].Level != 4 {
		t.Errorf("unexpected flat skills: %+v", flat.Flat)
	}

	var grouped SkillList
	if err := json.Unmarshal([]byte(`[{"title":"Backend","items":[{"name":"Go"}]}]`), &grouped); err != nil {
		t.Fatalf("unmarshal grouped: %v", err)
	}
	if !grouped.Grouped() {
		t.Fatal("grouped payload decoded as flat")
	}
	if len(grouped.Groups) != 1 || grouped.Groups[0].Title != "Backend" {
		t.Errorf("unexpected groups: %+v", grouped.Groups)
	}

	var empty SkillList
	if err := json.Unmarshal([]byte(`[]`), &empty); err != nil {
		t.Fatalf("unmarshal empty: %v", err)
	}
	if !empty.Grouped() || len(empty.Groups) != 0 {
		t.Errorf("empty array should decode as empty grouped list: %+v", empty)
	}
}

func TestSkillListMarshalUpcastsFlat(t *testing.T) {
	list := SkillList{Flat: []Skill{{Name: "Go", Level: 4}, {Name: "SQL", Level: 2}}}
	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"title":"Skills","items":[{"name":"Go"},{"name":"SQL"}]}]`
	if string(out) != want {
		t.Errorf("got %s, want %s", out, want)
	}
}

func TestSkillListEmpty(t *testing.T) {
	cases := []struct {
		name string
		list SkillList
		want bool
	}{
		{"zero value", SkillList{}, true},
		{"empty groups", SkillList{Groups: []SkillGroup{}}, true},
		{"group with no items", SkillList{Groups: []SkillGroup{{Title: "x"}}}, true},
		{"group with items", SkillList{Groups: []SkillGroup{{Items: []Skill{{Name: "Go"}}}}}, false},
		{"flat", SkillList{Flat: []Skill{{Name: "Go"}}}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.list.Empty(); got != tc.want {
				t.Errorf("Empty() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestCoverLetterLayoutDefaults(t *testing.T) {
	var l CoverLetterLayout
	if !l.IncludeSenderHeader() || !l.IncludeMetaLine() {
		t.Error("missing toggles should default to true")
	}
	if l.Spacing() != SpacingNormal {
		t.Errorf("spacing = %q", l.Spacing())
	}

	off := false
	l.IncludeSenderHeaderRaw = &off
	if l.IncludeSenderHeader() {
		t.Error("explicit false ignored")
	}

	l.ParagraphSpacing = "sprawling"
	if l.Spacing() != SpacingNormal {
		t.Errorf("unknown spacing should fall back to normal, got %q", l.Spacing())
	}
	l.ParagraphSpacing = SpacingRelaxed
	if l.Spacing() != SpacingRelaxed {
		t.Errorf("spacing = %q", l.Spacing())
	}
}

func TestCoverLetterLayoutRoundTrip(t *testing.T) {
	var c CoverLetterContent
	if err := json.Unmarshal([]byte(`{"layout":{}}`), &c); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	out, err := json.Marshal(c.Layout)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if strings.Contains(string(out), "include_sender_header") {
		t.Errorf("absent toggle should stay absent on save, got %s", out)
	}
}

func TestEnabledBlocksPreservesOrder(t *testing.T) {
	c := CoverLetterContent{Blocks: []CoverLetterBlock{
		{Type: BlockOpening, Enabled: true},
		{Type: BlockBody, Enabled: false},
		{Type: BlockClosing, Enabled: true},
	}}
	got := c.EnabledBlocks()
	if len(got) != 2 || got[0].Type != BlockOpening || got[1].Type != BlockClosing {
		t.Errorf("unexpected enabled blocks: %+v", got)
	}
}

func TestDateBlockFirstEnabledWins(t *testing.T) {
	c := CoverLetterContent{Blocks: []CoverLetterBlock{
		{Type: BlockDate, Enabled: false, Value: "skipped"},
		{Type: BlockDate, Enabled: true, Value: "first"},
		{Type: BlockDate, Enabled: true, Value: "second"},
	}}
	b, ok := c.DateBlock()
	if !ok || b.Value != "first" {
		t.Errorf("got %+v, ok=%v", b, ok)
	}

	var none CoverLetterContent
	if _, ok := none.DateBlock(); ok {
		t.Error("expected no date block")
	}
}

func TestValidators(t *testing.T) {
	if !ValidType(TypeResume) || !ValidType(TypeCoverLetter) || ValidType("memo") {
		t.Error("ValidType misbehaves")
	}
	if !ValidStatus(StatusDraft) || ValidStatus("published") {
		t.Error("ValidStatus misbehaves")
	}
	if !ValidTemplateKey("") || !ValidTemplateKey(TemplateModern) || ValidTemplateKey("brutalist") {
		t.Error("ValidTemplateKey misbehaves")
	}
}
