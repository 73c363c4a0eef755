package render

import (
	"reflect"
	"testing"
)

func TestEscapeHTML(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"angle brackets", "<script>", "&lt;script&gt;"},
		{"ampersand", "R&D", "R&amp;D"},
		{"quotes", `say "hi" to 'them'`, "say &quot;hi&quot; to &#039;them&#039;"},
		{"already escaped stays put", "R&amp;D &lt;ok&gt;", "R&amp;D &lt;ok&gt;"},
		{"unknown entity gets escaped", "&copy;", "&amp;copy;"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EscapeHTML(tc.in); got != tc.want {
				t.Errorf("EscapeHTML(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestEscapeHTMLIdempotent(t *testing.T) {
	inputs := []string{
		"<b>R&D</b>",
		`"quoted" & 'single'`,
		"**bold** _it_ [l](u)",
	}
	for _, in := range inputs {
		once := EscapeHTML(in)
		twice := EscapeHTML(once)
		if once != twice {
			t.Errorf("EscapeHTML not stable for %q: %q then %q", in, once, twice)
		}
	}
}

func TestFormatInline(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{"bold", "a **b** c", "a <strong>b</strong> c"},
		{"italic", "a _b_ c", "a <em>b</em> c"},
		{"link", "[site](https://example.com)", `<a href="https://example.com" target="_blank" rel="noreferrer">site</a>`},
		{"escape runs before markers", "<script>**bold**</script>", "&lt;script&gt;<strong>bold</strong>&lt;/script&gt;"},
		{"unbalanced bold stays literal", "a **b c", "a **b c"},
		{"unbalanced italic stays literal", "a _b c", "a _b c"},
		{"non-greedy bold", "**a** and **b**", "<strong>a</strong> and <strong>b</strong>"},
		{"bold spans newline", "**a\nb**", "<strong>a\nb</strong>"},
		{"empty", "", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := FormatInline(tc.in); got != tc.want {
				t.Errorf("FormatInline(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatLines(t *testing.T) {
	got := FormatLines("one\ntwo **x**")
	want := "one<br />two <strong>x</strong>"
	if got != want {
		t.Errorf("FormatLines = %q, want %q", got, want)
	}
}

func TestSplitParagraphs(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want []string
	}{
		{"two paragraphs", "first\n\nsecond", []string{"first", "second"}},
		{"blank line with spaces", "first\n   \nsecond", []string{"first", "second"}},
		{"single newline keeps one paragraph", "first\nsecond", []string{"first\nsecond"}},
		{"empty input", "", []string{}},
		{"whitespace only", "  \n \n ", []string{}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := SplitParagraphs(tc.in); !reflect.DeepEqual(got, tc.want) {
				t.Errorf("SplitParagraphs(%q) = %#v, want %#v", tc.in, got, tc.want)
			}
		})
	}
}

func TestFormatParagraphs(t *testing.T) {
	got := FormatParagraphs("Dear team,\n\nline one\nline two")
	want := []string{"Dear team,", "line one<br />line two"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("FormatParagraphs = %#v, want %#v", got, want)
	}
}
