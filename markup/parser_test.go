package markup_test

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/ByLCY/furigana/markup"
)

func TestParsePlainExpandsPerCodePoint(t *testing.T) {
	runs := markup.Parse("日本語ab")
	want := []markup.Run{
		markup.Plain('日'), markup.Plain('本'), markup.Plain('語'),
		markup.Plain('a'), markup.Plain('b'),
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseAnnotatedIsAtomic(t *testing.T) {
	runs := markup.Parse("今日は{東京;とうきょう}へ")
	want := []markup.Run{
		markup.Plain('今'), markup.Plain('日'), markup.Plain('は'),
		markup.Annotated("東京", "とうきょう"),
		markup.Plain('へ'),
	}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseNewlines(t *testing.T) {
	runs := markup.Parse("A\n\nB")
	want := []markup.Run{markup.Plain('A'), markup.Break(), markup.Break(), markup.Plain('B')}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmpty(t *testing.T) {
	if runs := markup.Parse(""); len(runs) != 0 {
		t.Fatalf("expected no runs, got %v", runs)
	}
}

// 不成对的花括号与多余的分号：与原正则语义一致，静默丢弃无法匹配的字符。
func TestParseMalformedIsLenient(t *testing.T) {
	cases := []struct {
		name  string
		input string
		want  string
	}{
		{"unclosed brace", "a{b", "ab"},
		{"stray close", "a}b", "ab"},
		{"double separator", "{a;b;c}", "a;b;c"},
		{"semicolon outside braces", "x;y", "x;y"},
		{"nested", "{{漢;かん}}", "{漢;かん}"},
		{"newline inside braces", "{a\n;b}", "a\n;b"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var b strings.Builder
			for _, r := range markup.Parse(tc.input) {
				b.WriteString(r.String())
			}
			if got := b.String(); got != tc.want {
				t.Fatalf("Parse(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestParseEmptyAnnotationStaysAtomic(t *testing.T) {
	runs := markup.Parse("{漢字;}")
	want := []markup.Run{markup.Annotated("漢字", "")}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseEmptyBaseKeepsAnnotation(t *testing.T) {
	runs := markup.Parse("{;かな}")
	want := []markup.Run{markup.Annotated("", "かな")}
	if diff := cmp.Diff(want, runs); diff != "" {
		t.Fatalf("runs mismatch (-want +got):\n%s", diff)
	}
}

func TestParseReader(t *testing.T) {
	runs, err := markup.ParseReader(strings.NewReader("{漢;かん}\n"))
	if err != nil {
		t.Fatalf("ParseReader error: %v", err)
	}
	if len(runs) != 2 || runs[0].Kind != markup.RunAnnotated || !runs[1].IsBreak() {
		t.Fatalf("unexpected runs: %v", runs)
	}
}

func TestDroppedReportsStrayBraces(t *testing.T) {
	dropped := markup.Dropped("a{b}c}")
	if len(dropped) != 3 {
		t.Fatalf("expected 3 dropped tokens, got %d: %+v", len(dropped), dropped)
	}
	for _, d := range dropped {
		if d.Value != "{" && d.Value != "}" {
			t.Fatalf("unexpected dropped value %q", d.Value)
		}
	}
}

func TestTokensKeepOrder(t *testing.T) {
	toks, err := markup.Tokens("ab{漢;かん}\n")
	if err != nil {
		t.Fatalf("Tokens error: %v", err)
	}
	var types []string
	for _, tok := range toks {
		types = append(types, tok.Type)
	}
	want := []string{"Plain", "Annotated", "Newline"}
	if diff := cmp.Diff(want, types); diff != "" {
		t.Fatalf("token types mismatch (-want +got):\n%s", diff)
	}
}
