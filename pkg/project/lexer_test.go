package project

import (
	"errors"
	"testing"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

func TestLexTokens(t *testing.T) {
	toks, err := lex(`key = "value"; list = (a, b); /* note */`)
	if err != nil {
		t.Fatalf("lex(): %v", err)
	}

	want := []struct {
		kind tokenKind
		text string
	}{
		{tokIdent, "key"},
		{tokEq, "="},
		{tokString, "value"},
		{tokSemi, ";"},
		{tokIdent, "list"},
		{tokEq, "="},
		{tokLParen, "("},
		{tokIdent, "a"},
		{tokComma, ","},
		{tokIdent, "b"},
		{tokRParen, ")"},
		{tokSemi, ";"},
		{tokComment, "note"},
		{tokEOF, ""},
	}

	if len(toks) != len(want) {
		t.Fatalf("lex() = %d tokens, want %d", len(toks), len(want))
	}
	for i, w := range want {
		if toks[i].kind != w.kind || toks[i].text != w.text {
			t.Errorf("token %d = %s %q, want %s %q", i, toks[i].kind, toks[i].text, w.kind, w.text)
		}
	}
}

func TestLexEscapes(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want string
	}{
		{"Quote", `"say \"hi\""`, `say "hi"`},
		{"Backslash", `"a\\b"`, `a\b`},
		{"Newline", `"line\nbreak"`, "line\nbreak"},
		{"Tab", `"col\tcol"`, "col\tcol"},
		{"UnknownPassesThrough", `"\x"`, `\x`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			toks, err := lex(tt.src)
			if err != nil {
				t.Fatalf("lex(%q): %v", tt.src, err)
			}
			if toks[0].kind != tokString || toks[0].text != tt.want {
				t.Errorf("lex(%q) = %q, want %q", tt.src, toks[0].text, tt.want)
			}
		})
	}
}

func TestLexSkipsLineComments(t *testing.T) {
	toks, err := lex("// !$*UTF8*$!\nabc")
	if err != nil {
		t.Fatalf("lex(): %v", err)
	}
	if toks[0].kind != tokIdent || toks[0].text != "abc" {
		t.Errorf("first token = %s %q, want token abc", toks[0].kind, toks[0].text)
	}
}

func TestLexErrors(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"UnterminatedString", `"abc`},
		{"UnterminatedComment", `/* abc`},
		{"UnterminatedEscape", `"abc\`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := lex(tt.src); !errors.Is(err, pbx.ErrMalformed) {
				t.Errorf("lex(%q) = %v, want ErrMalformed", tt.src, err)
			}
		})
	}
}

func TestLexLineNumbers(t *testing.T) {
	toks, err := lex("a\nb\n\nc")
	if err != nil {
		t.Fatalf("lex(): %v", err)
	}
	lines := []int{1, 2, 4}
	for i, want := range lines {
		if toks[i].line != want {
			t.Errorf("token %d line = %d, want %d", i, toks[i].line, want)
		}
	}
}
