package project

import (
	"strings"
)

// tokenKind enumerates the lexical vocabulary of the pbxproj wire format.
type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent          // unquoted token
	tokString         // quoted string literal, decoded
	tokComment        // /* ... */ block comment, markers stripped
	tokLBrace         // {
	tokRBrace         // }
	tokLParen         // (
	tokRParen         // )
	tokSemi           // ;
	tokComma          // ,
	tokEq             // =
)

func (k tokenKind) String() string {
	switch k {
	case tokEOF:
		return "end of input"
	case tokIdent:
		return "token"
	case tokString:
		return "string"
	case tokComment:
		return "comment"
	case tokLBrace:
		return "{"
	case tokRBrace:
		return "}"
	case tokLParen:
		return "("
	case tokRParen:
		return ")"
	case tokSemi:
		return ";"
	case tokComma:
		return ","
	case tokEq:
		return "="
	}
	return "?"
}

type token struct {
	kind tokenKind
	text string
	line int
}

// lexer splits pbxproj text into tokens. Block comments are emitted as
// tokens because the parser reads section markers and display names out of
// them; line comments (the UTF-8 header) are skipped.
type lexer struct {
	src  string
	pos  int
	line int
}

func newLexer(src string) *lexer {
	return &lexer{src: src, line: 1}
}

// lex returns the complete token stream, or the offending line on error.
func lex(src string) ([]token, error) {
	lx := newLexer(src)
	var toks []token
	for {
		t, err := lx.next()
		if err != nil {
			return nil, err
		}
		toks = append(toks, t)
		if t.kind == tokEOF {
			return toks, nil
		}
	}
}

func (lx *lexer) next() (token, error) {
	lx.skipSpace()
	if lx.pos >= len(lx.src) {
		return token{kind: tokEOF, line: lx.line}, nil
	}

	c := lx.src[lx.pos]
	switch c {
	case '{':
		return lx.punct(tokLBrace), nil
	case '}':
		return lx.punct(tokRBrace), nil
	case '(':
		return lx.punct(tokLParen), nil
	case ')':
		return lx.punct(tokRParen), nil
	case ';':
		return lx.punct(tokSemi), nil
	case ',':
		return lx.punct(tokComma), nil
	case '=':
		return lx.punct(tokEq), nil
	case '"':
		return lx.quoted()
	case '/':
		if lx.pos+1 < len(lx.src) {
			switch lx.src[lx.pos+1] {
			case '*':
				return lx.blockComment()
			case '/':
				lx.skipLine()
				return lx.next()
			}
		}
	}
	return lx.bare(), nil
}

func (lx *lexer) punct(kind tokenKind) token {
	t := token{kind: kind, text: string(lx.src[lx.pos]), line: lx.line}
	lx.pos++
	return t
}

func (lx *lexer) skipSpace() {
	for lx.pos < len(lx.src) {
		switch lx.src[lx.pos] {
		case '\n':
			lx.line++
			lx.pos++
		case ' ', '\t', '\r':
			lx.pos++
		default:
			return
		}
	}
}

func (lx *lexer) skipLine() {
	for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
		lx.pos++
	}
}

// bare consumes an unquoted token: everything up to whitespace, punctuation,
// or a comment opener.
func (lx *lexer) bare() token {
	start := lx.pos
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if strings.ContainsRune(" \t\r\n{}();,=\"", rune(c)) {
			break
		}
		if c == '/' && lx.pos+1 < len(lx.src) && (lx.src[lx.pos+1] == '*' || lx.src[lx.pos+1] == '/') {
			break
		}
		lx.pos++
	}
	return token{kind: tokIdent, text: lx.src[start:lx.pos], line: lx.line}
}

// quoted consumes a double-quoted string literal, decoding the escape
// sequences the format uses.
func (lx *lexer) quoted() (token, error) {
	line := lx.line
	lx.pos++ // opening quote
	var b strings.Builder
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch c {
		case '"':
			lx.pos++
			return token{kind: tokString, text: b.String(), line: line}, nil
		case '\\':
			if lx.pos+1 >= len(lx.src) {
				return token{}, lexErrorf(line, "unterminated escape in string")
			}
			lx.pos++
			switch lx.src[lx.pos] {
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case '"':
				b.WriteByte('"')
			case '\\':
				b.WriteByte('\\')
			default:
				// Unknown escapes pass through verbatim.
				b.WriteByte('\\')
				b.WriteByte(lx.src[lx.pos])
			}
			lx.pos++
		case '\n':
			lx.line++
			b.WriteByte(c)
			lx.pos++
		default:
			b.WriteByte(c)
			lx.pos++
		}
	}
	return token{}, lexErrorf(line, "unterminated string")
}

// blockComment consumes /* ... */ and returns the trimmed body.
func (lx *lexer) blockComment() (token, error) {
	line := lx.line
	lx.pos += 2 // /*
	end := strings.Index(lx.src[lx.pos:], "*/")
	if end < 0 {
		return token{}, lexErrorf(line, "unterminated comment")
	}
	body := lx.src[lx.pos : lx.pos+end]
	lx.line += strings.Count(body, "\n")
	lx.pos += end + 2
	return token{kind: tokComment, text: strings.TrimSpace(body), line: line}, nil
}
