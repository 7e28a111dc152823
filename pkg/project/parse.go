package project

import (
	"fmt"
	"strings"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// Section marker comments frame each per-kind run of records:
// "Begin PBXBuildFile section" ... "End PBXBuildFile section".
const (
	beginMarker = "Begin "
	endMarker   = "End "
	markerTail  = " section"
)

func lexErrorf(line int, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", pbx.ErrMalformed, line, fmt.Sprintf(format, args...))
}

// Unmarshal parses the canonical textual form into a document and validates
// referential integrity. Structural violations are reported as
// pbx.ErrMalformed; a document that fails to parse is never partially
// returned.
func Unmarshal(data []byte) (*pbx.Document, error) {
	toks, err := lex(string(data))
	if err != nil {
		return nil, err
	}
	p := &parser{
		toks:    toks,
		doc:     pbx.NewDocument(),
		refName: make(map[string]string),
	}
	if err := p.parseDocument(); err != nil {
		return nil, err
	}
	// Inline annotations next to references become display names for nodes
	// that did not carry one at their definition.
	for id, name := range p.refName {
		if n := p.doc.Node(id); n != nil && n.Name == "" {
			n.Name = name
		}
	}
	if err := p.doc.Validate(); err != nil {
		return nil, err
	}
	return p.doc, nil
}

type parser struct {
	toks    []token
	pos     int
	doc     *pbx.Document
	refName map[string]string // reference id -> inline annotation
	section string            // kind named by the enclosing section marker
}

func (p *parser) peek() token { return p.toks[p.pos] }

func (p *parser) next() token {
	t := p.toks[p.pos]
	if t.kind != tokEOF {
		p.pos++
	}
	return t
}

// skipComments consumes comment tokens, returning the last one seen.
func (p *parser) skipComments() (last string) {
	for p.peek().kind == tokComment {
		last = p.next().text
	}
	return last
}

func (p *parser) expect(kind tokenKind) (token, error) {
	p.skipComments()
	t := p.next()
	if t.kind != kind {
		return t, lexErrorf(t.line, "expected %s, found %s %q", kind, t.kind, t.text)
	}
	return t, nil
}

// parseDocument reads the top-level record: the UTF-8 header is consumed by
// the lexer as a line comment, leaving { archiveVersion; classes;
// objectVersion; objects; rootObject; }.
func (p *parser) parseDocument() error {
	if _, err := p.expect(tokLBrace); err != nil {
		return err
	}
	for {
		p.skipComments()
		t := p.next()
		if t.kind == tokRBrace {
			break
		}
		if t.kind != tokIdent && t.kind != tokString {
			return lexErrorf(t.line, "expected field name, found %s %q", t.kind, t.text)
		}
		if _, err := p.expect(tokEq); err != nil {
			return err
		}
		switch t.text {
		case "archiveVersion":
			v, err := p.expect(tokIdent)
			if err != nil {
				return err
			}
			p.doc.ArchiveVersion = v.text
		case "objectVersion":
			v, err := p.expect(tokIdent)
			if err != nil {
				return err
			}
			p.doc.ObjectVersion = v.text
		case "classes":
			obj, err := p.parseObject()
			if err != nil {
				return err
			}
			p.doc.Classes = obj
		case "objects":
			if err := p.parseObjects(); err != nil {
				return err
			}
		case "rootObject":
			v, err := p.expect(tokIdent)
			if err != nil {
				return err
			}
			if !identShaped(v.text) {
				return lexErrorf(v.line, "rootObject %q is not an identifier", v.text)
			}
			p.doc.RootID = v.text
			if c := p.skipComments(); c != "" {
				p.refName[v.text] = c
			}
		default:
			return lexErrorf(t.line, "unrecognized document field %q", t.text)
		}
		if _, err := p.expect(tokSemi); err != nil {
			return err
		}
	}
	p.skipComments()
	if t := p.next(); t.kind != tokEOF {
		return lexErrorf(t.line, "trailing content after document")
	}
	return nil
}

// parseObjects reads the objects table: section marker comments interleaved
// with `ID /* name */ = { isa = Kind; ... };` entries.
func (p *parser) parseObjects() error {
	if _, err := p.expect(tokLBrace); err != nil {
		return err
	}
	for {
		p.handleSectionMarkers()
		t := p.next()
		if t.kind == tokRBrace {
			return nil
		}
		if t.kind != tokIdent || !identShaped(t.text) {
			return lexErrorf(t.line, "expected node identifier, found %s %q", t.kind, t.text)
		}
		name := ""
		if p.peek().kind == tokComment {
			name = p.next().text
		}
		if _, err := p.expect(tokEq); err != nil {
			return err
		}
		if err := p.parseNode(t, name); err != nil {
			return err
		}
		if _, err := p.expect(tokSemi); err != nil {
			return err
		}
	}
}

// handleSectionMarkers consumes comments, tracking Begin/End section markers
// so node kinds can be checked against the section that claims them.
func (p *parser) handleSectionMarkers() {
	for p.peek().kind == tokComment {
		c := p.next().text
		if rest, ok := strings.CutPrefix(c, beginMarker); ok {
			if kind, ok := strings.CutSuffix(rest, markerTail); ok {
				p.section = kind
			}
		} else if rest, ok := strings.CutPrefix(c, endMarker); ok {
			if _, ok := strings.CutSuffix(rest, markerTail); ok {
				p.section = ""
			}
		}
	}
}

// parseNode reads one record body and inserts the node.
func (p *parser) parseNode(idTok token, name string) error {
	obj, err := p.parseObject()
	if err != nil {
		return err
	}
	isa := obj.GetString("isa")
	if isa == "" {
		return lexErrorf(idTok.line, "node %s has no isa", idTok.text)
	}
	kind := pbx.Kind(isa)
	if !kind.Known() {
		return lexErrorf(idTok.line, "unrecognized record kind %q", isa)
	}
	if p.section != "" && p.section != isa {
		return lexErrorf(idTok.line, "record %s claims kind %s inside %s section", idTok.text, isa, p.section)
	}
	obj.Delete("isa")

	n := &pbx.Node{ID: idTok.text, Kind: kind, Name: name, Fields: obj}
	if err := coerceRefs(n); err != nil {
		return fmt.Errorf("%w (line %d)", err, idTok.line)
	}
	if err := p.doc.Insert(n); err != nil {
		return fmt.Errorf("%w: %s redefined (line %d)", pbx.ErrMalformed, idTok.text, idTok.line)
	}
	return nil
}

// parseObject reads { key = value; ... } generically. Values land as String,
// *List, or *Object; reference typing happens afterwards in coerceRefs, once
// the record kind is known.
func (p *parser) parseObject() (*pbx.Object, error) {
	if _, err := p.expect(tokLBrace); err != nil {
		return nil, err
	}
	obj := pbx.NewObject()
	for {
		p.skipComments()
		t := p.next()
		if t.kind == tokRBrace {
			return obj, nil
		}
		if t.kind != tokIdent && t.kind != tokString {
			return nil, lexErrorf(t.line, "expected field name, found %s %q", t.kind, t.text)
		}
		if _, err := p.expect(tokEq); err != nil {
			return nil, err
		}
		v, err := p.parseValue(t.text)
		if err != nil {
			return nil, err
		}
		obj.Set(t.text, v)
		if _, err := p.expect(tokSemi); err != nil {
			return nil, err
		}
	}
}

// parseValue reads a single value: scalar, list, or nested object. A comment
// trailing a scalar is recorded as a candidate display name for the token it
// annotates.
func (p *parser) parseValue(field string) (pbx.Value, error) {
	p.skipComments()
	switch t := p.peek(); t.kind {
	case tokLBrace:
		return p.parseObject()
	case tokLParen:
		return p.parseList(field)
	case tokIdent, tokString:
		p.next()
		v := pbx.String{Text: t.text}
		if t.kind == tokIdent && identShaped(t.text) {
			if c := p.skipComments(); c != "" {
				p.refName[t.text] = c
			}
		}
		return v, nil
	default:
		return nil, lexErrorf(t.line, "expected value for %q, found %s %q", field, t.kind, t.text)
	}
}

func (p *parser) parseList(field string) (pbx.Value, error) {
	if _, err := p.expect(tokLParen); err != nil {
		return nil, err
	}
	list := &pbx.List{}
	for {
		p.skipComments()
		t := p.peek()
		if t.kind == tokRParen {
			p.next()
			return list, nil
		}
		v, err := p.parseValue(field)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, v)
		p.skipComments()
		switch t := p.peek(); t.kind {
		case tokComma:
			p.next()
		case tokRParen:
			// Final item without trailing comma.
		default:
			return nil, lexErrorf(t.line, "expected , or ) in list %q, found %s %q", field, t.kind, t.text)
		}
	}
}

// coerceRefs retypes the declared reference fields of a node from the
// generic parse. A declared edge field whose value is not an identifier
// token is a structural error, not a silent fallback.
func coerceRefs(n *pbx.Node) error {
	for _, field := range n.Fields.Keys() {
		shape, ok := pbx.RefFieldShape(n.Kind, field)
		if !ok {
			continue
		}
		v, _ := n.Fields.Get(field)
		switch shape {
		case pbx.RefScalar:
			s, ok := v.(pbx.String)
			if !ok || !identShaped(s.Text) {
				return fmt.Errorf("%w: %s %s: field %q holds a non-reference value", pbx.ErrMalformed, n.Kind, n.ID, field)
			}
			n.Fields.Set(field, pbx.Ref{ID: s.Text})
		case pbx.RefList:
			l, ok := v.(*pbx.List)
			if !ok {
				return fmt.Errorf("%w: %s %s: field %q is not a list", pbx.ErrMalformed, n.Kind, n.ID, field)
			}
			for i, it := range l.Items {
				s, ok := it.(pbx.String)
				if !ok || !identShaped(s.Text) {
					return fmt.Errorf("%w: %s %s: field %q contains a non-reference token", pbx.ErrMalformed, n.Kind, n.ID, field)
				}
				l.Items[i] = pbx.Ref{ID: s.Text}
			}
		}
	}
	return nil
}

// identShaped reports whether a token has the shape of a node identifier:
// at least eight uppercase hexadecimal digits. Xcode emits 24; the format
// tolerates longer.
func identShaped(s string) bool {
	if len(s) < 8 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
