package project

import (
	"bytes"
	"fmt"
	"path"
	"strings"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// inlineKinds are serialized as one record per line, the way Xcode writes
// its two largest sections.
var inlineKinds = map[pbx.Kind]bool{
	pbx.KindBuildFile:     true,
	pbx.KindFileReference: true,
}

// Marshal serializes a document to the canonical textual form. Output is
// deterministic: section order and within-section node order come from the
// document, indentation is tabs, and every reference carries a regenerated
// inline comment derived from the referenced node's display name. Two
// graph-isomorphic documents under the same ordering serialize identically.
func Marshal(doc *pbx.Document) ([]byte, error) {
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	w := &writer{doc: doc}
	w.buf.WriteString("// !$*UTF8*$!\n{\n")
	fmt.Fprintf(&w.buf, "\tarchiveVersion = %s;\n", quote(doc.ArchiveVersion))
	w.buf.WriteString("\tclasses = {\n")
	w.writeObjectFields(doc.Classes, 2)
	w.buf.WriteString("\t};\n")
	fmt.Fprintf(&w.buf, "\tobjectVersion = %s;\n", quote(doc.ObjectVersion))
	w.buf.WriteString("\tobjects = {\n")
	for _, kind := range doc.Sections() {
		w.writeSection(kind)
	}
	w.buf.WriteString("\t};\n")
	fmt.Fprintf(&w.buf, "\trootObject = %s;\n", w.ref(doc.RootID))
	w.buf.WriteString("}\n")
	return w.buf.Bytes(), nil
}

type writer struct {
	doc *pbx.Document
	buf bytes.Buffer
}

// writeSection emits one per-kind run of records framed by Begin/End
// markers. Sections stay in the output even when every node in them has
// been removed.
func (w *writer) writeSection(kind pbx.Kind) {
	fmt.Fprintf(&w.buf, "\n/* Begin %s section */\n", kind)
	for _, id := range w.doc.SectionIDs(kind) {
		n := w.doc.Node(id)
		if inlineKinds[kind] {
			w.writeInlineNode(n)
		} else {
			w.writeNode(n)
		}
	}
	fmt.Fprintf(&w.buf, "/* End %s section */\n", kind)
}

// writeInlineNode emits `ID /* name */ = {isa = X; f = v; ... };` on one line.
func (w *writer) writeInlineNode(n *pbx.Node) {
	fmt.Fprintf(&w.buf, "\t\t%s = {isa = %s; ", w.ref(n.ID), n.Kind)
	for _, field := range n.Fields.Keys() {
		v, _ := n.Fields.Get(field)
		fmt.Fprintf(&w.buf, "%s = ", quote(field))
		w.writeValue(v, 0, true)
		w.buf.WriteString("; ")
	}
	w.buf.WriteString("};\n")
}

// writeNode emits a multi-line record at the standard two-tab depth.
func (w *writer) writeNode(n *pbx.Node) {
	fmt.Fprintf(&w.buf, "\t\t%s = {\n", w.ref(n.ID))
	fmt.Fprintf(&w.buf, "\t\t\tisa = %s;\n", n.Kind)
	w.writeObjectFields(n.Fields, 3)
	w.buf.WriteString("\t\t};\n")
}

func (w *writer) writeObjectFields(obj *pbx.Object, indent int) {
	tabs := strings.Repeat("\t", indent)
	for _, field := range obj.Keys() {
		v, _ := obj.Get(field)
		fmt.Fprintf(&w.buf, "%s%s = ", tabs, quote(field))
		w.writeValue(v, indent, false)
		w.buf.WriteString(";\n")
	}
}

func (w *writer) writeValue(v pbx.Value, indent int, inline bool) {
	switch val := v.(type) {
	case pbx.String:
		w.buf.WriteString(quote(val.Text))
	case pbx.Ref:
		w.buf.WriteString(w.ref(val.ID))
	case *pbx.List:
		if inline {
			w.buf.WriteString("(")
			for _, it := range val.Items {
				w.writeValue(it, indent, true)
				w.buf.WriteString(", ")
			}
			w.buf.WriteString(")")
			return
		}
		w.buf.WriteString("(\n")
		tabs := strings.Repeat("\t", indent+1)
		for _, it := range val.Items {
			w.buf.WriteString(tabs)
			w.writeValue(it, indent+1, false)
			w.buf.WriteString(",\n")
		}
		w.buf.WriteString(strings.Repeat("\t", indent) + ")")
	case *pbx.Object:
		if inline {
			w.buf.WriteString("{")
			for _, field := range val.Keys() {
				fv, _ := val.Get(field)
				fmt.Fprintf(&w.buf, "%s = ", quote(field))
				w.writeValue(fv, indent, true)
				w.buf.WriteString("; ")
			}
			w.buf.WriteString("}")
			return
		}
		w.buf.WriteString("{\n")
		w.writeObjectFields(val, indent+1)
		w.buf.WriteString(strings.Repeat("\t", indent) + "}")
	}
}

// ref renders an identifier with its regenerated inline comment, when the
// referenced node has a label.
func (w *writer) ref(id string) string {
	n := w.doc.Node(id)
	if n == nil {
		return id
	}
	if l := w.label(n); l != "" {
		return id + " /* " + l + " */"
	}
	return id
}

// label produces the human-readable annotation for a node: its display name
// when one was captured, otherwise a synthesized label in the shape Xcode
// uses for the kind.
func (w *writer) label(n *pbx.Node) string {
	switch n.Kind {
	case pbx.KindBuildFile:
		thing := w.doc.Node(n.Ref("fileRef"))
		if thing == nil {
			thing = w.doc.Node(n.Ref("productRef"))
		}
		phase := w.phaseOf(n.ID)
		if thing != nil && phase != nil {
			return fmt.Sprintf("%s in %s", w.label(thing), w.label(phase))
		}
		return n.Name
	case pbx.KindProject:
		return "Project object"
	case pbx.KindFrameworksPhase:
		return orName(n, "Frameworks")
	case pbx.KindSourcesPhase:
		return orName(n, "Sources")
	case pbx.KindResourcesPhase:
		return orName(n, "Resources")
	case pbx.KindConfigurationList:
		if owner := w.configListOwner(n.ID); owner != nil {
			return fmt.Sprintf("Build configuration list for %s %q", owner.Kind, w.label(owner))
		}
		return n.Name
	case pbx.KindPackageReference:
		if url := n.String("repositoryURL"); url != "" {
			return fmt.Sprintf("XCRemoteSwiftPackageReference %q", repoName(url))
		}
		return n.Name
	case pbx.KindProductDependency:
		return firstNonEmpty(n.String("productName"), n.Name)
	case pbx.KindGroup:
		return firstNonEmpty(n.String("name"), n.String("path"), n.Name)
	default:
		if l := firstNonEmpty(n.String("name"), n.Name); l != "" {
			return l
		}
		if p := n.String("path"); p != "" {
			return path.Base(p)
		}
		return ""
	}
}

// phaseOf finds the build phase whose file list holds the given build file.
func (w *writer) phaseOf(buildFileID string) *pbx.Node {
	for _, kind := range []pbx.Kind{pbx.KindFrameworksPhase, pbx.KindSourcesPhase, pbx.KindResourcesPhase} {
		n := w.doc.FindFirst(kind, func(p *pbx.Node) bool {
			l := p.Fields.GetList("files")
			return l != nil && l.ContainsRef(buildFileID)
		})
		if n != nil {
			return n
		}
	}
	return nil
}

// configListOwner finds the project or target whose buildConfigurationList
// points at the given list.
func (w *writer) configListOwner(listID string) *pbx.Node {
	owns := func(n *pbx.Node) bool { return n.Ref("buildConfigurationList") == listID }
	if n := w.doc.FindFirst(pbx.KindProject, owns); n != nil {
		return n
	}
	return w.doc.FindFirst(pbx.KindNativeTarget, owns)
}

func orName(n *pbx.Node, fallback string) string {
	return firstNonEmpty(n.String("name"), n.Name, fallback)
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// repoName extracts the package name from a repository URL: the last path
// segment without a .git suffix.
func repoName(url string) string {
	name := strings.TrimSuffix(path.Base(strings.TrimSuffix(url, "/")), ".git")
	return name
}

// unquotedSafe holds the exact character set the format allows outside
// quotes, pinned by the round-trip tests.
func unquotedSafe(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_' || c == '$' || c == '.' || c == '/':
		default:
			return false
		}
	}
	return true
}

// quote renders a scalar: bare when every character is in the safe set,
// double-quoted with escapes otherwise.
func quote(s string) string {
	if unquotedSafe(s) {
		return s
	}
	var b strings.Builder
	b.WriteByte('"')
	for i := 0; i < len(s); i++ {
		switch c := s[i]; c {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\t':
			b.WriteString(`\t`)
		default:
			b.WriteByte(c)
		}
	}
	b.WriteByte('"')
	return b.String()
}
