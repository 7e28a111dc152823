// Package export renders a project document as a Graphviz graph.
//
// The export walks the object graph and emits one DOT node per project
// object, grouped by kind, with edges for every reference field. It is a
// read-only view intended for documentation and debugging.
package export

import (
	"bytes"
	"context"
	"fmt"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// nodeStyle maps object kinds to DOT shapes so the structural roles read at a
// glance: containers are boxes, leaves are ellipses.
var nodeStyle = map[pbx.Kind]string{
	pbx.KindProject:           "shape=box, style=\"filled,bold\"",
	pbx.KindNativeTarget:      "shape=box, style=filled",
	pbx.KindGroup:             "shape=folder, style=filled",
	pbx.KindConfigurationList: "shape=box, style=\"filled,rounded\"",
}

// ToDOT returns a Graphviz DOT representation of the document's object graph.
//
// Every object becomes a node labeled with its kind and display name, and
// every reference field becomes a directed edge labeled with the field name.
// Output is deterministic: nodes appear in section order and edges in field
// declaration order, so the same document always renders the same DOT.
func ToDOT(doc *pbx.Document) string {
	var buf bytes.Buffer
	buf.WriteString("digraph project {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [fontname=\"SF Mono, Menlo, monospace\", fontsize=12, style=filled, fillcolor=white];\n")
	buf.WriteString("  edge [fontname=\"SF Mono, Menlo, monospace\", fontsize=10];\n\n")

	for n := range doc.All() {
		style, ok := nodeStyle[n.Kind]
		if !ok {
			style = "shape=ellipse"
		}
		fmt.Fprintf(&buf, "  %q [label=%q, %s];\n", n.ID, nodeLabel(n), style)
	}
	buf.WriteString("\n")

	for n := range doc.All() {
		writeEdges(&buf, n)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func nodeLabel(n *pbx.Node) string {
	name := n.Name
	if name == "" {
		name = n.String("name")
	}
	if name == "" {
		name = n.String("path")
	}
	if name == "" {
		return string(n.Kind)
	}
	return fmt.Sprintf("%s\n%s", n.Kind, name)
}

func writeEdges(buf *bytes.Buffer, n *pbx.Node) {
	for _, field := range pbx.RefFields(n.Kind) {
		if pbx.IsRefList(n.Kind, field) {
			list := n.Fields.GetList(field)
			if list == nil {
				continue
			}
			for _, id := range list.RefIDs() {
				fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", n.ID, id, field)
			}
			continue
		}
		if ref := n.Fields.GetRef(field); ref != "" {
			fmt.Fprintf(buf, "  %q -> %q [label=%q];\n", n.ID, ref, field)
		}
	}
}

// RenderSVG renders the document's object graph as an SVG image.
//
// The DOT text from ToDOT is handed to Graphviz for layout. Errors wrap the
// failing stage and satisfy errors.Is and errors.Unwrap.
func RenderSVG(ctx context.Context, doc *pbx.Document) ([]byte, error) {
	dot := ToDOT(doc)

	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
