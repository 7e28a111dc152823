package pbx

import (
	"fmt"
	"iter"
	"slices"
)

// Document is the whole object graph of one project file: a table of nodes,
// a distinguished root (the PBXProject), and the serialization order of
// sections and of nodes within each section.
//
// A Document lives for one parse → mutate → write session and holds no state
// across sessions. It is not safe for concurrent mutation.
type Document struct {
	// ArchiveVersion and ObjectVersion are the document prelude fields,
	// preserved verbatim.
	ArchiveVersion string
	ObjectVersion  string

	// Classes is the (in practice always empty) classes record, preserved
	// verbatim.
	Classes *Object

	// RootID is the identifier of the PBXProject node.
	RootID string

	nodes    map[string]*Node
	sections []Kind            // section order, first appearance
	order    map[Kind][]string // node order within each section
	retired  map[string]bool   // identifiers removed this session
}

// NewDocument returns an empty document with default prelude values.
func NewDocument() *Document {
	return &Document{
		ArchiveVersion: "1",
		ObjectVersion:  "56",
		Classes:        NewObject(),
		nodes:          make(map[string]*Node),
		order:          make(map[Kind][]string),
		retired:        make(map[string]bool),
	}
}

// Len returns the number of nodes in the document.
func (d *Document) Len() int { return len(d.nodes) }

// Node returns the node with the given identifier, or nil.
func (d *Document) Node(id string) *Node { return d.nodes[id] }

// Root returns the PBXProject node, or nil if RootID is unset or dangling.
func (d *Document) Root() *Node { return d.nodes[d.RootID] }

// Sections returns the per-kind section order. The slice is shared; callers
// must not modify it.
func (d *Document) Sections() []Kind { return d.sections }

// SectionIDs returns the node identifiers of a section in insertion order.
func (d *Document) SectionIDs(kind Kind) []string { return d.order[kind] }

// Insert adds a node to the document and registers it in its kind's section.
// Returns ErrDuplicateIdentifier if the identifier is already present or was
// removed earlier in this session (identifiers are never reused).
func (d *Document) Insert(n *Node) error {
	if _, ok := d.nodes[n.ID]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateIdentifier, n.ID)
	}
	if d.retired[n.ID] {
		return fmt.Errorf("%w: %s was removed this session", ErrDuplicateIdentifier, n.ID)
	}
	d.nodes[n.ID] = n
	d.registerSection(n.Kind)
	d.order[n.Kind] = append(d.order[n.Kind], n.ID)
	return nil
}

// Remove deletes the node with the given identifier and cascades: the
// identifier is stripped from every edge list, scalar references to it are
// dropped, and any PBXBuildFile left referencing nothing is removed
// transitively. Returns ErrNotFound if the identifier is absent.
//
// The emptied section stays registered so the writer still emits its markers.
func (d *Document) Remove(id string) error {
	if _, ok := d.nodes[id]; !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	d.removeCascade(id)
	return nil
}

func (d *Document) removeCascade(id string) {
	n, ok := d.nodes[id]
	if !ok {
		return
	}
	delete(d.nodes, id)
	d.retired[id] = true
	ids := d.order[n.Kind]
	if i := slices.Index(ids, id); i >= 0 {
		d.order[n.Kind] = slices.Delete(ids, i, i+1)
	}

	// Strip every edge pointing at the removed node. A build file whose
	// wrapped reference is gone has nothing to build and goes with it.
	var orphaned []string
	for _, owner := range d.nodes {
		for _, field := range slices.Clone(owner.Fields.Keys()) {
			v, _ := owner.Fields.Get(field)
			switch val := v.(type) {
			case Ref:
				if val.ID != id {
					continue
				}
				if owner.Kind == KindBuildFile && (field == "fileRef" || field == "productRef") {
					orphaned = append(orphaned, owner.ID)
				} else {
					owner.Fields.Delete(field)
				}
			case *List:
				val.Items = slices.DeleteFunc(val.Items, func(it Value) bool {
					r, ok := it.(Ref)
					return ok && r.ID == id
				})
			}
		}
	}
	for _, orphan := range orphaned {
		d.removeCascade(orphan)
	}
}

// Find returns a lazy, restartable sequence of the nodes of the given kind
// for which pred returns true. A nil pred matches every node of the kind.
// Nodes are yielded in section insertion order.
func (d *Document) Find(kind Kind, pred func(*Node) bool) iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, id := range d.order[kind] {
			n, ok := d.nodes[id]
			if !ok {
				continue
			}
			if pred != nil && !pred(n) {
				continue
			}
			if !yield(n) {
				return
			}
		}
	}
}

// FindFirst returns the first node of kind matching pred, or nil.
func (d *Document) FindFirst(kind Kind, pred func(*Node) bool) *Node {
	for n := range d.Find(kind, pred) {
		return n
	}
	return nil
}

// All yields every node in document (section, then insertion) order.
func (d *Document) All() iter.Seq[*Node] {
	return func(yield func(*Node) bool) {
		for _, kind := range d.sections {
			for _, id := range d.order[kind] {
				if n, ok := d.nodes[id]; ok {
					if !yield(n) {
						return
					}
				}
			}
		}
	}
}

// AppendEdge appends target to the named edge-list field of owner. Appending
// an identifier already present in the list is a no-op, which is what makes
// higher-level add operations idempotent. Returns ErrNotFound if either
// identifier is absent, and a malformed-document error if the field is not an
// edge list for the owner's kind.
func (d *Document) AppendEdge(ownerID, field, targetID string) error {
	owner, ok := d.nodes[ownerID]
	if !ok {
		return fmt.Errorf("%w: edge owner %s", ErrNotFound, ownerID)
	}
	if _, ok := d.nodes[targetID]; !ok {
		return fmt.Errorf("%w: edge target %s", ErrNotFound, targetID)
	}
	if !IsRefList(owner.Kind, field) {
		return malformedf("field %q of %s is not an edge list", field, owner.Kind)
	}
	list := owner.List(field)
	if list.ContainsRef(targetID) {
		return nil
	}
	list.Items = append(list.Items, Ref{ID: targetID})
	return nil
}

// RemoveEdge removes target from the named edge-list field of owner. Absent
// targets (or an absent list) are a no-op. Returns ErrNotFound only if the
// owner itself is absent.
func (d *Document) RemoveEdge(ownerID, field, targetID string) error {
	owner, ok := d.nodes[ownerID]
	if !ok {
		return fmt.Errorf("%w: edge owner %s", ErrNotFound, ownerID)
	}
	list := owner.Fields.GetList(field)
	if list == nil {
		return nil
	}
	list.Items = slices.DeleteFunc(list.Items, func(it Value) bool {
		r, ok := it.(Ref)
		return ok && r.ID == targetID
	})
	return nil
}

// Validate checks referential integrity: every Ref value in every field of
// every node, plus RootID, must name an existing node, and the root must be a
// PBXProject. Violations are reported as ErrMalformed.
func (d *Document) Validate() error {
	if d.RootID != "" {
		root, ok := d.nodes[d.RootID]
		if !ok {
			return malformedf("rootObject %s does not exist", d.RootID)
		}
		if root.Kind != KindProject {
			return malformedf("rootObject %s is a %s, want %s", d.RootID, root.Kind, KindProject)
		}
	}
	for n := range d.All() {
		for _, field := range n.Fields.Keys() {
			v, _ := n.Fields.Get(field)
			if err := d.validateValue(n, field, v); err != nil {
				return err
			}
		}
	}
	return nil
}

func (d *Document) validateValue(n *Node, field string, v Value) error {
	switch val := v.(type) {
	case Ref:
		if _, ok := d.nodes[val.ID]; !ok {
			return malformedf("%s %s: field %q references missing node %s", n.Kind, n.ID, field, val.ID)
		}
	case *List:
		seen := make(map[string]bool)
		for _, it := range val.Items {
			if r, ok := it.(Ref); ok {
				if seen[r.ID] {
					return malformedf("%s %s: field %q lists %s twice", n.Kind, n.ID, field, r.ID)
				}
				seen[r.ID] = true
			}
			if err := d.validateValue(n, field, it); err != nil {
				return err
			}
		}
	case *Object:
		for _, k := range val.Keys() {
			inner, _ := val.Get(k)
			if err := d.validateValue(n, field, inner); err != nil {
				return err
			}
		}
	}
	return nil
}

// registerSection records kind in the section order on first appearance.
// New sections are slotted to keep the canonical SectionOrder relative to the
// sections already present.
func (d *Document) registerSection(kind Kind) {
	if slices.Contains(d.sections, kind) {
		return
	}
	rank := slices.Index(SectionOrder, kind)
	for i, existing := range d.sections {
		if r := slices.Index(SectionOrder, existing); r > rank {
			d.sections = slices.Insert(d.sections, i, kind)
			return
		}
	}
	d.sections = append(d.sections, kind)
}
