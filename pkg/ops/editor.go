package ops

import (
	"fmt"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// Editor applies catalogue operations to one document. It owns the session's
// identifier allocator, so every node minted by any operation in the session
// gets a unique identifier.
//
// An Editor is single-session and not safe for concurrent use, matching the
// document it wraps.
type Editor struct {
	doc   *pbx.Document
	alloc *pbx.Allocator
}

// NewEditor wraps doc with a fresh allocator seeded from its identifiers.
func NewEditor(doc *pbx.Document) *Editor {
	return &Editor{doc: doc, alloc: pbx.NewAllocator(doc)}
}

// Document returns the document the editor mutates.
func (e *Editor) Document() *pbx.Document { return e.doc }

// target returns the document's first native target, resolved through the
// project's target list.
func (e *Editor) target() (*pbx.Node, error) {
	root := e.doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no project object", pbx.ErrNotFound)
	}
	if targets := root.Fields.GetList("targets"); targets != nil {
		for _, id := range targets.RefIDs() {
			if n := e.doc.Node(id); n != nil && n.Kind == pbx.KindNativeTarget {
				return n, nil
			}
		}
	}
	return nil, fmt.Errorf("%w: project has no native target", pbx.ErrNotFound)
}

// insert adds a freshly built node, recording it in res. A failure here is
// a duplicate identifier, which the allocator rules out; it is surfaced
// anyway rather than swallowed because it indicates a bug in an operation.
func (e *Editor) insert(res *Result, n *pbx.Node) (*pbx.Node, error) {
	if err := e.doc.Insert(n); err != nil {
		return nil, err
	}
	res.created(n.ID)
	return n, nil
}

// link appends target to an edge list, recording the owner as modified only
// when the edge was actually new.
func (e *Editor) link(res *Result, ownerID, field, targetID string) error {
	owner := e.doc.Node(ownerID)
	if owner == nil {
		return fmt.Errorf("%w: edge owner %s", pbx.ErrNotFound, ownerID)
	}
	if l := owner.Fields.GetList(field); l != nil && l.ContainsRef(targetID) {
		return nil
	}
	if err := e.doc.AppendEdge(ownerID, field, targetID); err != nil {
		return err
	}
	res.modified(ownerID)
	return nil
}

// ensurePhase returns the target's build phase of the given kind, creating
// and linking an empty one when the target has none. New phases carry the
// stock field set Xcode writes.
func (e *Editor) ensurePhase(res *Result, target *pbx.Node, kind pbx.Kind) (*pbx.Node, error) {
	phases := target.Fields.GetList("buildPhases")
	if phases != nil {
		for _, id := range phases.RefIDs() {
			if n := e.doc.Node(id); n != nil && n.Kind == kind {
				return n, nil
			}
		}
	}
	phase := pbx.NewNode(e.alloc.Next(), kind).
		SetString("buildActionMask", "2147483647").
		Set("files", &pbx.List{}).
		SetString("runOnlyForDeploymentPostprocessing", "0")
	if _, err := e.insert(res, phase); err != nil {
		return nil, err
	}
	if err := e.link(res, target.ID, "buildPhases", phase.ID); err != nil {
		return nil, err
	}
	return phase, nil
}

// buildFileFor returns the build file wrapping the given reference through
// field ("fileRef" or "productRef"), creating one when absent.
func (e *Editor) buildFileFor(res *Result, field, refID string) (*pbx.Node, error) {
	if bf := e.doc.FindFirst(pbx.KindBuildFile, func(n *pbx.Node) bool {
		return n.Ref(field) == refID
	}); bf != nil {
		return bf, nil
	}
	bf := pbx.NewNode(e.alloc.Next(), pbx.KindBuildFile).SetRef(field, refID)
	return e.insert(res, bf)
}
