package ops

import (
	"slices"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// RemoveReference removes every node of the given kind for which matcher
// returns true, with full cascade semantics: the removed identifiers are
// stripped from every edge list, and build files wrapping a removed node go
// with it. Matching nothing is a no-op, not an error.
func (e *Editor) RemoveReference(kind pbx.Kind, matcher func(*pbx.Node) bool) (Result, error) {
	var res Result

	var ids []string
	for n := range e.doc.Find(kind, matcher) {
		ids = append(ids, n.ID)
	}
	for _, id := range ids {
		before := e.removedSnapshot()
		if e.doc.Node(id) == nil {
			// Already gone via an earlier match's cascade.
			continue
		}
		if err := e.doc.Remove(id); err != nil {
			return Result{}, err
		}
		for _, gone := range e.removedSince(before) {
			res.removed(gone)
		}
	}
	slices.Sort(res.Removed)
	return res, nil
}

// removedSnapshot captures the identifiers currently present, so a cascade's
// collateral removals can be reported.
func (e *Editor) removedSnapshot() map[string]bool {
	present := make(map[string]bool, e.doc.Len())
	for n := range e.doc.All() {
		present[n.ID] = true
	}
	return present
}

func (e *Editor) removedSince(before map[string]bool) []string {
	var gone []string
	for id := range before {
		if e.doc.Node(id) == nil {
			gone = append(gone, id)
		}
	}
	return gone
}
