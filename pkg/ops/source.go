package ops

import (
	"fmt"
	"path"
	"strings"

	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// AddSourceFile ensures one file reference for the given relative path, one
// build file wrapping it, membership in the group matching the path's
// directory (intermediate groups are created per path segment), and
// membership in the target's Sources phase.
//
// relPath is slash-separated and relative to the project's main group;
// discovery of paths on disk is the caller's concern.
func (e *Editor) AddSourceFile(relPath string) (Result, error) {
	var res Result

	relPath = path.Clean(strings.TrimPrefix(relPath, "/"))
	if relPath == "." || relPath == "" {
		return Result{}, fmt.Errorf("%w: empty source path", pbx.ErrNotFound)
	}

	target, err := e.target()
	if err != nil {
		return Result{}, err
	}

	group, err := e.ensureGroupPath(&res, path.Dir(relPath))
	if err != nil {
		return Result{}, err
	}

	base := path.Base(relPath)
	ref := e.childFileReference(group, base)
	if ref == nil {
		ref = pbx.NewNode(e.alloc.Next(), pbx.KindFileReference).
			SetString("lastKnownFileType", "sourcecode.swift").
			SetString("path", base).
			SetString("sourceTree", "<group>")
		if _, err := e.insert(&res, ref); err != nil {
			return Result{}, err
		}
		if err := e.link(&res, group.ID, "children", ref.ID); err != nil {
			return Result{}, err
		}
	}

	bf, err := e.buildFileFor(&res, "fileRef", ref.ID)
	if err != nil {
		return Result{}, err
	}

	phase, err := e.ensurePhase(&res, target, pbx.KindSourcesPhase)
	if err != nil {
		return Result{}, err
	}
	if err := e.link(&res, phase.ID, "files", bf.ID); err != nil {
		return Result{}, err
	}
	return res, nil
}

// ensureGroupPath walks the group hierarchy from the main group along dir's
// segments, creating intermediate groups where the path does not yet exist.
// dir "." resolves to the main group itself.
func (e *Editor) ensureGroupPath(res *Result, dir string) (*pbx.Node, error) {
	root := e.doc.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: document has no project object", pbx.ErrNotFound)
	}
	group := e.doc.Node(root.Ref("mainGroup"))
	if group == nil || group.Kind != pbx.KindGroup {
		return nil, fmt.Errorf("%w: project has no main group", pbx.ErrNotFound)
	}
	if dir == "." || dir == "" {
		return group, nil
	}
	for _, segment := range strings.Split(dir, "/") {
		next := e.childGroup(group, segment)
		if next == nil {
			next = pbx.NewNode(e.alloc.Next(), pbx.KindGroup).
				Set("children", &pbx.List{}).
				SetString("path", segment).
				SetString("sourceTree", "<group>")
			if _, err := e.insert(res, next); err != nil {
				return nil, err
			}
			if err := e.link(res, group.ID, "children", next.ID); err != nil {
				return nil, err
			}
		}
		group = next
	}
	return group, nil
}

// childGroup finds a direct child group of parent whose path (or name, for
// groups that only carry one) matches segment.
func (e *Editor) childGroup(parent *pbx.Node, segment string) *pbx.Node {
	children := parent.Fields.GetList("children")
	if children == nil {
		return nil
	}
	for _, id := range children.RefIDs() {
		n := e.doc.Node(id)
		if n == nil || n.Kind != pbx.KindGroup {
			continue
		}
		if n.String("path") == segment || (n.String("path") == "" && n.String("name") == segment) {
			return n
		}
	}
	return nil
}

// childFileReference finds a direct child file reference of parent by path.
func (e *Editor) childFileReference(parent *pbx.Node, base string) *pbx.Node {
	children := parent.Fields.GetList("children")
	if children == nil {
		return nil
	}
	for _, id := range children.RefIDs() {
		n := e.doc.Node(id)
		if n != nil && n.Kind == pbx.KindFileReference && n.String("path") == base {
			return n
		}
	}
	return nil
}
