package ops

import "slices"

// Result reports the identifiers an operation touched. An idempotent re-run
// yields an empty result.
type Result struct {
	// Created holds identifiers of nodes inserted by the operation.
	Created []string
	// Modified holds identifiers of existing nodes whose edges changed.
	Modified []string
	// Removed holds identifiers of nodes deleted, including cascades.
	Removed []string
}

// Empty reports whether the operation changed nothing.
func (r *Result) Empty() bool {
	return len(r.Created) == 0 && len(r.Modified) == 0 && len(r.Removed) == 0
}

// Merge folds other into r.
func (r *Result) Merge(other Result) {
	for _, id := range other.Created {
		r.created(id)
	}
	for _, id := range other.Modified {
		r.modified(id)
	}
	for _, id := range other.Removed {
		r.removed(id)
	}
}

func (r *Result) created(id string) {
	if !slices.Contains(r.Created, id) {
		r.Created = append(r.Created, id)
	}
}

func (r *Result) modified(id string) {
	// A node created this call is already accounted for.
	if slices.Contains(r.Created, id) || slices.Contains(r.Modified, id) {
		return
	}
	r.Modified = append(r.Modified, id)
}

func (r *Result) removed(id string) {
	if !slices.Contains(r.Removed, id) {
		r.Removed = append(r.Removed, id)
	}
}
