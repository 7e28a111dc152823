package pbx

import (
	"strings"

	"github.com/google/uuid"
)

// identLen is the length of generated identifiers: the native 96-bit shape
// Xcode itself emits (24 uppercase hex digits).
const identLen = 24

// Allocator produces node identifiers that are disjoint from every
// identifier already present in a loaded document and from each other within
// a session. It is the single allocation authority: nothing else in the
// repository mints identifiers.
type Allocator struct {
	used map[string]bool
}

// NewAllocator returns an allocator seeded with every identifier in doc,
// including identifiers retired by removals. A nil doc seeds nothing.
func NewAllocator(doc *Document) *Allocator {
	a := &Allocator{used: make(map[string]bool)}
	if doc != nil {
		for n := range doc.All() {
			a.used[n.ID] = true
		}
		for id := range doc.retired {
			a.used[id] = true
		}
	}
	return a
}

// Next returns a fresh identifier, never equal to a seeded identifier or to
// anything previously returned by this allocator.
func (a *Allocator) Next() string {
	for {
		raw := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
		id := raw[:identLen]
		if a.used[id] {
			continue
		}
		a.used[id] = true
		return id
	}
}

// Reserve marks an identifier as used without returning it, so identifiers
// introduced outside the allocator (e.g. by a later parse) cannot collide.
func (a *Allocator) Reserve(id string) { a.used[id] = true }
