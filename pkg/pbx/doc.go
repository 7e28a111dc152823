// Package pbx implements the in-memory object-graph model of an Xcode
// project document (project.pbxproj).
//
// A document is a flat table of typed records ("nodes") that reference each
// other by identifier. The package models exactly that: a [Document] maps
// identifiers to [Node] values, and cross-references are [Ref] field values
// pointing at other identifiers. There is no implicit nesting beyond what a
// field declares.
//
// # Model
//
// Every node has a [Kind] drawn from a closed vocabulary (PBXBuildFile,
// PBXFileReference, PBXGroup, ...), an optional display name used only for
// serialized comments, and an ordered field table. Field values are one of
// four shapes:
//
//   - [String]: a scalar token or quoted string
//   - [Ref]: an identifier naming another node
//   - [List]: an ordered sequence of values
//   - [Object]: a nested inline record with preserved field order
//
// # Invariants
//
// The Document enforces identifier uniqueness on insert and referential
// integrity on validation: every Ref target must exist. Edge lists hold no
// duplicate identifiers and preserve insertion order, which is what makes
// higher-level "add dependency" operations idempotent. Removing a node
// cascades: the identifier is stripped from every edge list, and any
// PBXBuildFile left wrapping nothing is removed transitively.
//
// Serialization lives in package project; graph mutations live in package
// ops. Both are expressed purely against this model.
package pbx
