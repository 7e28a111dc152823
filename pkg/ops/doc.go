// Package ops is the fixed catalogue of graph mutations for project
// documents: add a system framework, add a package dependency with its
// product dependencies, add a source file, remove matching references, and
// scaffold a new project from nothing.
//
// Every operation is expressed purely against the pbx document model; none
// touches text. Operations are idempotent (re-running one against the state
// it produced changes nothing) and all-or-nothing (an operation either fully
// completes or returns an error with the document exactly as it was).
// Each returns a [Result] naming the identifiers it created, modified, or
// removed, for chaining and for tests.
package ops
