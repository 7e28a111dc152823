// Package pipeline orchestrates the read → mutate → write cycle for a
// project document.
//
// The pipeline consists of three stages:
//
//  1. Read: parse the project.pbxproj file into a typed document
//  2. Apply: run a sequence of named mutation steps against the document
//  3. Write: serialize the mutated document back, atomically
//
// Any error aborts the run before the write stage, so a failed run never
// touches the file on disk. Dry runs serialize to a writer instead of the
// file, which is how the CLI implements --dry-run.
//
// # Usage
//
//	runner := pipeline.NewRunner(logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    Path: "App.xcodeproj/project.pbxproj",
//	    Steps: []pipeline.Step{
//	        pipeline.AddFramework("UIKit"),
//	    },
//	})
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/pbx"
)

// Step is one named mutation in a pipeline run. The name appears in log
// output and error messages so a failed run says which operation broke.
type Step struct {
	Name  string
	Apply func(*ops.Editor) (ops.Result, error)
}

// Options configures a pipeline run.
type Options struct {
	// Path is the project.pbxproj file to edit.
	Path string

	// Steps are applied in order against the parsed document.
	Steps []Step

	// DryRun serializes the mutated document to Stdout instead of
	// writing the file.
	DryRun bool

	// Stdout receives the serialized document on dry runs. Required
	// when DryRun is set.
	Stdout io.Writer
}

func (o *Options) validate() error {
	if o.Path == "" {
		return fmt.Errorf("path is required")
	}
	if o.DryRun && o.Stdout == nil {
		return fmt.Errorf("dry run requires an output writer")
	}
	return nil
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Document is the mutated document.
	Document *pbx.Document

	// Changes aggregates the created, modified, and removed identifiers
	// across all steps.
	Changes ops.Result

	// Stats contains timing and size information.
	Stats Stats
}

// Stats contains pipeline execution statistics.
type Stats struct {
	ObjectCount int
	ReadTime    time.Duration
	ApplyTime   time.Duration
	WriteTime   time.Duration
}

// =============================================================================
// Step constructors
// =============================================================================

// AddFramework returns a step linking a system framework into the target.
func AddFramework(name string) Step {
	return Step{
		Name: fmt.Sprintf("add framework %s", name),
		Apply: func(e *ops.Editor) (ops.Result, error) {
			return e.AddSystemFramework(name)
		},
	}
}

// AddPackage returns a step adding a remote package dependency and its
// product names to the target.
func AddPackage(repoURL string, req ops.Requirement, products []string) Step {
	return Step{
		Name: fmt.Sprintf("add package %s", repoURL),
		Apply: func(e *ops.Editor) (ops.Result, error) {
			return e.AddPackageDependency(repoURL, req, products)
		},
	}
}

// AddSource returns a step registering a source file, creating intermediate
// groups as needed.
func AddSource(relPath string) Step {
	return Step{
		Name: fmt.Sprintf("add source %s", relPath),
		Apply: func(e *ops.Editor) (ops.Result, error) {
			return e.AddSourceFile(relPath)
		},
	}
}

// Remove returns a step removing every node of the given kind accepted by
// matcher, with cascade semantics.
func Remove(kind pbx.Kind, desc string, matcher func(*pbx.Node) bool) Step {
	return Step{
		Name: fmt.Sprintf("remove %s %s", kind, desc),
		Apply: func(e *ops.Editor) (ops.Result, error) {
			return e.RemoveReference(kind, matcher)
		},
	}
}
