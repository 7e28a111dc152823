package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/project"
)

// Runner executes pipeline runs. It is stateless apart from its logger, so
// one Runner can serve any number of runs.
type Runner struct {
	Logger *log.Logger
}

// NewRunner creates a runner. A nil logger falls back to log.Default.
func NewRunner(logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Logger: logger}
}

// Execute runs the complete read → apply → write pipeline.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	readStart := time.Now()
	doc, err := project.ReadFile(opts.Path)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats.ReadTime = time.Since(readStart)
	result.Stats.ObjectCount = doc.Len()

	r.Logger.Info("parsed project",
		"path", opts.Path,
		"objects", doc.Len(),
		"duration", result.Stats.ReadTime)

	applyStart := time.Now()
	editor := ops.NewEditor(doc)
	for _, step := range opts.Steps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		res, err := step.Apply(editor)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", step.Name, err)
		}
		if res.Empty() {
			r.Logger.Debug("no changes", "step", step.Name)
		} else {
			r.Logger.Info("applied",
				"step", step.Name,
				"created", len(res.Created),
				"modified", len(res.Modified),
				"removed", len(res.Removed))
		}
		result.Changes.Merge(res)
	}
	result.Stats.ApplyTime = time.Since(applyStart)

	writeStart := time.Now()
	if opts.DryRun {
		if err := project.Write(doc, opts.Stdout); err != nil {
			return nil, err
		}
	} else if err := project.WriteFile(doc, opts.Path); err != nil {
		return nil, err
	}
	result.Stats.WriteTime = time.Since(writeStart)

	r.Logger.Info("wrote project",
		"path", opts.Path,
		"objects", doc.Len(),
		"dry_run", opts.DryRun,
		"duration", result.Stats.WriteTime)

	return result, nil
}
