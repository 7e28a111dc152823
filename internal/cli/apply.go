package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/manifest"
	"github.com/matzehuels/pbxkit/pkg/pipeline"
)

// newApplyCmd creates the apply command: load a pbxkit.toml manifest and
// ensure everything it lists is present in the project, in one
// parse → mutate → write session.
func newApplyCmd() *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "apply [manifest]",
		Short: "Apply a pbxkit.toml manifest to a project",
		Long: `Apply a pbxkit.toml manifest to a project.

The manifest lists system frameworks, remote package dependencies, and
source roots to scan. Applying is idempotent: a second run over an already
up-to-date project reports no changes.

The manifest path defaults to pbxkit.toml in the current directory. The
project path and source roots in the manifest are resolved relative to the
manifest file's directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			path := "pbxkit.toml"
			if len(args) == 1 {
				path = args[0]
			}
			return runApply(c, path, dryRun)
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "print the result to stdout without writing")

	return cmd
}

func runApply(c *cobra.Command, path string, dryRun bool) error {
	logger := loggerFromContext(c.Context())

	m, err := manifest.Load(path)
	if err != nil {
		return err
	}
	baseDir := filepath.Dir(path)

	project := m.Project
	if !filepath.IsAbs(project) {
		project = filepath.Join(baseDir, project)
	}

	steps, err := pipeline.StepsFromManifest(m, baseDir)
	if err != nil {
		return err
	}
	logger.Debugf("manifest %s: %d operations", path, len(steps))
	if len(steps) == 0 {
		printWarning("Manifest %s lists no operations", path)
		return nil
	}

	opts := editOpts{project: project, dryRun: dryRun}
	if err := runSteps(c.Context(), &opts, steps...); err != nil {
		return fmt.Errorf("apply %s: %w", path, err)
	}
	return nil
}
