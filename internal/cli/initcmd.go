package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/project"
)

// newInitCmd creates the init command: scaffold a minimal fully linked
// project document for a single application target.
func newInitCmd() *cobra.Command {
	var dir string

	cmd := &cobra.Command{
		Use:   "init <name>",
		Short: "Scaffold a minimal project for an application target",
		Long: `Scaffold a minimal project for an application target.

Creates <name>.xcodeproj/project.pbxproj with one native target, its
Sources, Frameworks, and Resources phases, Debug and Release build
configurations, and the standard group tree. Fails if the project bundle
already exists.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runInit(c, args[0], dir)
		},
	}

	cmd.Flags().StringVarP(&dir, "dir", "d", ".", "directory to create the project bundle in")

	return cmd
}

func runInit(c *cobra.Command, name, dir string) error {
	logger := loggerFromContext(c.Context())

	bundle := filepath.Join(dir, name+".xcodeproj")
	if _, err := os.Stat(bundle); err == nil {
		return fmt.Errorf("%s already exists", bundle)
	}

	prog := newProgress(logger)
	doc, err := ops.NewProject(name)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(bundle, 0o755); err != nil {
		return fmt.Errorf("create %s: %w", bundle, err)
	}
	path := filepath.Join(bundle, "project.pbxproj")
	if err := project.WriteFile(doc, path); err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Scaffolded %s with %d objects", name, doc.Len()))

	printSuccess("Created project %s", name)
	printFile(path)
	return nil
}
