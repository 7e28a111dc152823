package cli

import (
	"bytes"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/project"
)

// newFmtCmd creates the fmt command: parse a project file and rewrite it in
// canonical form. The object graph is untouched; only layout, quoting, and
// regenerated comments change.
func newFmtCmd() *cobra.Command {
	var check bool

	cmd := &cobra.Command{
		Use:   "fmt <project.pbxproj>",
		Short: "Rewrite a project file in canonical form",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runFmt(c, args[0], check)
		},
	}

	cmd.Flags().BoolVar(&check, "check", false, "exit non-zero if the file is not canonical, without rewriting")

	return cmd
}

func runFmt(c *cobra.Command, path string, check bool) error {
	original, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	doc, err := project.Unmarshal(original)
	if err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	canonical, err := project.Marshal(doc)
	if err != nil {
		return err
	}

	if bytes.Equal(original, canonical) {
		printInfo("%s is canonical", path)
		return nil
	}
	if check {
		return fmt.Errorf("%s is not canonical", path)
	}

	if err := project.WriteFile(doc, path); err != nil {
		return err
	}
	printSuccess("Formatted %s", path)
	return nil
}
