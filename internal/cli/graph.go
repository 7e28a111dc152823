package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/export"
	"github.com/matzehuels/pbxkit/pkg/project"
)

// newGraphCmd creates the graph command: export a project's object graph
// for inspection, as Graphviz DOT or rendered SVG.
func newGraphCmd() *cobra.Command {
	var output string
	var format string

	cmd := &cobra.Command{
		Use:   "graph <project.pbxproj>",
		Short: "Export the object graph as DOT or SVG",
		Long: `Export the object graph as DOT or SVG.

Every object becomes a node and every reference becomes an edge, which
makes dangling or unexpected links easy to spot. The format is inferred
from the output extension when --format is not given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runGraph(c, args[0], output, format)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: dot or svg (default inferred, dot)")

	return cmd
}

func runGraph(c *cobra.Command, path, output, format string) error {
	logger := loggerFromContext(c.Context())

	if format == "" {
		format = "dot"
		if strings.HasSuffix(output, ".svg") {
			format = "svg"
		}
	}

	doc, err := project.ReadFile(path)
	if err != nil {
		return err
	}
	logger.Debugf("parsed %s: %d objects", path, doc.Len())

	var data []byte
	switch format {
	case "dot":
		data = []byte(export.ToDOT(doc))
	case "svg":
		data, err = export.RenderSVG(c.Context(), doc)
		if err != nil {
			return err
		}
	default:
		return fmt.Errorf("invalid format: %q (must be dot or svg)", format)
	}

	if output == "" {
		_, err = os.Stdout.Write(data)
		return err
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	printSuccess("Exported %s graph", format)
	printFile(output)
	printDetail("%d objects", doc.Len())
	return nil
}
