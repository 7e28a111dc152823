package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/pbx"
	"github.com/matzehuels/pbxkit/pkg/pipeline"
)

// newRemoveCmd creates the remove command with framework, package, and
// source subcommands. Removal cascades: stale edge-list entries and build
// files wrapping a removed reference go with it. Matching nothing is a
// no-op, not an error.
func newRemoveCmd() *cobra.Command {
	opts := editOpts{}

	cmd := &cobra.Command{
		Use:   "remove",
		Short: "Remove references from a project with cascading cleanup",
		Long: `Remove references from a project with cascading cleanup.

Examples:
  pbxkit remove framework UIKit -p App.xcodeproj/project.pbxproj
  pbxkit remove package https://github.com/Alamofire/Alamofire -p ...
  pbxkit remove source Sources/App/Model.swift -p ...`,
	}
	opts.register(cmd)

	cmd.AddCommand(removeFrameworkCmd(&opts))
	cmd.AddCommand(removePackageCmd(&opts))
	cmd.AddCommand(removeSourceCmd(&opts))

	return cmd
}

func removeFrameworkCmd(opts *editOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "framework <name>",
		Short: "Remove a system framework reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			bundle := args[0]
			if !strings.HasSuffix(bundle, ".framework") {
				bundle += ".framework"
			}
			step := pipeline.Remove(pbx.KindFileReference, bundle, func(n *pbx.Node) bool {
				return n.String("lastKnownFileType") == "wrapper.framework" && n.String("name") == bundle
			})
			return runSteps(c.Context(), opts, step)
		},
	}
}

func removePackageCmd(opts *editOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "package <repository-url>",
		Short: "Remove a package dependency and its product references",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			url := args[0]
			steps := []pipeline.Step{
				// Product dependencies reference the package by id, so
				// match them by walking back to the package's URL.
				removeProductsOf(url),
				pipeline.Remove(pbx.KindPackageReference, url, func(n *pbx.Node) bool {
					return n.String("repositoryURL") == url
				}),
			}
			return runSteps(c.Context(), opts, steps...)
		},
	}
}

// removeProductsOf builds the step removing every product dependency whose
// package reference carries the given repository URL.
func removeProductsOf(url string) pipeline.Step {
	return pipeline.Step{
		Name: "remove products of " + url,
		Apply: func(e *ops.Editor) (ops.Result, error) {
			doc := e.Document()
			return e.RemoveReference(pbx.KindProductDependency, func(n *pbx.Node) bool {
				pkg := doc.Node(n.Ref("package"))
				return pkg != nil && pkg.String("repositoryURL") == url
			})
		},
	}
}

func removeSourceCmd(opts *editOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "source <path>",
		Short: "Remove a source file reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			base := args[0]
			if i := strings.LastIndex(base, "/"); i >= 0 {
				base = base[i+1:]
			}
			step := pipeline.Remove(pbx.KindFileReference, base, func(n *pbx.Node) bool {
				return n.String("lastKnownFileType") == "sourcecode.swift" && n.String("path") == base
			})
			return runSteps(c.Context(), opts, step)
		},
	}
}
