package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/matzehuels/pbxkit/pkg/manifest"
	"github.com/matzehuels/pbxkit/pkg/ops"
	"github.com/matzehuels/pbxkit/pkg/pipeline"
)

// editOpts holds the flags shared by every command that mutates a project.
type editOpts struct {
	project string // path to the project.pbxproj file
	dryRun  bool   // serialize to stdout instead of writing
}

func (o *editOpts) register(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVarP(&o.project, "project", "p", "", "path to the project.pbxproj file")
	cmd.PersistentFlags().BoolVar(&o.dryRun, "dry-run", false, "print the result to stdout without writing")
	_ = cmd.MarkPersistentFlagRequired("project")
}

// runSteps executes the pipeline for the given steps and prints the change
// summary. Dry runs put the serialized document on stdout, so the summary
// is suppressed to keep the output parseable.
func runSteps(ctx context.Context, opts *editOpts, steps ...pipeline.Step) error {
	logger := loggerFromContext(ctx)
	runner := pipeline.NewRunner(logger)

	prog := newProgress(logger)
	result, err := runner.Execute(ctx, pipeline.Options{
		Path:   opts.project,
		Steps:  steps,
		DryRun: opts.dryRun,
		Stdout: os.Stdout,
	})
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Applied %d operations to %d objects", len(steps), result.Stats.ObjectCount))

	if opts.dryRun {
		return nil
	}
	printSuccess("Updated %s", opts.project)
	printChanges(result.Changes)
	return nil
}

// newAddCmd creates the add command with framework, package, and source
// subcommands. Every variant is idempotent: re-running with the same
// arguments reports no changes.
func newAddCmd() *cobra.Command {
	opts := editOpts{}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Link a framework, package dependency, or source file into a project",
		Long: `Link a framework, package dependency, or source file into a project.

Examples:
  pbxkit add framework UIKit -p App.xcodeproj/project.pbxproj
  pbxkit add package https://github.com/Alamofire/Alamofire --min-version 5.0.0 -p ...
  pbxkit add source Sources/App/Model.swift -p ...`,
	}
	opts.register(cmd)

	cmd.AddCommand(addFrameworkCmd(&opts))
	cmd.AddCommand(addPackageCmd(&opts))
	cmd.AddCommand(addSourceCmd(&opts))

	return cmd
}

func addFrameworkCmd(opts *editOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "framework <name>",
		Short: "Link a system framework into the target's Frameworks phase",
		Args:  cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			return runSteps(c.Context(), opts, pipeline.AddFramework(args[0]))
		},
	}
}

func addPackageCmd(opts *editOpts) *cobra.Command {
	var minVersion string
	var products []string

	cmd := &cobra.Command{
		Use:   "package <repository-url>",
		Short: "Add a remote package dependency and link its products",
		Long: `Add a remote package dependency and link its products.

The requirement is recorded as up-to-next-major from --min-version. When no
--product is given, the repository name is used as the product name. Adding
the same URL again with a different version fails and leaves the project
untouched.`,
		Args: cobra.ExactArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			url := args[0]
			names := products
			if len(names) == 0 {
				names = []string{manifest.RepoName(url)}
			}
			step := pipeline.AddPackage(url, ops.UpToNextMajor(minVersion), names)
			return runSteps(c.Context(), opts, step)
		},
	}

	cmd.Flags().StringVar(&minVersion, "min-version", "", "minimum version for the up-to-next-major requirement")
	cmd.Flags().StringArrayVar(&products, "product", nil, "product name to link (repeatable; defaults to the repository name)")
	_ = cmd.MarkFlagRequired("min-version")

	return cmd
}

func addSourceCmd(opts *editOpts) *cobra.Command {
	return &cobra.Command{
		Use:   "source <path>...",
		Short: "Register source files in the Sources phase and group tree",
		Long: `Register source files in the Sources phase and group tree.

Paths are relative to the project's main group. Intermediate groups are
created to mirror each path's directories.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(c *cobra.Command, args []string) error {
			steps := make([]pipeline.Step, 0, len(args))
			for _, p := range args {
				steps = append(steps, pipeline.AddSource(p))
			}
			return runSteps(c.Context(), opts, steps...)
		},
	}
}
