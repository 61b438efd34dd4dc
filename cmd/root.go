package cmd

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/osteele/project-version/pkg/logging"
	"github.com/osteele/project-version/pkg/project"
	"github.com/spf13/cobra"
)

// globalOptions are the flags shared by every command.
type globalOptions struct {
	verbose   bool
	dryRun    bool
	directory string
}

// resolveDir picks the project directory from an optional positional
// argument and the --directory flag.
func (o *globalOptions) resolveDir(args []string) (string, error) {
	if len(args) == 0 {
		return o.directory, nil
	}
	if o.directory != "." && o.directory != args[0] {
		return "", usageErrorf("directory given both as argument (%s) and --directory (%s)", args[0], o.directory)
	}
	return args[0], nil
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}
	var asJSON bool

	rootCmd := &cobra.Command{
		Use:   "project-version [DIR]",
		Short: "Cross-language project version bumper",
		Long: `Reads, bumps and sets the version of Node.js, Python, Rust, Go and Ruby projects.

The project type is detected from the first marker file found in the
directory: package.json, pyproject.toml, Cargo.toml, go.mod, Gemfile.
Version files are rewritten in place so comments and formatting survive.
Without a subcommand the current version is shown.`,
		Args:          usageArgs(cobra.MaximumNArgs(1)),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetVerbose(opts.verbose)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.resolveDir(args)
			if err != nil {
				return err
			}
			return runShow(cmd.OutOrStdout(), dir, asJSON)
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output")
	flags.BoolVarP(&opts.dryRun, "dry-run", "n", false, "Dry run (no file modifications or git operations)")
	flags.StringVarP(&opts.directory, "directory", "C", ".", "Project directory")
	rootCmd.Flags().BoolVar(&asJSON, "json", false, "Print the project information as JSON")

	rootCmd.SetFlagErrorFunc(func(cmd *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	rootCmd.AddCommand(newBumpCmd(opts))
	rootCmd.AddCommand(newSetCmd(opts))
	rootCmd.AddCommand(newChangelogCmd(opts))
	rootCmd.AddCommand(newSchemaCmd())

	return rootCmd
}

// Execute runs the command tree with the process arguments.
func Execute() error {
	return NewRootCmd().Execute()
}

type projectInfo struct {
	Type    project.Type `json:"type"`
	Name    string       `json:"name,omitempty"`
	File    string       `json:"file"`
	Version string       `json:"version"`
	Files   []string     `json:"files"`
}

func runShow(out io.Writer, dir string, asJSON bool) error {
	p, err := project.Detect(dir)
	if err != nil {
		return err
	}
	current, err := p.GetVersion()
	if err != nil {
		return err
	}

	if asJSON {
		info := projectInfo{
			Type:    p.Type(),
			Name:    p.Name(),
			File:    p.PrimaryFile(),
			Version: current.String(),
			Files:   p.FilesToCommit(),
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	fmt.Fprintf(out, "%s %s project (%s)\n", headerStyle.Render("Detected"), p.Type().Label(), p.PrimaryFile())
	if name := p.Name(); name != "" {
		fmt.Fprintf(out, "Name: %s\n", name)
	}
	fmt.Fprintf(out, "Current version: %s\n", versionStyle.Render(current.String()))
	fmt.Fprintln(out)
	fmt.Fprintln(out, faintStyle.Render("Use 'project-version bump' to bump the version"))
	fmt.Fprintln(out, faintStyle.Render("Use 'project-version set <VERSION>' to set a specific version"))
	fmt.Fprintln(out, faintStyle.Render("Run 'project-version --help' to see available commands"))
	return nil
}
