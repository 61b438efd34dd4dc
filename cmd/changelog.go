package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/osteele/project-version/pkg/changelog"
	"github.com/osteele/project-version/pkg/config"
	"github.com/osteele/project-version/pkg/fileops"
	"github.com/osteele/project-version/pkg/project"
	"github.com/osteele/project-version/pkg/version"
	"github.com/spf13/cobra"
)

func newChangelogCmd(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "changelog [VERSION]",
		Short: "Rename the changelog's unreleased section",
		Long: `Replaces the first "Unreleased" heading of the changelog with a heading
for VERSION and today's date. VERSION defaults to the current project version.

Only the changelog is touched: version files, lock files and git are left alone.`,
		Args: usageArgs(cobra.MaximumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := opts.directory
			out := cmd.OutOrStdout()

			cfg, err := config.Load(dir)
			if err != nil {
				return err
			}
			path := cfg.ChangelogPath(dir)
			if path == "" {
				found, ok := changelog.Find(dir)
				if !ok {
					return fmt.Errorf("no changelog found in %s", dir)
				}
				path = found
			}

			var v version.Version
			if len(args) == 1 {
				v, err = version.ParseUserInput(args[0])
			} else {
				var p *project.Project
				if p, err = project.Detect(dir); err == nil {
					v, err = p.GetVersion()
				}
			}
			if err != nil {
				return err
			}

			updater := changelog.NewUpdater(fileops.NewService(opts.dryRun))
			name := filepath.Base(path)
			if opts.dryRun {
				result, err := updater.Preview(path, v)
				if err != nil {
					return err
				}
				if result.Outcome != changelog.Updated {
					fmt.Fprintf(out, "%s No unreleased section found in %s\n", dryRunPrefix(), name)
					return nil
				}
				fmt.Fprintf(out, "%s Would update %s line %d:\n  %s → %s\n",
					dryRunPrefix(), name, result.Line, result.Old, result.Heading)
				return nil
			}

			result, err := updater.Update(path, v)
			if err != nil {
				return err
			}
			if result.Outcome == changelog.Updated {
				fmt.Fprintf(out, "Updated %s: %s\n", name, newVersionStyle.Render(result.Heading))
			}
			return nil
		},
	}
	return cmd
}
