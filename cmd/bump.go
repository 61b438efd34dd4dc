package cmd

import (
	"github.com/osteele/project-version/pkg/version"
	"github.com/spf13/cobra"
)

func newBumpCmd(opts *globalOptions) *cobra.Command {
	var flags releaseFlags

	cmd := &cobra.Command{
		Use:   "bump [major|minor|patch] [DIR]",
		Short: "Bump the project version",
		Long: `Increments one component of the project version and resets the lower ones.

The version files are rewritten, the changelog's unreleased section is
renamed to the new version, lock files are refreshed and the result is
committed and tagged. The bump type defaults to patch.`,
		Example: `  project-version bump
  project-version bump minor
  project-version bump major ./service --dry-run`,
		Args:      usageArgs(cobra.MaximumNArgs(2)),
		ValidArgs: bumpKindArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind := version.Patch
			if len(args) > 0 {
				k, err := version.ParseBumpKind(args[0])
				if err != nil {
					return &usageError{err: err}
				}
				kind = k
				args = args[1:]
			}
			dir, err := opts.resolveDir(args)
			if err != nil {
				return err
			}

			r, err := newRelease(cmd.OutOrStdout(), opts, dir, flags)
			if err != nil {
				return err
			}
			current, err := r.project.GetVersion()
			if err != nil {
				return err
			}
			next, err := current.Bump(kind)
			if err != nil {
				return err
			}
			return r.run(cmd.Context(), "Bumping", current, next)
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func bumpKindArgs() []string {
	args := make([]string, len(version.BumpKinds))
	for i, k := range version.BumpKinds {
		args[i] = string(k)
	}
	return args
}
