package cmd

import (
	"github.com/osteele/project-version/pkg/version"
	"github.com/spf13/cobra"
)

func newSetCmd(opts *globalOptions) *cobra.Command {
	var (
		flags releaseFlags
		force bool
	)

	cmd := &cobra.Command{
		Use:   "set VERSION [DIR]",
		Short: "Set the project version",
		Long: `Sets the project version to an explicit value. A leading "v" is accepted.

Versions lower than the current one are refused unless --force is given.`,
		Example: `  project-version set 2.0.0
  project-version set v1.4.0 --no-tag`,
		Args: usageArgs(cobra.RangeArgs(1, 2)),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir, err := opts.resolveDir(args[1:])
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
			next, err := version.Set(current, args[0], force)
			if err != nil {
				return err
			}
			return r.run(cmd.Context(), "Setting", current, next)
		},
	}

	flags.register(cmd.Flags())
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Allow setting a version lower than the current one")
	return cmd
}
