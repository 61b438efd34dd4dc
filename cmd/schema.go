package cmd

import (
	"fmt"

	"github.com/osteele/project-version/pkg/config"
	"github.com/spf13/cobra"
)

// newSchemaCmd creates the `schema` command.
func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the configuration file",
		Long: `Prints the JSON schema for .project-version.yml, .project-version.yaml
and .project-version.toml.

Reference it from the YAML file to get editor completion:
  # yaml-language-server: $schema=project-version.schema.json`,
		Args: usageArgs(cobra.NoArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.SchemaJSON()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return err
		},
	}
}
