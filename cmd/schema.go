package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/grovetools/panos-eol/pkg/feed"
	"github.com/spf13/cobra"
)

// newSchemaCmd creates the `schema` command.
func newSchemaCmd() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON schema of the versions feed",
		Long: `Prints the JSON schema that feeds are validated against before loading.

Each record must carry a string "version" and "released-on"; other
properties are allowed.

Example usage:
  panos-eol schema --output feed.schema.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := json.MarshalIndent(feed.Schema(), "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal schema: %w", err)
			}

			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), string(data))
				return nil
			}
			if err := os.WriteFile(output, append(data, '\n'), 0644); err != nil {
				return fmt.Errorf("could not write schema: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write the schema to a file instead of stdout")

	return cmd
}
