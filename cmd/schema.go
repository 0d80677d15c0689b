package cmd

import (
	"fmt"

	"github.com/lifeisriding/slimductor/pkg/sessions"
	"github.com/lifeisriding/slimductor/schema"
	"github.com/spf13/cobra"
)

// NewSchemaCmd creates the `schema` command.
func NewSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:       "schema [record|config]",
		Short:     "Print a JSON Schema",
		Long:      "Prints the JSON Schema of a session record file (default) or of the slimductor config file.",
		Args:      cobra.MatchAll(cobra.MaximumNArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"record", "config"},
		RunE: func(cmd *cobra.Command, args []string) error {
			generate := sessions.RecordSchemaJSON
			if len(args) == 1 && args[0] == "config" {
				generate = schema.ConfigSchemaJSON
			}

			data, err := generate()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
