package cmd

import (
	"fmt"

	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/schema"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// NewConfigCmd creates the `config` command.
func NewConfigCmd() *cobra.Command {
	var validate bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print or validate the effective configuration",
		Long: `Prints the configuration after defaults and environment overrides
(SLIMDUCTOR_ACTIVE_DIR, ${VAR} expansion) are applied, as YAML.

With --validate the config file is checked against the config JSON Schema
instead, and each problem is printed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			out := cmd.OutOrStdout()

			source := cli.GetOptions(cmd).ConfigFile
			if source == "" {
				source, _ = config.FindConfigFile()
			}

			if validate {
				if source == "" {
					fmt.Fprintln(out, "No config file found; built-in defaults are in use.")
					return nil
				}
				v, err := schema.NewValidator()
				if err != nil {
					return err
				}
				if err := v.ValidateFile(source); err != nil {
					fmt.Fprintf(out, "%s: invalid\n", source)
					for _, problem := range schema.Problems(err) {
						fmt.Fprintf(out, "  %s\n", problem)
					}
					return err
				}
				fmt.Fprintf(out, "%s: valid\n", source)
				return nil
			}

			cfg := loadConfig(cmd, logger)
			data, err := yaml.Marshal(cfg)
			if err != nil {
				return fmt.Errorf("failed to marshal config: %w", err)
			}

			if source != "" {
				fmt.Fprintf(out, "# Source: %s\n", source)
			} else {
				fmt.Fprintln(out, "# Source: built-in defaults")
			}
			fmt.Fprint(out, string(data))
			return nil
		},
	}

	cmd.Flags().BoolVar(&validate, "validate", false, "Check the config file against its JSON Schema")
	return cmd
}
