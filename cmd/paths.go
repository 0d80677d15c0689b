package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/logging"
	"github.com/lifeisriding/slimductor/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput represents the directories slimductor reads and writes.
type PathsOutput struct {
	HostDir    string `json:"host_dir"`
	ActiveDir  string `json:"active_dir"`
	ConfigDir  string `json:"config_dir"`
	ConfigFile string `json:"config_file"`
	StateDir   string `json:"state_dir"`
	LogFile    string `json:"log_file"`
}

// NewPathsCmd creates the `paths` command.
func NewPathsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by slimductor",
		Long: `Print the paths used by slimductor as JSON:
- host_dir: the host's config directory (CLAUDE_CONFIG_DIR or ~/.claude)
- active_dir: the effective active-sessions directory
- config_dir: where slimductor.yml is searched
- config_file: the config file in use, empty when none
- state_dir: slimductor's own state
- log_file: the current diagnostics log file`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := cli.GetLogger(cmd)
			cfg := loadConfig(cmd, logger)

			configFile := cli.GetOptions(cmd).ConfigFile
			if configFile == "" {
				configFile, _ = config.FindConfigFile()
			}

			output := PathsOutput{
				HostDir:    paths.HostDir(),
				ActiveDir:  cfg.Registry.ActiveDir,
				ConfigDir:  paths.ConfigDir(),
				ConfigFile: configFile,
				StateDir:   paths.StateDir(),
				LogFile:    logging.LogFilePath(logging.LoadConfig(), cli.LoggerComponent),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}
}
