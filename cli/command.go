package cli

import (
	"github.com/lifeisriding/slimductor/logging"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// LoggerComponent is the component name of the CLI logger.
const LoggerComponent = "slimductor"

// CommandOptions holds the global flags shared by every command.
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a command with the standard flags and styled help.
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable debug logging and print failures to stderr")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to slimductor config file")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns the CLI logger, switched to debug with a stderr sink
// when --verbose is set.
func GetLogger(cmd *cobra.Command) *logrus.Entry {
	logger := logging.NewLogger(LoggerComponent)
	if GetOptions(cmd).Verbose {
		logging.SetVerbose(logger)
	}
	return logger
}

// GetOptions extracts common options from a command. It also works on the
// root after a subcommand ran, since persistent flag values are shared.
func GetOptions(cmd *cobra.Command) CommandOptions {
	return CommandOptions{
		ConfigFile: flagValue(cmd, "config"),
		Verbose:    flagValue(cmd, "verbose") == "true",
		JSONOutput: flagValue(cmd, "json") == "true",
	}
}

func flagValue(cmd *cobra.Command, name string) string {
	if f := cmd.Flag(name); f != nil {
		return f.Value.String()
	}
	return ""
}
