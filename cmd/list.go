package cmd

import (
	"github.com/lifeisriding/slimductor/pkg/sessions"
	"github.com/spf13/cobra"
)

// NewListCmd creates the `list` command.
func NewListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Print active sessions as JSON",
		Long:  "Prints a JSON array of the live session records. Stale records are evicted first.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			span := s.profiler.Start("active")
			records, err := s.registry.Active()
			span.Stop()
			if err != nil {
				return err
			}
			return sessions.WriteRecordsJSON(cmd.OutOrStdout(), records)
		},
	}
}
