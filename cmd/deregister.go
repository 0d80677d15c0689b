package cmd

import (
	"github.com/spf13/cobra"
)

// NewDeregisterCmd creates the `deregister` command.
func NewDeregisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "deregister",
		Short: "Remove this session's record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			defer s.profiler.Start("deregister").Stop()
			_, err = s.registry.Deregister(s.identity())
			return err
		},
	}
}
