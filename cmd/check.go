package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/pkg/sessions"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const clearScreen = "\033[H\033[2J"

// NewCheckCmd creates the `check` command.
func NewCheckCmd() *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Summarize active sessions",
		Long: `Prints the number of active sessions and orchestrators, then one line per
session with its role, tracking pid and working directory.`,
		Example: `# One-shot summary
slimductor check

# Keep the summary on screen while sessions come and go
slimductor check --watch`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(cmd)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			jsonOutput := cli.GetOptions(cmd).JSONOutput
			clearFirst := watch && !jsonOutput && isTerminal(out)

			render := func() error {
				span := s.profiler.Start("active")
				records, err := s.registry.Active()
				span.Stop()
				if err != nil {
					return err
				}
				summary := sessions.Summarize(records)
				if jsonOutput {
					return summary.WriteJSON(out)
				}
				if clearFirst {
					fmt.Fprint(out, clearScreen)
				}
				return summary.WriteText(out)
			}

			if err := render(); err != nil {
				return err
			}
			if !watch {
				return nil
			}

			s.logger.WithField("dir", s.registry.Dir()).Debug("Watching active sessions")
			return s.registry.Watch(cmd.Context(), 0, func() {
				if err := render(); err != nil {
					s.logger.WithError(err).Warn("Failed to refresh summary")
				}
			})
		},
	}

	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Re-render when sessions change, until interrupted")
	return cmd
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}
