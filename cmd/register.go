package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewRegisterCmd creates the `register` command.
func NewRegisterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "register [role]",
		Short: "Record this session as active",
		Long: `Writes a record for the current session unless one exists already, so
repeated hook firings are harmless. The role defaults to registry.default_role
("orchestrator").`,
		Example: `# Session-start hook
slimductor register

# Register a helper instance
slimductor register worker`,
		Args: cobra.MaximumNArgs(1),
		RunE: runRegister,
	}
}

func runRegister(cmd *cobra.Command, args []string) error {
	s, err := openSession(cmd)
	if err != nil {
		return err
	}

	role := s.cfg.Registry.DefaultRole
	if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
		role = strings.TrimSpace(args[0])
	}

	cwd, err := os.Getwd()
	if err != nil {
		s.logger.WithError(err).Debug("Could not determine working directory")
	}

	defer s.profiler.Start("register").Stop()
	_, err = s.registry.Register(s.identity(), role, cwd)
	return err
}
