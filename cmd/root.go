package cmd

import (
	"os"

	"github.com/lifeisriding/slimductor/cli"
	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/errors"
	"github.com/lifeisriding/slimductor/pkg/profiling"
	"github.com/lifeisriding/slimductor/pkg/sessions"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewRootCmd assembles the slimductor command tree. Running the root with
// no subcommand registers the session, so a bare `slimductor` works as a
// session-start hook.
func NewRootCmd() *cobra.Command {
	root := cli.NewStandardCommand(
		"slimductor",
		"Track concurrently running host sessions from lifecycle hooks",
	)
	root.Long = `Keeps one record file per running host session in the active-sessions
directory. Hooks call register on session start and deregister on stop;
list and check enumerate the live sessions and evict records whose process
is gone or that are older than the staleness threshold.

Commands never fail their caller: errors are logged and the exit status is
always zero. Use --verbose to see them on stderr.`
	prof := profiling.NewCobraProfiler()
	prof.AddFlags(root)
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		// Route the logger's own config lookup to the same file.
		if path := cli.GetOptions(cmd).ConfigFile; path != "" {
			os.Setenv("SLIMDUCTOR_CONFIG", path)
		}
		prof.PreRun(cmd, cli.GetLogger(cmd))
	}
	root.PersistentPostRun = func(cmd *cobra.Command, args []string) {
		prof.PostRun(cmd, cli.GetLogger(cmd))
	}
	root.RunE = runRegister

	root.AddCommand(NewRegisterCmd())
	root.AddCommand(NewDeregisterCmd())
	root.AddCommand(NewListCmd())
	root.AddCommand(NewCheckCmd())
	root.AddCommand(NewPathsCmd())
	root.AddCommand(NewSchemaCmd())
	root.AddCommand(NewLogsCmd())
	root.AddCommand(NewConfigCmd())
	root.AddCommand(cli.NewVersionCommand("slimductor"))

	return root
}

// loadConfig reads the --config file or the default one, falling back to
// the built-in defaults when there is none or it cannot be used.
func loadConfig(cmd *cobra.Command, logger *logrus.Entry) *config.Config {
	path := cli.GetOptions(cmd).ConfigFile

	var cfg *config.Config
	var err error
	if path != "" {
		cfg, err = config.Load(path)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err == nil {
		return cfg
	}

	if path == "" && errors.Is(err, errors.ErrCodeConfigNotFound) {
		logger.Debug("No config file found, using defaults")
	} else {
		logger.WithError(err).Warn("Falling back to default configuration")
	}
	return config.Default()
}

// session bundles what the registry commands need.
type session struct {
	cfg      *config.Config
	logger   *logrus.Entry
	registry *sessions.Registry
	profiler *profiling.Profiler
}

func openSession(cmd *cobra.Command) (*session, error) {
	logger := cli.GetLogger(cmd)
	profiler := profiling.FromContext(cmd.Context())

	span := profiler.Start("config")
	cfg := loadConfig(cmd, logger)
	span.Stop()

	registry, err := sessions.New(sessions.Options{
		Dir:        cfg.Registry.ActiveDir,
		StaleAfter: cfg.Registry.StaleAfter,
		Logger:     logger,
	})
	if err != nil {
		return nil, err
	}
	return &session{cfg: cfg, logger: logger, registry: registry, profiler: profiler}, nil
}

// identity resolves the current session's key inputs.
func (s *session) identity() sessions.Identity {
	return sessions.CurrentIdentity(s.cfg.Registry.SessionEnv, s.cfg.Registry.Ancestry())
}
