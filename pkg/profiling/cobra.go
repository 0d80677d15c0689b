package profiling

import (
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CobraProfiler encapsulates profiling state and flag management for Cobra apps.
type CobraProfiler struct {
	Profiler *Profiler

	cpuProfileFile *os.File
	cpuProfilePath string
	memProfilePath string
	timing         bool
}

// NewCobraProfiler creates a new profiler for Cobra integration.
func NewCobraProfiler() *CobraProfiler {
	return &CobraProfiler{Profiler: New()}
}

// AddFlags adds the profiling flags to the given Cobra command.
func (p *CobraProfiler) AddFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().StringVar(&p.cpuProfilePath, "cpu-profile", "", "Write CPU profile to file")
	cmd.PersistentFlags().StringVar(&p.memProfilePath, "mem-profile", "", "Write memory profile to file")
	cmd.PersistentFlags().BoolVar(&p.timing, "timing", false, "Print a timing summary to stderr on exit")
}

// PreRun starts whatever the flags asked for and attaches the profiler to
// the command's context. Profiling problems are logged, never returned, so
// the command itself still runs.
func (p *CobraProfiler) PreRun(cmd *cobra.Command, logger *logrus.Entry) {
	cmd.SetContext(WithProfiler(cmd.Context(), p.Profiler))

	if p.timing {
		p.Profiler.Enable()
	}

	if p.cpuProfilePath == "" {
		return
	}
	f, err := os.Create(p.cpuProfilePath)
	if err != nil {
		logger.WithError(err).Warn("Could not create CPU profile")
		return
	}
	if err := pprof.StartCPUProfile(f); err != nil {
		f.Close()
		logger.WithError(err).Warn("Could not start CPU profile")
		return
	}
	p.cpuProfileFile = f
}

// PostRun finalizes profiling. The timing summary goes to the command's
// stderr; stdout is left to the command.
func (p *CobraProfiler) PostRun(cmd *cobra.Command, logger *logrus.Entry) {
	if p.cpuProfileFile != nil {
		pprof.StopCPUProfile()
		p.cpuProfileFile.Close()
		p.cpuProfileFile = nil
		logger.WithField("path", p.cpuProfilePath).Debug("CPU profile written")
	}

	if p.memProfilePath != "" {
		if err := writeHeapProfile(p.memProfilePath); err != nil {
			logger.WithError(err).Warn("Could not write memory profile")
		} else {
			logger.WithField("path", p.memProfilePath).Debug("Memory profile written")
		}
	}

	if p.timing {
		p.Profiler.Summarize(cmd.ErrOrStderr())
	}
}

func writeHeapProfile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("could not create memory profile: %w", err)
	}
	defer f.Close()
	runtime.GC() // get up-to-date statistics
	return pprof.WriteHeapProfile(f)
}
