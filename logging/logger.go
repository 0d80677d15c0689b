package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/pkg/paths"
	"github.com/mattn/go-isatty"
	"github.com/sirupsen/logrus"
)

var (
	loggers   = make(map[string]*logrus.Entry)
	verbose   = make(map[*logrus.Logger]bool)
	loggersMu sync.Mutex
)

// LoadConfig reads the "logging" section of the config file. A missing or
// unreadable file yields the zero Config.
func LoadConfig() Config {
	var logCfg Config
	cfg, err := config.LoadDefault()
	if err != nil {
		return logCfg
	}
	if err := cfg.UnmarshalExtension("logging", &logCfg); err != nil {
		// Log a warning if parsing fails, but continue with defaults
		logrus.Warnf("Failed to parse 'logging' config: %v", err)
	}
	return logCfg
}

// DefaultLogFile returns the dated log file used when no path is configured.
func DefaultLogFile(component string, now time.Time) string {
	dir := paths.LogDir()
	if dir == "" {
		return ""
	}
	return filepath.Join(dir, fmt.Sprintf("%s-%s.log", component, now.Format("2006-01-02")))
}

// LogFilePath returns the file the given config sends logs to, or "" when
// the file sink is disabled.
func LogFilePath(logCfg Config, component string) string {
	if !logCfg.File.FileEnabled() {
		return ""
	}
	if logCfg.File.Path != "" {
		return expandPath(logCfg.File.Path)
	}
	return DefaultLogFile(component, time.Now())
}

// NewLogger creates and returns a pre-configured logger for a specific component.
// It uses a singleton pattern per component to avoid re-initializing.
//
// Logs never go to stdout: command output such as `list` owns it.
func NewLogger(component string) *logrus.Entry {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	if logger, exists := loggers[component]; exists {
		return logger
	}

	logCfg := LoadConfig()
	logger := logrus.New()

	// Configure Level
	levelStr := "info"
	if os.Getenv("SLIMDUCTOR_LOG_LEVEL") != "" {
		levelStr = os.Getenv("SLIMDUCTOR_LOG_LEVEL")
	} else if logCfg.Level != "" {
		levelStr = logCfg.Level
	}
	level, err := logrus.ParseLevel(levelStr)
	if err != nil {
		level = logrus.InfoLevel
	}
	logger.SetLevel(level)

	// Configure Caller Reporting
	if os.Getenv("SLIMDUCTOR_LOG_CALLER") == "true" || logCfg.ReportCaller {
		logger.SetReportCaller(true)
	}

	// Configure Output Sinks
	var writers []io.Writer

	if logFilePath := LogFilePath(logCfg, "slimductor"); logFilePath != "" {
		if err := os.MkdirAll(filepath.Dir(logFilePath), 0755); err == nil {
			file, err := os.OpenFile(logFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
			if err == nil {
				writers = append(writers, file)
			}
		}
	}

	toStderr := false
	switch logCfg.Format.StructuredToStderr {
	case "always":
		toStderr = true
	case "never":
		toStderr = false
	default:
		// "auto": hooks run without a terminal, and anything on their stderr
		// reaches the host, so stay quiet unless debugging.
		toStderr = os.Getenv("SLIMDUCTOR_DEBUG") == "1" || logger.GetLevel() >= logrus.DebugLevel
	}
	if toStderr {
		writers = append(writers, os.Stderr)
	}

	// Configure Formatter
	switch logCfg.Format.Preset {
	case "json":
		logger.SetFormatter(&logrus.JSONFormatter{})
	case "simple":
		logger.SetFormatter(&TextFormatter{Config: FormatConfig{
			DisableTimestamp: true,
			DisableComponent: true,
		}})
	default:
		logger.SetFormatter(&TextFormatter{
			Config: logCfg.Format,
			Color:  len(writers) == 1 && toStderr && isTerminal(os.Stderr),
		})
	}

	switch len(writers) {
	case 0:
		logger.SetOutput(io.Discard)
	case 1:
		logger.SetOutput(writers[0])
	default:
		logger.SetOutput(io.MultiWriter(writers...))
	}
	verbose[logger] = toStderr

	entry := logger.WithField("component", component)
	loggers[component] = entry
	return entry
}

// SetVerbose lowers the logger to debug level and makes sure stderr is one
// of its sinks.
func SetVerbose(entry *logrus.Entry) {
	loggersMu.Lock()
	defer loggersMu.Unlock()

	logger := entry.Logger
	logger.SetLevel(logrus.DebugLevel)
	if verbose[logger] {
		return
	}
	if logger.Out == io.Discard {
		logger.SetOutput(os.Stderr)
	} else {
		logger.SetOutput(io.MultiWriter(logger.Out, os.Stderr))
	}
	verbose[logger] = true
}

func isTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// expandPath expands tilde in file paths
func expandPath(path string) string {
	if len(path) > 0 && path[0] == '~' {
		home, err := os.UserHomeDir()
		if err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
