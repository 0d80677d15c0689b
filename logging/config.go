package logging

// Config defines the "logging" section of the slimductor config file.
type Config struct {
	// Level is the minimum log level to output (e.g., "debug", "info", "warn", "error").
	// Can be overridden by the SLIMDUCTOR_LOG_LEVEL environment variable.
	Level string `yaml:"level"`

	// ReportCaller, if true, includes the file, line, and function name in the log output.
	// Can be enabled with the SLIMDUCTOR_LOG_CALLER=true environment variable.
	ReportCaller bool `yaml:"report_caller"`

	// File configures logging to a file.
	File FileSinkConfig `yaml:"file"`

	// Format configures the appearance of the log output.
	Format FormatConfig `yaml:"format"`
}

// FileSinkConfig configures the file logging sink.
type FileSinkConfig struct {
	// Enabled defaults to true; set it to false to keep no log file.
	Enabled *bool `yaml:"enabled"`
	// Path is the full path to the log file. Defaults to a dated file in the state directory.
	Path string `yaml:"path"`
}

// FormatConfig controls the log output format.
type FormatConfig struct {
	// Preset can be "default" (rich text), "simple" (minimal text), or "json".
	Preset string `yaml:"preset"`
	// DisableTimestamp disables the timestamp from the "default" and "simple" formats.
	DisableTimestamp bool `yaml:"disable_timestamp"`
	// DisableComponent disables the component name from the "default" and "simple" formats.
	DisableComponent bool `yaml:"disable_component"`
	// StructuredToStderr controls when logs are also sent to stderr.
	// Can be "auto" (default, only in debug mode), "always", or "never".
	StructuredToStderr string `yaml:"structured_to_stderr"`
}

// FileEnabled reports whether the file sink is on.
func (c FileSinkConfig) FileEnabled() bool {
	return c.Enabled == nil || *c.Enabled
}
