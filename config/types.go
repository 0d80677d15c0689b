package config

import (
	"fmt"
	"time"

	"github.com/lifeisriding/slimductor/pkg/process"
	"github.com/mitchellh/mapstructure"
)

// DefaultStaleAfter is the age past which a record is evicted even when its
// process is still alive.
const DefaultStaleAfter = 4 * time.Hour

// DefaultSessionEnv names the variable carrying the host's session identifier.
const DefaultSessionEnv = "CLAUDE_SESSION_ID"

// DefaultRole is the role recorded when register is called without one.
const DefaultRole = "orchestrator"

// Config is the slimductor configuration file.
type Config struct {
	Registry RegistryConfig `yaml:"registry" toml:"registry" mapstructure:"registry"`

	// Extensions holds every other top-level section (e.g. "logging"),
	// decoded on demand with UnmarshalExtension.
	Extensions map[string]interface{} `yaml:",inline" toml:"-" mapstructure:",remain"`
}

// RegistryConfig controls where session records live and how the tracking
// pid is resolved.
type RegistryConfig struct {
	// ActiveDir is the directory holding one record file per live session.
	ActiveDir string `yaml:"active_dir,omitempty" toml:"active_dir,omitempty" mapstructure:"active_dir"`
	// StaleAfter is the maximum age of a record, e.g. "4h".
	StaleAfter time.Duration `yaml:"stale_after,omitempty" toml:"stale_after,omitempty" mapstructure:"stale_after"`
	// SessionEnv names the environment variable with the host session id.
	SessionEnv string `yaml:"session_env,omitempty" toml:"session_env,omitempty" mapstructure:"session_env"`
	// DefaultRole is used when register is given no role.
	DefaultRole string `yaml:"default_role,omitempty" toml:"default_role,omitempty" mapstructure:"default_role"`
	// HostNames are executable names of the host application.
	HostNames []string `yaml:"host_names,omitempty" toml:"host_names,omitempty" mapstructure:"host_names"`
	// SkipNames are launcher and shell executables walked past on Windows.
	SkipNames []string `yaml:"skip_names,omitempty" toml:"skip_names,omitempty" mapstructure:"skip_names"`
	// MaxHops caps the ancestry walk.
	MaxHops int `yaml:"max_hops,omitempty" toml:"max_hops,omitempty" mapstructure:"max_hops"`
}

// Ancestry returns the process ancestry settings for tracking-pid resolution.
func (r RegistryConfig) Ancestry() process.Ancestry {
	return process.Ancestry{
		HostNames: r.HostNames,
		SkipNames: r.SkipNames,
		MaxHops:   r.MaxHops,
	}
}

// SetDefaults sets default values for configuration
func (c *Config) SetDefaults() {
	defaults := process.DefaultAncestry()

	if c.Registry.StaleAfter == 0 {
		c.Registry.StaleAfter = DefaultStaleAfter
	}
	if c.Registry.SessionEnv == "" {
		c.Registry.SessionEnv = DefaultSessionEnv
	}
	if c.Registry.DefaultRole == "" {
		c.Registry.DefaultRole = DefaultRole
	}
	if len(c.Registry.HostNames) == 0 {
		c.Registry.HostNames = defaults.HostNames
	}
	if len(c.Registry.SkipNames) == 0 {
		c.Registry.SkipNames = defaults.SkipNames
	}
	if c.Registry.MaxHops == 0 {
		c.Registry.MaxHops = defaults.MaxHops
	}
}

// UnmarshalExtension decodes a specific extension's configuration from the
// loaded file into the provided target struct. The target must be a pointer.
//
// Example:
//
//	var logCfg logging.Config
//	err := cfg.UnmarshalExtension("logging", &logCfg)
func (c *Config) UnmarshalExtension(key string, target interface{}) error {
	extensionConfig, ok := c.Extensions[key]
	if !ok {
		// It's not an error if the key doesn't exist.
		// The target struct will simply remain zero-valued.
		return nil
	}

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     target,
		TagName:    "yaml",
		DecodeHook: decodeHooks(),
	})
	if err != nil {
		return fmt.Errorf("failed to create mapstructure decoder: %w", err)
	}

	if err := decoder.Decode(extensionConfig); err != nil {
		return fmt.Errorf("failed to decode extension config for '%s': %w", key, err)
	}

	return nil
}

func decodeHooks() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}
