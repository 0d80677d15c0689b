package config

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lifeisriding/slimductor/errors"
	"github.com/lifeisriding/slimductor/pkg/paths"
	"github.com/lifeisriding/slimductor/util/pathutil"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format identifies the syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

// configNames are searched, in order, inside the config directory.
var configNames = []string{
	"slimductor.yml",
	"slimductor.yaml",
	"slimductor.toml",
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	cfg := &Config{}
	_ = cfg.finalize()
	return cfg
}

// Load reads and parses a configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}

	cfg, err := LoadFromBytes(data, FormatForPath(path))
	if err != nil {
		if slimErr, ok := err.(*errors.SlimductorError); ok {
			slimErr.WithDetail("path", path)
		}
		return nil, err
	}
	return cfg, nil
}

// LoadDefault finds and loads the configuration file. The returned error
// has code CONFIG_NOT_FOUND when there is none; callers then use Default().
func LoadDefault() (*Config, error) {
	path, err := FindConfigFile()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// LoadFromBytes parses configuration in the given format, applies
// environment overrides and defaults, and validates the result.
func LoadFromBytes(data []byte, format Format) (*Config, error) {
	raw, err := ParseRaw(data, format)
	if err != nil {
		return nil, err
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:     &cfg,
		DecodeHook: decodeHooks(),
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeInternal, "failed to create config decoder")
	}
	if err := decoder.Decode(raw); err != nil {
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to decode configuration")
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// ParseRaw expands ${VAR} references and parses data into a generic map,
// without decoding or defaults.
func ParseRaw(data []byte, format Format) (map[string]interface{}, error) {
	expanded := expandEnvVars(string(data))

	raw := make(map[string]interface{})
	switch format {
	case FormatTOML:
		if err := toml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse TOML configuration")
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &raw); err != nil {
			return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to parse YAML configuration")
		}
	}
	return raw, nil
}

// LoadRaw reads path and parses it with ParseRaw.
func LoadRaw(path string) (map[string]interface{}, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigNotFound(path)
		}
		return nil, errors.Wrap(err, errors.ErrCodeConfigInvalid, "failed to read config file").
			WithDetail("path", path)
	}
	return ParseRaw(data, FormatForPath(path))
}

// FindConfigFile returns the configuration file to use:
// 1. SLIMDUCTOR_CONFIG, when set
// 2. slimductor.yml, slimductor.yaml or slimductor.toml in the config directory
func FindConfigFile() (string, error) {
	if explicit := os.Getenv("SLIMDUCTOR_CONFIG"); explicit != "" {
		return explicit, nil
	}

	dir := paths.ConfigDir()
	if dir != "" {
		for _, name := range configNames {
			path := filepath.Join(dir, name)
			if info, err := os.Stat(path); err == nil && !info.IsDir() {
				return path, nil
			}
		}
	}

	return "", errors.ConfigNotFound(dir).WithDetail("searchPath", dir)
}

// FormatForPath picks the parser from the file extension.
func FormatForPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

// finalize applies environment overrides and defaults, resolves paths, and validates.
func (c *Config) finalize() error {
	if dir := os.Getenv("SLIMDUCTOR_ACTIVE_DIR"); dir != "" {
		c.Registry.ActiveDir = dir
	}
	if c.Registry.ActiveDir == "" {
		c.Registry.ActiveDir = paths.ActiveDir()
	}
	if c.Registry.ActiveDir != "" {
		if expanded, err := pathutil.Expand(c.Registry.ActiveDir); err == nil {
			c.Registry.ActiveDir = expanded
		}
	}

	c.SetDefaults()
	return c.Validate()
}

// expandEnvVars replaces ${VAR} with environment variable values
func expandEnvVars(content string) string {
	return envVarRegex.ReplaceAllStringFunc(content, func(match string) string {
		varName := envVarRegex.FindStringSubmatch(match)[1]

		// Handle default values: ${VAR:-default}
		parts := strings.SplitN(varName, ":-", 2)
		varName = parts[0]
		defaultValue := ""
		if len(parts) > 1 {
			defaultValue = parts[1]
		}

		if value := os.Getenv(varName); value != "" {
			return value
		}

		return defaultValue
	})
}
