package config

import (
	"fmt"
	"strings"

	"github.com/lifeisriding/slimductor/errors"
)

// maxHopsLimit keeps a misconfigured walk from scanning the whole table.
const maxHopsLimit = 64

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	r := c.Registry

	if r.ActiveDir == "" {
		return errors.ConfigInvalid("registry.active_dir could not be resolved")
	}
	if r.StaleAfter <= 0 {
		return errors.ConfigInvalid(fmt.Sprintf("registry.stale_after must be positive, got %s", r.StaleAfter)).
			WithDetail("stale_after", r.StaleAfter.String())
	}
	if r.MaxHops < 1 || r.MaxHops > maxHopsLimit {
		return errors.ConfigInvalid(fmt.Sprintf("registry.max_hops must be between 1 and %d, got %d", maxHopsLimit, r.MaxHops)).
			WithDetail("max_hops", r.MaxHops)
	}
	if strings.ContainsAny(r.SessionEnv, "= \t") {
		return errors.ConfigInvalid(fmt.Sprintf("registry.session_env is not a valid variable name: %q", r.SessionEnv))
	}
	for _, name := range append(append([]string{}, r.HostNames...), r.SkipNames...) {
		if strings.TrimSpace(name) == "" {
			return errors.ConfigInvalid("registry.host_names and registry.skip_names must not contain empty names")
		}
	}

	return nil
}
