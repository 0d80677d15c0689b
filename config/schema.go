package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// durationPattern matches time.ParseDuration input such as "4h" or "90m".
const durationPattern = `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$`

// NewReflector returns the reflector used for every config schema: YAML
// field names, nested structs inlined, nothing required.
func NewReflector() *jsonschema.Reflector {
	return &jsonschema.Reflector{
		// Unknown keys inside a known section are typos.
		AllowAdditionalProperties:  false,
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		FieldNameTag:               "yaml",
	}
}

// GenerateSchema generates the JSON Schema for the core slimductor
// configuration. It covers the registry section only; extension sections
// such as logging are added during composition.
func GenerateSchema() ([]byte, error) {
	type BaseConfig struct {
		Registry RegistryConfig `yaml:"registry,omitempty" jsonschema:"description=Session registry settings"`
	}

	schema := NewReflector().Reflect(&BaseConfig{})
	schema.Title = "Slimductor Core Configuration"
	schema.Description = "Base schema for core slimductor.yml properties."

	return json.MarshalIndent(schema, "", "  ")
}

// JSONSchemaExtend describes stale_after the way it is written in files.
func (RegistryConfig) JSONSchemaExtend(s *jsonschema.Schema) {
	if s.Properties == nil {
		return
	}
	if prop, ok := s.Properties.Get("stale_after"); ok && prop != nil {
		prop.Type = "string"
		prop.Pattern = durationPattern
	}
}
