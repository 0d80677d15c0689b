// Package schema composes the JSON Schema of the slimductor config file
// and validates config files against it.
package schema

import (
	"encoding/json"
	"fmt"

	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/logging"
)

// ExtensionConfigs maps extension section keys to the Go types decoded
// from them with Config.UnmarshalExtension.
var ExtensionConfigs = map[string]interface{}{
	"logging": &logging.Config{},
}

// ComposeConfigSchema returns the schema of a full config file: the core
// registry section plus every known extension section. Unknown top-level
// sections stay allowed.
func ComposeConfigSchema() (map[string]interface{}, error) {
	baseBytes, err := config.GenerateSchema()
	if err != nil {
		return nil, fmt.Errorf("could not generate base schema: %w", err)
	}

	var schema map[string]interface{}
	if err := json.Unmarshal(baseBytes, &schema); err != nil {
		return nil, fmt.Errorf("could not parse base schema: %w", err)
	}

	if _, ok := schema["properties"]; !ok {
		schema["properties"] = make(map[string]interface{})
	}
	properties := schema["properties"].(map[string]interface{})

	for key, target := range ExtensionConfigs {
		ext := config.NewReflector().Reflect(target)
		data, err := json.Marshal(ext)
		if err != nil {
			return nil, fmt.Errorf("could not marshal %s schema: %w", key, err)
		}
		var extSchema map[string]interface{}
		if err := json.Unmarshal(data, &extSchema); err != nil {
			return nil, fmt.Errorf("could not parse %s schema: %w", key, err)
		}
		// Only the root document may declare a dialect.
		delete(extSchema, "$schema")
		delete(extSchema, "$id")
		properties[key] = extSchema
	}

	schema["additionalProperties"] = true
	schema["title"] = "Slimductor Configuration Schema"
	schema["description"] = "Schema for slimductor.yml and slimductor.toml."

	return schema, nil
}

// ConfigSchemaJSON returns the composed schema as indented JSON.
func ConfigSchemaJSON() ([]byte, error) {
	schema, err := ComposeConfigSchema()
	if err != nil {
		return nil, err
	}
	return json.MarshalIndent(schema, "", "  ")
}
