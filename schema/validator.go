package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lifeisriding/slimductor/config"
	"github.com/lifeisriding/slimductor/errors"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const configResource = "slimductor.schema.json"

// Validator validates configuration against the composed JSON Schema.
type Validator struct {
	schema *jsonschema.Schema
}

// NewValidator creates a new schema validator from the composed schema.
func NewValidator() (*Validator, error) {
	data, err := ConfigSchemaJSON()
	if err != nil {
		return nil, err
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(configResource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add config schema resource: %w", err)
	}

	schema, err := compiler.Compile(configResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile config schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate validates configuration data against the schema.
// It expects the configData to be any value that can be marshaled to JSON.
func (v *Validator) Validate(configData interface{}) error {
	// Round-trip through JSON so YAML and TOML values become plain JSON types.
	jsonData, err := json.Marshal(configData)
	if err != nil {
		return fmt.Errorf("failed to marshal config to JSON for validation: %w", err)
	}

	var dataToValidate interface{}
	if err := json.Unmarshal(jsonData, &dataToValidate); err != nil {
		return fmt.Errorf("failed to unmarshal JSON for validation: %w", err)
	}

	if err := v.schema.Validate(dataToValidate); err != nil {
		if validationErr, ok := err.(*jsonschema.ValidationError); ok {
			var errorMessages []string
			collectErrors(validationErr, &errorMessages)
			return errors.ConfigInvalid("schema validation failed").
				WithDetail("problems", errorMessages)
		}
		return errors.Wrap(err, errors.ErrCodeConfigInvalid, "schema validation failed")
	}

	return nil
}

// ValidateFile parses a YAML or TOML config file and validates it.
func (v *Validator) ValidateFile(path string) error {
	raw, err := config.LoadRaw(path)
	if err != nil {
		return err
	}
	return v.Validate(raw)
}

// Problems returns the individual validation messages of err, if any.
func Problems(err error) []string {
	se, ok := err.(*errors.SlimductorError)
	if !ok || se.Details == nil {
		return nil
	}
	problems, _ := se.Details["problems"].([]string)
	return problems
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *jsonschema.ValidationError, messages *[]string) {
	if len(err.Causes) == 0 {
		loc := err.InstanceLocation
		if loc == "" {
			loc = "/"
		}
		*messages = append(*messages, fmt.Sprintf("%s: %s", loc, strings.TrimSpace(err.Message)))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}
