package sessions

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	validation "github.com/santhosh-tekuri/jsonschema/v5"
)

const schemaResource = "record.schema.json"

// RecordSchema reflects the JSON Schema of a record file body. Only types
// are constrained; no field is required and extra fields are allowed.
func RecordSchema() *jsonschema.Schema {
	r := &jsonschema.Reflector{
		AllowAdditionalProperties: true,
		ExpandedStruct:            true,
		Anonymous:                 true,
	}

	schema := r.Reflect(&Record{})
	schema.Title = "Slimductor Session Record"
	schema.Description = "One file per active host session in the active-sessions directory."

	// A record without a pid still parses and is evicted as dead.
	schema.Required = nil

	return schema
}

// RecordSchemaJSON returns the indented record schema.
func RecordSchemaJSON() ([]byte, error) {
	return json.MarshalIndent(RecordSchema(), "", "  ")
}

// Validator checks record file bodies against the record schema.
type Validator struct {
	schema *validation.Schema
}

// NewValidator compiles the record schema.
func NewValidator() (*Validator, error) {
	data, err := RecordSchemaJSON()
	if err != nil {
		return nil, fmt.Errorf("failed to marshal record schema: %w", err)
	}

	compiler := validation.NewCompiler()
	if err := compiler.AddResource(schemaResource, bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("failed to add record schema resource: %w", err)
	}

	schema, err := compiler.Compile(schemaResource)
	if err != nil {
		return nil, fmt.Errorf("failed to compile record schema: %w", err)
	}

	return &Validator{schema: schema}, nil
}

// Validate checks raw JSON against the schema.
func (v *Validator) Validate(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc interface{}
	if err := dec.Decode(&doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	if err := v.schema.Validate(doc); err != nil {
		if validationErr, ok := err.(*validation.ValidationError); ok {
			var messages []string
			collectErrors(validationErr, &messages)
			return fmt.Errorf("schema validation failed: %s", strings.Join(messages, "; "))
		}
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}

// collectErrors recursively collects all validation errors into a slice
func collectErrors(err *validation.ValidationError, messages *[]string) {
	if err.InstanceLocation != "" || len(err.Causes) == 0 {
		*messages = append(*messages, fmt.Sprintf("%s: %s", locationOrRoot(err.InstanceLocation), err.Message))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, messages)
	}
}

func locationOrRoot(loc string) string {
	if loc == "" {
		return "/"
	}
	return loc
}
