package sessions

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordSchema(t *testing.T) {
	data, err := RecordSchemaJSON()
	require.NoError(t, err)

	var doc map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &doc))

	assert.Equal(t, "object", doc["type"])
	assert.NotContains(t, doc, "required")

	props, ok := doc["properties"].(map[string]interface{})
	require.True(t, ok, "schema should list properties")
	assert.ElementsMatch(t, []string{"pid", "startedAt", "sessionId", "cwd", "role"}, keys(props))

	pid := props["pid"].(map[string]interface{})
	assert.Equal(t, "integer", pid["type"])
}

func TestValidator(t *testing.T) {
	v, err := NewValidator()
	require.NoError(t, err)

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"full record", `{"pid": 1, "startedAt": "2025-03-01T12:00:00Z", "sessionId": "x", "cwd": "/", "role": "worker"}`, false},
		{"empty object", `{}`, false},
		{"extra field", `{"pid": 1, "host": "box"}`, false},
		{"not json", `{`, true},
		{"array", `[1]`, true},
		{"string pid", `{"pid": "1"}`, true},
		{"fractional pid", `{"pid": 1.25}`, true},
		{"numeric role", `{"role": 3}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func keys(m map[string]interface{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
