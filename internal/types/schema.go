package types

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates a JSON schema for the dashboard state, used by
// front ends to validate and auto-build the control form.
func (s *AppState) GenerateSchema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		RequiredFromJSONSchemaTags: true,
		ExpandedStruct:             true,
		AllowAdditionalProperties:  false,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if strings.Contains(t.String(), "decimal.Decimal") {
				return &jsonschema.Schema{
					Type: "number",
				}
			}

			return nil
		},
	}

	schema := reflector.Reflect(s)

	schema.Title = "dashboard-state"
	schema.Description = "State snapshot driving one dashboard render"
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return schema
}

// GenerateSchemaJSON generates the JSON schema as an indented string.
func (s *AppState) GenerateSchemaJSON() (string, error) {
	schemaBytes, err := json.MarshalIndent(s.GenerateSchema(), "", "  ")
	if err != nil {
		return "", err
	}

	return string(schemaBytes), nil
}
