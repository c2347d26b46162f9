package config

import (
	"errors"

	"github.com/invopop/jsonschema"
)

var ErrGeneratedSchemaIsNil = errors.New("generated gateway config schema is nil")

// JSONSchema reflects the morrigan Config struct into a JSON Schema
// document, used by the json-schema subcommand for config file editing
// support.
func JSONSchema() ([]byte, error) {
	schema := jsonschema.Reflect(&Config{})
	if schema == nil {
		return nil, ErrGeneratedSchemaIsNil
	}

	return schema.MarshalJSON()
}
