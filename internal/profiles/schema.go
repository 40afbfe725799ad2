package profiles

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// documentSchema describes the loosely typed tree built from the YAML
// document. Scalars are kept as strings, so "array of string" means a
// sequence of scalar values.
const documentSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "additionalProperties": {
    "type": "object",
    "properties": {
      "description": {"type": ["string", "null"]},
      "ocrmypdf_args": {"type": "array", "items": {"type": "string"}},
      "engineArgs": {"type": "array", "items": {"type": "string"}}
    },
    "additionalProperties": false,
    "not": {"type": "object", "required": ["ocrmypdf_args", "engineArgs"]}
  }
}`

const schemaURL = "ocr_profiles.schema.json"

var compileSchema = sync.OnceValues(func() (*jsonschema.Schema, error) {
	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, strings.NewReader(documentSchema)); err != nil {
		return nil, fmt.Errorf("failed to load profile schema: %w", err)
	}
	schema, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("failed to compile profile schema: %w", err)
	}
	return schema, nil
})

// checkTree validates the loose tree against documentSchema and turns the
// first violation into a ConfigError.
func checkTree(tree any) *ConfigError {
	schema, err := compileSchema()
	if err != nil {
		return &ConfigError{Reason: "schema unavailable", Err: err}
	}

	err = schema.Validate(tree)
	if err == nil {
		return nil
	}

	var verr *jsonschema.ValidationError
	if !errors.As(err, &verr) {
		return &ConfigError{Err: err}
	}
	return describeViolation(leafCause(verr))
}

// leafCause descends to the most specific violation.
func leafCause(verr *jsonschema.ValidationError) *jsonschema.ValidationError {
	for len(verr.Causes) > 0 {
		verr = verr.Causes[0]
	}
	return verr
}

func describeViolation(verr *jsonschema.ValidationError) *ConfigError {
	segments := pointerSegments(verr.InstanceLocation)
	switch {
	case len(segments) == 0:
		return &ConfigError{Reason: "profile configuration must be a mapping of profile names"}
	case len(segments) == 1 && strings.HasSuffix(verr.KeywordLocation, "/not"):
		return &ConfigError{
			Profile: segments[0],
			Reason:  fmt.Sprintf("declare either '%s' or '%s', not both", KeyEngineArgs, KeyEngineAlias),
		}
	case len(segments) == 1 && strings.HasSuffix(verr.KeywordLocation, "/additionalProperties"):
		return &ConfigError{
			Profile: segments[0],
			Reason: fmt.Sprintf("unsupported key (%s); allowed keys are '%s', '%s' and '%s'",
				verr.Message, KeyDescription, KeyEngineArgs, KeyEngineAlias),
		}
	case len(segments) == 1:
		return &ConfigError{Profile: segments[0], Reason: "must be a mapping"}
	case segments[1] == "description":
		return &ConfigError{Profile: segments[0], Reason: "'description' must be a string"}
	default:
		return &ConfigError{
			Profile: segments[0],
			Reason:  fmt.Sprintf("must define '%s' as a sequence of scalar values", segments[1]),
		}
	}
}

// pointerSegments splits a JSON pointer such as "/balanced/ocrmypdf_args/0".
func pointerSegments(ptr string) []string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return nil
	}
	parts := strings.Split(ptr, "/")
	for i, p := range parts {
		p = strings.ReplaceAll(p, "~1", "/")
		parts[i] = strings.ReplaceAll(p, "~0", "~")
	}
	return parts
}
