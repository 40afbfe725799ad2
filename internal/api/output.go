// Package api renders command results as structured documents.
package api

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// OutputFormat defines the output format for CLI commands.
type OutputFormat string

const (
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
)

// DefaultOutput is the default output format.
const DefaultOutput = OutputFormatJSON

// ParseOutputFormat converts a flag or config value to an OutputFormat.
func ParseOutputFormat(format string) (OutputFormat, error) {
	switch format {
	case "", "json":
		return OutputFormatJSON, nil
	case "yaml":
		return OutputFormatYAML, nil
	default:
		return "", fmt.Errorf("unknown output format: %s", format)
	}
}

// OutputTo writes data to the given writer in the specified format.
func OutputTo(w io.Writer, format OutputFormat, data any) error {
	switch format {
	case OutputFormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(data)
	case OutputFormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(data)
	default:
		return fmt.Errorf("unknown output format: %s", format)
	}
}

// OutputLine writes data as a single compact JSON line, for streams of
// results.
func OutputLine(w io.Writer, data any) error {
	return json.NewEncoder(w).Encode(data)
}

// ErrorDocument is printed instead of a result when a command cannot run.
type ErrorDocument struct {
	Error             string   `json:"error" yaml:"error"`
	Kind              string   `json:"kind" yaml:"kind"`
	Input             string   `json:"input,omitempty" yaml:"input,omitempty"`
	Profile           string   `json:"profile,omitempty" yaml:"profile,omitempty"`
	AvailableProfiles []string `json:"available_profiles,omitempty" yaml:"available_profiles,omitempty"`
}

// Error kinds used in ErrorDocument.
const (
	KindConfig         = "config_error"
	KindUnknownProfile = "unknown_profile"
	KindMissingInput   = "missing_input"
	KindInternal       = "internal_error"
	KindUsage          = "usage_error"
)
