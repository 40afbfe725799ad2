package profiles

import (
	"fmt"
	"strings"
)

// ConfigError reports a malformed profile document. It is fatal: no job
// runs when the document cannot be loaded.
type ConfigError struct {
	Path    string // document path, empty when parsed from memory
	Profile string // offending profile, empty for document-level problems
	Reason  string
	Err     error
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid profile configuration")
	if e.Path != "" {
		fmt.Fprintf(&b, " %s", e.Path)
	}
	if e.Profile != "" {
		fmt.Fprintf(&b, ": profile '%s'", e.Profile)
	}
	if e.Reason != "" {
		fmt.Fprintf(&b, ": %s", e.Reason)
	}
	if e.Err != nil {
		fmt.Fprintf(&b, ": %v", e.Err)
	}
	return b.String()
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}

// UnknownProfileError is returned by Resolve when the requested name is
// not declared. Available is sorted.
type UnknownProfileError struct {
	Name      string
	Available []string
}

func (e *UnknownProfileError) Error() string {
	return fmt.Sprintf("Unknown profile '%s'. Available profiles: %s", e.Name, strings.Join(e.Available, ", "))
}
