// Package profiles loads named OCR engine configurations from a YAML
// document.
//
// The document is parsed into a loosely typed tree, checked against a
// JSON schema, and only then turned into immutable Profile values. Code
// past Load never sees malformed input.
package profiles

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"sort"

	"gopkg.in/yaml.v3"
)

// Document keys recognised inside a profile entry.
const (
	KeyDescription = "description"
	KeyEngineArgs  = "ocrmypdf_args"
	KeyEngineAlias = "engineArgs"
)

// Profile is a named, reusable set of engine arguments.
type Profile struct {
	Name        string
	Description string
	engineArgs  []string
}

// New creates a Profile. args is copied.
func New(name, description string, args []string) Profile {
	return Profile{Name: name, Description: description, engineArgs: slices.Clone(args)}
}

// EngineArgs returns the ordered arguments passed to the OCR engine.
// The returned slice is a copy.
func (p Profile) EngineArgs() []string {
	return slices.Clone(p.engineArgs)
}

// Store is the immutable name -> Profile mapping for one invocation.
type Store struct {
	source   string
	profiles map[string]Profile
}

// Load reads and validates the profile document at path.
func Load(path string) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &ConfigError{Path: path, Reason: "cannot read profile document", Err: err}
	}
	store, err := Parse(data)
	if err != nil {
		var cerr *ConfigError
		if errors.As(err, &cerr) {
			cerr.Path = path
		}
		return nil, err
	}
	store.source = path
	return store, nil
}

// Parse builds a Store from an in-memory YAML document.
func Parse(data []byte) (*Store, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, &ConfigError{Reason: "not valid YAML", Err: err}
	}

	tree := looseTree(&root)
	if isEmptyTree(tree) {
		// An empty document, or an empty sequence or mapping at the root,
		// declares no profiles.
		return &Store{profiles: map[string]Profile{}}, nil
	}
	if cerr := checkTree(tree); cerr != nil {
		return nil, cerr
	}

	entries, ok := tree.(map[string]any)
	if !ok {
		return nil, &ConfigError{Reason: "profile configuration must be a mapping of profile names"}
	}

	profiles := make(map[string]Profile, len(entries))
	for name, raw := range entries {
		p, err := buildProfile(name, raw)
		if err != nil {
			return nil, err
		}
		profiles[name] = p
	}
	return &Store{profiles: profiles}, nil
}

func buildProfile(name string, raw any) (Profile, error) {
	entry, ok := raw.(map[string]any)
	if !ok {
		return Profile{}, &ConfigError{Profile: name, Reason: "must be a mapping"}
	}

	description, _ := entry[KeyDescription].(string)

	rawArgs, present := entry[KeyEngineArgs]
	if !present {
		rawArgs, present = entry[KeyEngineAlias]
	}
	var args []string
	if present {
		seq, ok := rawArgs.([]any)
		if !ok {
			return Profile{}, &ConfigError{
				Profile: name,
				Reason:  fmt.Sprintf("must define '%s' as a sequence of scalar values", KeyEngineArgs),
			}
		}
		args = make([]string, 0, len(seq))
		for _, item := range seq {
			s, ok := item.(string)
			if !ok {
				return Profile{}, &ConfigError{
					Profile: name,
					Reason:  fmt.Sprintf("must define '%s' as a sequence of scalar values", KeyEngineArgs),
				}
			}
			args = append(args, s)
		}
	}
	return Profile{Name: name, Description: description, engineArgs: args}, nil
}

func isEmptyTree(tree any) bool {
	switch t := tree.(type) {
	case nil:
		return true
	case []any:
		return len(t) == 0
	case map[string]any:
		return len(t) == 0
	}
	return false
}

// looseTree converts a YAML node into maps, slices and string scalars.
// Scalars keep their literal text so `- 1` becomes "1". Null is nil.
func looseTree(n *yaml.Node) any {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil
		}
		return looseTree(n.Content[0])
	case yaml.MappingNode:
		m := make(map[string]any, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			m[n.Content[i].Value] = looseTree(n.Content[i+1])
		}
		return m
	case yaml.SequenceNode:
		s := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			s = append(s, looseTree(c))
		}
		return s
	case yaml.AliasNode:
		if n.Alias == nil {
			return nil
		}
		return looseTree(n.Alias)
	case yaml.ScalarNode:
		if n.ShortTag() == "!!null" {
			return nil
		}
		return n.Value
	default:
		return nil
	}
}

// Source returns the document path the store was loaded from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of declared profiles.
func (s *Store) Len() int {
	return len(s.profiles)
}

// Names returns every declared profile name, sorted.
func (s *Store) Names() []string {
	names := make([]string, 0, len(s.profiles))
	for name := range s.profiles {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All returns every profile ordered by name.
func (s *Store) All() []Profile {
	out := make([]Profile, 0, len(s.profiles))
	for _, name := range s.Names() {
		out = append(out, s.profiles[name])
	}
	return out
}

// Resolve returns the named profile or an *UnknownProfileError listing the
// declared names.
func (s *Store) Resolve(name string) (Profile, error) {
	p, ok := s.profiles[name]
	if !ok {
		return Profile{}, &UnknownProfileError{Name: name, Available: s.Names()}
	}
	return p, nil
}
