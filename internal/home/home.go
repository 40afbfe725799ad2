package home

import (
	"fmt"
	"os"
	"path/filepath"
)

const (
	// DefaultDirName is the default name for the ocrctl home directory.
	DefaultDirName = ".ocrctl"

	// ConfigFileName is the default config file name.
	ConfigFileName = "config.yaml"

	// ProfilesFileName is the profile document kept next to the config.
	ProfilesFileName = "ocr_profiles.yaml"
)

// Dir represents the ocrctl home directory.
type Dir struct {
	path string
}

// New creates a new Dir with the given path.
// If path is empty, uses the default (~/.ocrctl).
func New(path string) (*Dir, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		path = filepath.Join(home, DefaultDirName)
	}

	return &Dir{path: path}, nil
}

// Path returns the root path of the home directory.
func (d *Dir) Path() string {
	return d.path
}

// ConfigPath returns the path to the default config file.
func (d *Dir) ConfigPath() string {
	return filepath.Join(d.path, ConfigFileName)
}

// ProfilesPath returns the path to the profile document in the home directory.
func (d *Dir) ProfilesPath() string {
	return filepath.Join(d.path, ProfilesFileName)
}

// EnsureExists creates the home directory if it doesn't exist.
func (d *Dir) EnsureExists() error {
	if err := os.MkdirAll(d.path, 0o755); err != nil {
		return fmt.Errorf("failed to create home directory: %w", err)
	}
	return nil
}

// ConfigExists returns true if the config file exists in the home directory.
func (d *Dir) ConfigExists() bool {
	_, err := os.Stat(d.ConfigPath())
	return err == nil
}

// ProfilesExist returns true if the profile document exists in the home directory.
func (d *Dir) ProfilesExist() bool {
	_, err := os.Stat(d.ProfilesPath())
	return err == nil
}
