package ocr

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// OutputSuffix replaces the input's extension when no output path is given.
const OutputSuffix = ".ocr.pdf"

// ErrMissingInput is returned when a job's input path does not exist.
var ErrMissingInput = errors.New("input file does not exist")

// DefaultOutputPath derives "<dir>/<stem>.ocr.pdf" from input.
func DefaultOutputPath(input string) string {
	base := filepath.Base(input)
	ext := filepath.Ext(base)
	if ext == base {
		// Dotfiles such as ".scan" have no extension to replace.
		ext = ""
	}
	return strings.TrimSuffix(input, ext) + OutputSuffix
}

// CheckInput reports ErrMissingInput when path does not exist.
func CheckInput(path string) error {
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrMissingInput, path)
		}
		return fmt.Errorf("failed to stat input: %w", err)
	}
	return nil
}
