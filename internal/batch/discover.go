package batch

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// PDFExtension is the only extension picked up by discovery.
const PDFExtension = ".pdf"

// IsPDFName reports whether a file name qualifies for processing. The
// suffix match is case-sensitive and hidden files are included.
func IsPDFName(name string) bool {
	return strings.HasSuffix(name, PDFExtension)
}

// DiscoverPDFs lists the PDF files directly under dir, sorted by file name.
// Symlinks are followed; only entries resolving to regular files are kept.
// A missing dir yields an error wrapping os.ErrNotExist.
func DiscoverPDFs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read input directory: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if !IsPDFName(entry.Name()) {
			continue
		}
		info, err := os.Stat(filepath.Join(dir, entry.Name()))
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	paths := make([]string, len(names))
	for i, name := range names {
		paths[i] = filepath.Join(dir, name)
	}
	return paths, nil
}
