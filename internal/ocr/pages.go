package ocr

import (
	"fmt"
	"os"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
)

// pdfcpu would otherwise create a config directory under the user's
// config dir on first use.
var disablePDFCPUConfig sync.Once

// CountPages returns the page count of the PDF at path using pdfcpu.
func CountPages(path string) (int, error) {
	disablePDFCPUConfig.Do(api.DisableConfigDir)

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("failed to open PDF %s: %w", path, err)
	}
	defer f.Close()

	n, err := api.PageCount(f, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to get page count for %s: %w", path, err)
	}
	return n, nil
}
