package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jackzampolin/ocrctl/internal/ocr"
)

// DefaultSettle is how long a new file must stay untouched before it is
// picked up.
const DefaultSettle = 2 * time.Second

// ErrSameDirectory is returned when watch mode would write its outputs
// into the directory it watches.
var ErrSameDirectory = errors.New("input and output directories must differ")

// WatchRequest describes a watch session.
type WatchRequest struct {
	Request
	// Settle is the quiet period required after the last write to a file.
	Settle time.Duration
	// Initial processes the PDFs already present before watching.
	Initial bool
}

// Watch processes PDFs as they appear in req.InputDir until ctx is done.
// Every finished job is passed to emit, in completion order. Jobs run one
// at a time.
func (c *Coordinator) Watch(ctx context.Context, req WatchRequest, emit func(ocr.Result)) error {
	if req.Validate && c.validator == nil {
		return ErrNoValidator
	}
	if err := checkWatchDirs(req.InputDir, req.OutputDir); err != nil {
		return err
	}
	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	settle := req.Settle
	if settle <= 0 {
		settle = DefaultSettle
	}
	logger := c.logger.With("input_dir", req.InputDir, "profile", req.Profile.Name)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()
	if err := watcher.Add(req.InputDir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", req.InputDir, err)
	}

	// processed remembers the modification time each file had when it was
	// last processed, so an unchanged file is not picked up twice.
	processed := make(map[string]time.Time)
	runOne := func(path string) {
		info, err := os.Stat(path)
		if err != nil || !info.Mode().IsRegular() {
			return
		}
		if last, ok := processed[path]; ok && last.Equal(info.ModTime()) {
			return
		}
		processed[path] = info.ModTime()
		emit(c.process(ctx, path, req.Request))
	}

	if req.Initial {
		existing, err := DiscoverPDFs(req.InputDir)
		if err != nil {
			return err
		}
		for _, path := range existing {
			if ctx.Err() != nil {
				return nil
			}
			runOne(path)
		}
	}

	logger.Info("watching for new PDFs", "settle", settle.String())

	pending := make(map[string]time.Time)
	tick := settle / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("watch stopped")
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name := filepath.Clean(ev.Name)
			if !IsPDFName(filepath.Base(name)) {
				continue
			}
			if ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) {
				pending[name] = time.Now()
			}
			if ev.Has(fsnotify.Remove) || ev.Has(fsnotify.Rename) {
				delete(pending, name)
				delete(processed, name)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, settle) {
				delete(pending, path)
				if ctx.Err() != nil {
					return nil
				}
				runOne(path)
			}
		}
	}
}

// settled returns the pending paths quiet for at least settle, sorted.
func settled(pending map[string]time.Time, now time.Time, settle time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= settle {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}

func checkWatchDirs(inputDir, outputDir string) error {
	info, err := os.Stat(inputDir)
	if err != nil {
		return fmt.Errorf("failed to stat input directory: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("input path %s is not a directory", inputDir)
	}

	in, err := filepath.Abs(inputDir)
	if err != nil {
		return err
	}
	out, err := filepath.Abs(outputDir)
	if err != nil {
		return err
	}
	if filepath.Clean(in) == filepath.Clean(out) {
		return fmt.Errorf("%w: %s", ErrSameDirectory, in)
	}
	return nil
}
