// Package batch drives OCR jobs over every PDF in a directory and
// aggregates the results.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jackzampolin/ocrctl/internal/ocr"
	"github.com/jackzampolin/ocrctl/internal/profiles"
	"github.com/jackzampolin/ocrctl/internal/validate"
)

// ErrNoValidator is returned when validation is requested but the
// coordinator was built without a validator.
var ErrNoValidator = errors.New("validation requested but no validator configured")

// JobRunner runs one OCR job. *ocr.Executor implements it.
type JobRunner interface {
	Run(ctx context.Context, input, output string, profile profiles.Profile, extraArgs []string) ocr.Result
}

// PDFValidator inspects a finished PDF. *validate.Validator implements it.
type PDFValidator interface {
	Validate(ctx context.Context, pdfPath string) validate.Result
}

// Request describes one batch run.
type Request struct {
	InputDir  string
	OutputDir string
	Profile   profiles.Profile
	ExtraArgs []string
	Validate  bool
}

// Summary aggregates a batch run. Succeeded and Failed are computed from
// Results once every item has finished.
type Summary struct {
	RunID     string       `json:"run_id" yaml:"run_id"`
	Profile   string       `json:"profile" yaml:"profile"`
	InputDir  string       `json:"input_dir" yaml:"input_dir"`
	OutputDir string       `json:"output_dir" yaml:"output_dir"`
	Results   []ocr.Result `json:"results" yaml:"results"`
	Succeeded int          `json:"succeeded" yaml:"succeeded"`
	Failed    int          `json:"failed" yaml:"failed"`
}

// OK reports whether every job exited with 0. An empty batch is OK.
func (s *Summary) OK() bool {
	return s.Failed == 0
}

// Config configures a Coordinator.
type Config struct {
	Jobs      JobRunner
	Validator PDFValidator // required only when a request sets Validate
	Logger    *slog.Logger
	Workers   int // concurrent jobs, default 1
}

// Coordinator runs batches.
type Coordinator struct {
	jobs      JobRunner
	validator PDFValidator
	logger    *slog.Logger
	workers   int
}

// NewCoordinator creates a Coordinator.
func NewCoordinator(cfg Config) *Coordinator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	return &Coordinator{
		jobs:      cfg.Jobs,
		validator: cfg.Validator,
		logger:    logger,
		workers:   workers,
	}
}

// Run processes every PDF directly under req.InputDir. A missing input
// directory is logged and produces an empty summary. Per-item failures are
// recorded in the results and never stop the batch; the returned error is
// reserved for problems with the output directory or reading the input
// directory.
func (c *Coordinator) Run(ctx context.Context, req Request) (*Summary, error) {
	if req.Validate && c.validator == nil {
		return nil, ErrNoValidator
	}

	runID := uuid.New().String()
	logger := c.logger.With("run_id", runID, "profile", req.Profile.Name)

	if err := os.MkdirAll(req.OutputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	inputs, err := c.discover(logger, req.InputDir)
	if err != nil {
		return nil, err
	}
	logger.Debug("discovered inputs", "input_dir", req.InputDir, "count", len(inputs), "workers", c.workers)

	results := make([]ocr.Result, len(inputs))
	var g errgroup.Group
	g.SetLimit(c.workers)
	for i, input := range inputs {
		i, input := i, input
		g.Go(func() error {
			results[i] = c.process(ctx, input, req)
			return nil
		})
	}
	_ = g.Wait()

	summary := &Summary{
		RunID:     runID,
		Profile:   req.Profile.Name,
		InputDir:  req.InputDir,
		OutputDir: req.OutputDir,
		Results:   results,
	}
	for _, r := range results {
		if r.Succeeded() {
			summary.Succeeded++
		} else {
			summary.Failed++
		}
	}

	logger.Info("batch finished",
		"input_dir", req.InputDir,
		"succeeded", summary.Succeeded,
		"failed", summary.Failed,
	)
	return summary, nil
}

func (c *Coordinator) discover(logger *slog.Logger, dir string) ([]string, error) {
	inputs, err := DiscoverPDFs(dir)
	if errors.Is(err, os.ErrNotExist) {
		logger.Warn("input directory does not exist", "input_dir", dir)
		return nil, nil
	}
	return inputs, err
}

// process runs one job and, when requested and successful, validates its
// output.
func (c *Coordinator) process(ctx context.Context, input string, req Request) ocr.Result {
	output := filepath.Join(req.OutputDir, filepath.Base(input))
	result := c.jobs.Run(ctx, input, output, req.Profile, req.ExtraArgs)
	if req.Validate && result.Succeeded() {
		result.Validation = c.validator.Validate(ctx, output)
	}
	return result
}
