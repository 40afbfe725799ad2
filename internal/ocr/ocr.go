// Package ocr runs the external OCR engine for one input/output pair.
package ocr

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jackzampolin/ocrctl/internal/process"
	"github.com/jackzampolin/ocrctl/internal/profiles"
	"github.com/jackzampolin/ocrctl/internal/validate"
)

// DefaultEngine is the engine invoked when none is configured.
const DefaultEngine = "ocrmypdf"

// Result describes one OCR attempt. It is built once and not mutated
// afterwards, except that the batch coordinator attaches Validation.
type Result struct {
	Input      string          `json:"input" yaml:"input"`
	Output     string          `json:"output" yaml:"output"`
	Profile    string          `json:"profile" yaml:"profile"`
	ReturnCode int             `json:"returncode" yaml:"returncode"`
	Pages      int             `json:"pages,omitempty" yaml:"pages,omitempty"`
	Stdout     string          `json:"stdout,omitempty" yaml:"stdout,omitempty"`
	Stderr     string          `json:"stderr,omitempty" yaml:"stderr,omitempty"`
	Validation validate.Result `json:"validation,omitempty" yaml:"validation,omitempty"`
}

// Succeeded reports whether the engine exited with 0.
func (r Result) Succeeded() bool {
	return r.ReturnCode == 0
}

// PageCounter reports the number of pages in a PDF.
type PageCounter func(path string) (int, error)

// Config configures an Executor.
type Config struct {
	Engine      string // default "ocrmypdf"
	Runner      process.Runner
	Logger      *slog.Logger
	PageCounter PageCounter // default CountPages; set to a stub in tests
}

// Executor invokes the OCR engine.
type Executor struct {
	engine      string
	runner      process.Runner
	logger      *slog.Logger
	pageCounter PageCounter
}

// NewExecutor creates an Executor.
func NewExecutor(cfg Config) *Executor {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = process.NewExecRunner()
	}
	engine := cfg.Engine
	if engine == "" {
		engine = DefaultEngine
	}
	counter := cfg.PageCounter
	if counter == nil {
		counter = CountPages
	}
	return &Executor{
		engine:      engine,
		runner:      runner,
		logger:      logger,
		pageCounter: counter,
	}
}

// Command builds the engine argument vector:
// engine, profile args, extra args, input, output.
func (e *Executor) Command(input, output string, profile profiles.Profile, extraArgs []string) []string {
	profileArgs := profile.EngineArgs()
	argv := make([]string, 0, len(profileArgs)+len(extraArgs)+3)
	argv = append(argv, e.engine)
	argv = append(argv, profileArgs...)
	argv = append(argv, extraArgs...)
	return append(argv, input, output)
}

// Run executes the engine synchronously and captures the outcome. A
// non-zero exit is returned as data in ReturnCode.
func (e *Executor) Run(ctx context.Context, input, output string, profile profiles.Profile, extraArgs []string) Result {
	argv := e.Command(input, output, profile, extraArgs)

	result := Result{
		Input:   input,
		Output:  output,
		Profile: profile.Name,
	}

	if pages, err := e.pageCounter(input); err != nil {
		e.logger.Debug("page count unavailable", "input", input, "error", err)
	} else {
		result.Pages = pages
	}

	e.logger.Info("running ocr engine",
		"input", input,
		"output", output,
		"profile", profile.Name,
		"command", slices.Clone(argv),
	)

	outcome := e.runner.Run(ctx, argv)
	result.ReturnCode = outcome.ExitCode
	result.Stdout = outcome.Stdout
	result.Stderr = outcome.Stderr

	if outcome.Success() {
		e.logger.Info("ocr engine succeeded", "input", input, "output", output)
	} else {
		e.logger.Error("ocr engine failed",
			"input", input,
			"output", output,
			"returncode", outcome.ExitCode,
		)
	}
	return result
}
