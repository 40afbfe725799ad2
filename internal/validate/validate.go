// Package validate inspects a finished PDF with pdfinfo and pdftotext.
package validate

import (
	"context"
	"log/slog"
	"slices"

	"github.com/jackzampolin/ocrctl/internal/process"
)

// MaxPreview bounds the characters kept from each output stream.
const MaxPreview = 4096

// Tool names used as keys in a Result.
const (
	ToolInfo = "pdfinfo"
	ToolText = "pdftotext"
)

// CommandOutcome is the captured result of one inspection command.
type CommandOutcome struct {
	Command    []string `json:"command" yaml:"command"`
	ReturnCode int      `json:"returncode" yaml:"returncode"`
	Stdout     string   `json:"stdout" yaml:"stdout"`
	Stderr     string   `json:"stderr" yaml:"stderr"`
}

// Result maps inspection tool name to its outcome.
type Result map[string]CommandOutcome

// OK reports whether every inspection command exited with 0.
func (r Result) OK() bool {
	for _, o := range r {
		if o.ReturnCode != 0 {
			return false
		}
	}
	return true
}

// Config configures a Validator.
type Config struct {
	InfoTool string // default "pdfinfo"
	TextTool string // default "pdftotext"
	Runner   process.Runner
	Logger   *slog.Logger
}

// Validator runs the two inspection commands.
type Validator struct {
	infoTool string
	textTool string
	runner   process.Runner
	logger   *slog.Logger
}

// New creates a Validator.
func New(cfg Config) *Validator {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	runner := cfg.Runner
	if runner == nil {
		runner = process.NewExecRunner()
	}
	infoTool := cfg.InfoTool
	if infoTool == "" {
		infoTool = ToolInfo
	}
	textTool := cfg.TextTool
	if textTool == "" {
		textTool = ToolText
	}
	return &Validator{
		infoTool: infoTool,
		textTool: textTool,
		runner:   runner,
		logger:   logger,
	}
}

// Validate runs both inspection commands against pdfPath, one after the
// other. A failing command does not skip the other; failures are reported
// through ReturnCode only.
func (v *Validator) Validate(ctx context.Context, pdfPath string) Result {
	commands := []struct {
		name string
		argv []string
	}{
		{ToolInfo, []string{v.infoTool, pdfPath}},
		{ToolText, []string{v.textTool, "-q", pdfPath, "-"}},
	}

	result := make(Result, len(commands))
	for _, c := range commands {
		outcome := v.runner.Run(ctx, c.argv)
		result[c.name] = CommandOutcome{
			Command:    slices.Clone(c.argv),
			ReturnCode: outcome.ExitCode,
			Stdout:     Preview(outcome.Stdout),
			Stderr:     Preview(outcome.Stderr),
		}

		level := slog.LevelInfo
		if !outcome.Success() {
			level = slog.LevelError
		}
		v.logger.Log(ctx, level, "validation command completed",
			"tool", c.name, "pdf", pdfPath, "returncode", outcome.ExitCode)
	}
	return result
}

// Preview truncates s to at most MaxPreview characters.
func Preview(s string) string {
	return truncate(s, MaxPreview)
}

func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	n := 0
	for i := range s {
		if n == limit {
			return s[:i]
		}
		n++
	}
	return s
}
