// Package process runs external tools and captures their results as data.
//
// A non-zero exit is never reported as a Go error: the caller gets an
// Outcome and decides what the exit code means. This keeps tool failures
// (including a missing binary) from aborting the surrounding work.
package process

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"os/exec"
	"strings"
)

const (
	// ExitNotFound is reported when the executable cannot be located or started.
	ExitNotFound = 127

	// ExitAborted is reported when the process was killed by a signal or
	// never started because the context was already done.
	ExitAborted = -1
)

// Outcome is the captured result of one process invocation.
type Outcome struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Success reports whether the process exited with code 0.
func (o Outcome) Success() bool {
	return o.ExitCode == 0
}

// Runner executes an argument vector and waits for it to exit.
// argv[0] is the executable; the rest are passed verbatim.
type Runner interface {
	Run(ctx context.Context, argv []string) Outcome
}

// ExecRunner runs commands with os/exec. No timeout is applied.
type ExecRunner struct{}

// NewExecRunner returns the production runner.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

// Run executes argv and captures stdout and stderr as text.
func (r *ExecRunner) Run(ctx context.Context, argv []string) Outcome {
	if len(argv) == 0 {
		return Outcome{ExitCode: ExitNotFound, Stderr: "empty command"}
	}
	if err := ctx.Err(); err != nil {
		return Outcome{ExitCode: ExitAborted, Stderr: err.Error()}
	}

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	outcome := Outcome{
		Stdout: toText(stdout.Bytes()),
		Stderr: toText(stderr.Bytes()),
	}
	if err == nil {
		return outcome
	}

	var (
		exitErr *exec.ExitError
		execErr *exec.Error
		pathErr *fs.PathError
	)
	switch {
	case errors.As(err, &exitErr):
		outcome.ExitCode = exitErr.ExitCode()
	case errors.As(err, &execErr), errors.As(err, &pathErr):
		// The binary could not be located or started.
		outcome.ExitCode = ExitNotFound
		outcome.Stderr = appendLine(outcome.Stderr, err.Error())
	default:
		outcome.ExitCode = ExitAborted
		outcome.Stderr = appendLine(outcome.Stderr, err.Error())
	}
	return outcome
}

func toText(b []byte) string {
	return strings.ToValidUTF8(string(b), "\uFFFD")
}

func appendLine(s, line string) string {
	if s == "" {
		return line
	}
	if !strings.HasSuffix(s, "\n") {
		s += "\n"
	}
	return s + line
}

// Verify interface compliance
var _ Runner = (*ExecRunner)(nil)
