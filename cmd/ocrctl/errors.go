package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/api"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
)

// Process exit codes.
const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

// exitError carries a process exit code out of a command. Output has
// already been written when it is returned.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// exitWith returns an exitError for a tool's own return code. Codes the
// operating system cannot represent become exitFailure.
func exitWith(returnCode int) error {
	if returnCode == 0 {
		return nil
	}
	if returnCode < 0 || returnCode > 255 {
		returnCode = exitFailure
	}
	return &exitError{code: returnCode}
}

// exitCode maps the error returned by the root command to a process exit code.
func exitCode(err error) int {
	if err == nil {
		return exitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return exitFailure
}

// fail prints doc as the command's result, logs it and returns an exitError.
func fail(cmd *cobra.Command, code int, doc api.ErrorDocument) error {
	logger := svcctx.LoggerFrom(cmd.Context())
	logger.Error(doc.Error, "kind", doc.Kind)

	if err := render(cmd, doc); err != nil {
		return err
	}
	return &exitError{code: code, err: errors.New(doc.Error)}
}

// writeError prints a usage or internal error document when no command
// context exists, for example after a flag parsing error.
func writeError(w io.Writer, kind string, err error) {
	_ = api.OutputTo(w, api.DefaultOutput, api.ErrorDocument{Error: err.Error(), Kind: kind})
}

// render writes data to the command's stdout in the configured format.
func render(cmd *cobra.Command, data any) error {
	format := api.DefaultOutput
	if cfg := svcctx.ConfigFrom(cmd.Context()); cfg != nil {
		if f, err := api.ParseOutputFormat(cfg.OutputFormat); err == nil {
			format = f
		}
	}
	return api.OutputTo(cmd.OutOrStdout(), format, data)
}
