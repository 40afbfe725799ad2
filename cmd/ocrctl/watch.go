package main

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/api"
	"github.com/jackzampolin/ocrctl/internal/batch"
	"github.com/jackzampolin/ocrctl/internal/ocr"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
)

func newWatchCmd() *cobra.Command {
	var (
		flags   dirFlags
		watchRq batch.WatchRequest
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run OCR on PDFs as they arrive in a directory",
		Long: `Watch --input-dir and run the OCR engine on each PDF once it has stopped
changing for the settle interval. One JSON result is printed per line as
each job finishes. Stop with Ctrl-C.`,
		Example: `  ocrctl watch --input-dir inbox --output-dir ocr
  ocrctl watch --input-dir inbox --output-dir ocr --settle 5s --initial=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := svcctx.LoggerFrom(ctx)

			req, err := flags.request(cmd)
			if err != nil {
				return err
			}
			watchRq.Request = req

			out := cmd.OutOrStdout()
			err = newCoordinator(cmd).Watch(ctx, watchRq, func(r ocr.Result) {
				if err := api.OutputLine(out, r); err != nil {
					logger.Error("failed to write result", "input", r.Input, "error", err)
				}
			})
			switch {
			case err == nil:
				return nil
			case errors.Is(err, os.ErrNotExist):
				return fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindMissingInput, Input: req.InputDir})
			case errors.Is(err, batch.ErrSameDirectory):
				return fail(cmd, exitUsage, api.ErrorDocument{Error: err.Error(), Kind: api.KindUsage})
			default:
				return failInternal(cmd, err)
			}
		},
	}

	flags.register(cmd)
	cmd.Flags().DurationVar(&watchRq.Settle, "settle", batch.DefaultSettle, "quiet period before a new file is processed")
	cmd.Flags().BoolVar(&watchRq.Initial, "initial", true, "process PDFs already in the directory first")
	return cmd
}
