package main

import (
	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/batch"
	"github.com/jackzampolin/ocrctl/internal/config"
	"github.com/jackzampolin/ocrctl/internal/svcctx"
)

// dirFlags are shared by batch and watch.
type dirFlags struct {
	inputDir  string
	outputDir string
	validate  bool
	extraArgs []string
}

func (f *dirFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.inputDir, "input-dir", "", "directory holding the input PDFs")
	cmd.Flags().StringVar(&f.outputDir, "output-dir", "", "directory receiving the OCR output")
	cmd.Flags().BoolVar(&f.validate, "validate", false, "inspect every successful output with pdfinfo and pdftotext")
	cmd.Flags().StringArrayVar(&f.extraArgs, "ocrmypdf-arg", nil, "extra engine argument appended after the profile's (repeatable)")
	_ = cmd.MarkFlagRequired("input-dir")
	_ = cmd.MarkFlagRequired("output-dir")
}

// request resolves the directories and profile into a batch request.
func (f *dirFlags) request(cmd *cobra.Command) (batch.Request, error) {
	store, err := loadProfiles(cmd)
	if err != nil {
		return batch.Request{}, err
	}
	inputDir, err := expandPath(f.inputDir)
	if err != nil {
		return batch.Request{}, failInternal(cmd, err)
	}
	outputDir, err := expandPath(f.outputDir)
	if err != nil {
		return batch.Request{}, failInternal(cmd, err)
	}
	profile, err := resolveProfile(cmd, store)
	if err != nil {
		return batch.Request{}, err
	}
	return batch.Request{
		InputDir:  inputDir,
		OutputDir: outputDir,
		Profile:   profile,
		ExtraArgs: f.extraArgs,
		Validate:  f.validate,
	}, nil
}

func newCoordinator(cmd *cobra.Command) *batch.Coordinator {
	ctx := cmd.Context()
	return batch.NewCoordinator(batch.Config{
		Jobs:      newExecutor(cmd),
		Validator: newValidator(cmd),
		Logger:    svcctx.LoggerFrom(ctx),
		Workers:   svcctx.ConfigFrom(ctx).Workers,
	})
}

func newBatchCmd() *cobra.Command {
	var flags dirFlags

	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Run OCR on every PDF in a directory",
		Long: `Run the OCR engine on every PDF directly under --input-dir, writing each
output under --output-dir with the same file name.

Every file is processed even when earlier ones fail; the printed summary
lists each result. The process exits 1 when any file failed. A missing
input directory is not an error and yields an empty summary.`,
		Example: `  ocrctl batch --input-dir scans --output-dir ocr
  ocrctl batch --input-dir scans --output-dir ocr --validate --workers 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := flags.request(cmd)
			if err != nil {
				return err
			}

			summary, err := newCoordinator(cmd).Run(cmd.Context(), req)
			if err != nil {
				return failInternal(cmd, err)
			}
			if err := render(cmd, summary); err != nil {
				return err
			}
			if !summary.OK() {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().Int("workers", config.DefaultConfig().Workers, "number of PDFs processed concurrently")
	return cmd
}
