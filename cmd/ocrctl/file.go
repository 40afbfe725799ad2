package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jackzampolin/ocrctl/internal/ocr"
)

func newFileCmd() *cobra.Command {
	var (
		output    string
		extraArgs []string
	)

	cmd := &cobra.Command{
		Use:   "file <input.pdf>",
		Short: "Run OCR on a single PDF",
		Long: `Run the OCR engine on one PDF with the selected profile.

The output defaults to <input>.ocr.pdf next to the input. The process exits
with the engine's own return code; 2 means the input or profile was not
found.`,
		Example: `  ocrctl file scan.pdf
  ocrctl file scan.pdf -o out/scan.pdf --profile quality
  ocrctl file scan.pdf --ocrmypdf-arg=--force-ocr`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			store, err := loadProfiles(cmd)
			if err != nil {
				return err
			}

			input, err := expandPath(args[0])
			if err != nil {
				return failInternal(cmd, err)
			}
			if err := checkInput(cmd, input); err != nil {
				return err
			}

			profile, err := resolveProfile(cmd, store)
			if err != nil {
				return err
			}

			outPath := ocr.DefaultOutputPath(input)
			if output != "" {
				if outPath, err = expandPath(output); err != nil {
					return failInternal(cmd, err)
				}
			}
			if err := os.MkdirAll(filepath.Dir(outPath), 0o755); err != nil {
				return failInternal(cmd, fmt.Errorf("failed to create output directory: %w", err))
			}

			result := newExecutor(cmd).Run(ctx, input, outPath, profile, extraArgs)
			if err := render(cmd, result); err != nil {
				return err
			}
			return exitWith(result.ReturnCode)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output PDF (default: <input>.ocr.pdf)")
	cmd.Flags().StringArrayVar(&extraArgs, "ocrmypdf-arg", nil, "extra engine argument appended after the profile's (repeatable)")
	return cmd
}
