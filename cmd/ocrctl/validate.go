package main

import (
	"github.com/spf13/cobra"
)

func newValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file.pdf>",
		Short: "Inspect a PDF with pdfinfo and pdftotext",
		Long: `Run the two inspection tools against a PDF and print both outcomes.
Exits 1 when either tool fails and 2 when the file does not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pdf, err := expandPath(args[0])
			if err != nil {
				return failInternal(cmd, err)
			}
			if err := checkInput(cmd, pdf); err != nil {
				return err
			}

			result := newValidator(cmd).Validate(cmd.Context(), pdf)
			if err := render(cmd, result); err != nil {
				return err
			}
			if !result.OK() {
				return &exitError{code: exitFailure}
			}
			return nil
		},
	}
}
