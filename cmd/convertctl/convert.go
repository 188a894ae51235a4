package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"smartconv/internal/converter"
)

func newConvertCmd(tk *toolkit) *cobra.Command {
	var (
		outDir string
		target string
	)
	cmd := &cobra.Command{
		Use:   "convert FILE --to FORMAT",
		Short: "Convert a document with LibreOffice",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target = strings.ToLower(strings.TrimPrefix(target, "."))
			if !converter.ValidTargetFormat(target) {
				return fmt.Errorf("invalid target format %q", target)
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			produced, err := tk.converter.Convert(cmd.Context(), args[0], target, outDir)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), produced)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", ".", "output directory")
	cmd.Flags().StringVar(&target, "to", "pdf", "target format")
	return cmd
}

func newOCRCmd(tk *toolkit) *cobra.Command {
	var showConfidence bool
	cmd := &cobra.Command{
		Use:   "ocr FILE",
		Short: "Extract text from an image or PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pipeline, err := tk.ocrPipeline(cmd.Context())
			if err != nil {
				return err
			}
			res, err := pipeline.Extract(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if res.Text == "" {
				fmt.Fprintln(cmd.ErrOrStderr(), "no text found")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			if showConfidence {
				fmt.Fprintf(cmd.ErrOrStderr(), "pages=%d confidence=%.2f\n", res.Pages, res.Confidence)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&showConfidence, "confidence", false, "print page count and mean confidence to stderr")
	return cmd
}
