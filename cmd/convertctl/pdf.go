package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"smartconv/internal/compress"
)

func newMergeCmd(tk *toolkit) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "merge FILE.pdf FILE.pdf [FILE.pdf...]",
		Short: "Concatenate PDFs in the order given",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tk.engine.Merge(cmd.Context(), args, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "merged.pdf", "output file")
	return cmd
}

func newSplitCmd(tk *toolkit) *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "split FILE.pdf",
		Short: "Write one PDF per page",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			pages, err := tk.engine.Split(cmd.Context(), args[0], outDir)
			if err != nil {
				return err
			}
			for _, p := range pages {
				fmt.Fprintln(cmd.OutOrStdout(), p)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "pages", "output directory")
	return cmd
}

func newCompressCmd(tk *toolkit) *cobra.Command {
	var (
		out   string
		level int
	)
	cmd := &cobra.Command{
		Use:   "compress FILE.pdf",
		Short: "Recompress a PDF with the configured strategies",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chain, err := tk.compressor()
			if err != nil {
				return err
			}
			res, err := chain.Compress(cmd.Context(), args[0], out, compress.ClampLevel(level))
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d -> %d bytes (%s, %s)\n",
				out, res.OriginalSize, res.Size, res.Strategy, res.Tier)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "compressed.pdf", "output file")
	cmd.Flags().IntVarP(&level, "level", "l", 70, "compression level 1-100")
	return cmd
}

func newToImagesCmd(tk *toolkit) *cobra.Command {
	var (
		outDir string
		dpi    int
	)
	cmd := &cobra.Command{
		Use:   "to-images FILE.pdf",
		Short: "Render every page to PNG",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if dpi <= 0 {
				dpi = tk.cfg.PDF.ImageDPI
			}
			if err := os.MkdirAll(outDir, 0o755); err != nil {
				return err
			}
			images, err := tk.raster.RenderPNG(cmd.Context(), args[0], outDir, dpi)
			if err != nil {
				return err
			}
			for _, img := range images {
				fmt.Fprintln(cmd.OutOrStdout(), img.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "images", "output directory")
	cmd.Flags().IntVar(&dpi, "dpi", 0, "render resolution (default from config)")
	return cmd
}

func newFromImagesCmd(tk *toolkit) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "from-images IMAGE [IMAGE...]",
		Short: "Build a PDF with one page per image",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := tk.engine.ImportImages(cmd.Context(), args, out); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "images.pdf", "output file")
	return cmd
}
