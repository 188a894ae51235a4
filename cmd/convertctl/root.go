package main

import (
	"context"
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"smartconv/internal/compress"
	"smartconv/internal/config"
	"smartconv/internal/converter"
	"smartconv/internal/logger"
	"smartconv/internal/ocr"
	_ "smartconv/internal/ocr/tesseract"
	_ "smartconv/internal/ocr/vertex"
	_ "smartconv/internal/ocr/vision"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

// toolkit holds the pipelines shared by every subcommand.
type toolkit struct {
	cfg       *config.Config
	logger    *zap.Logger
	runner    toolrun.Runner
	engine    port.PDFEngine
	raster    port.Rasterizer
	converter port.DocumentConverter
}

func (t *toolkit) compressor() (*compress.Chain, error) {
	return compress.NewChainFromNames(t.cfg.Compress.StrategyNames(), compress.Deps{
		Runner:          t.runner,
		GhostscriptPath: t.cfg.Tools.GhostscriptPath,
		Engine:          t.engine,
		Rasterizer:      t.raster,
		Logger:          t.logger,
	})
}

func (t *toolkit) ocrPipeline(ctx context.Context) (*ocr.Pipeline, error) {
	recognizer, err := ocr.NewRecognizer(ctx, &t.cfg.OCR, ocr.Tools{
		Runner:        t.runner,
		TesseractPath: t.cfg.Tools.TesseractPath,
		Logger:        t.logger,
	})
	if err != nil {
		return nil, err
	}
	return ocr.NewPipeline(recognizer, t.raster, t.cfg.OCR.DPI, t.logger), nil
}

func newRootCmd() *cobra.Command {
	tk := &toolkit{}
	var verbose bool

	root := &cobra.Command{
		Use:           "convertctl",
		Short:         "Run the smartconv pipelines on local files",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if !verbose {
				cfg.Log.Level = "warn"
			}
			zl, err := logger.New(cfg.Log)
			if err != nil {
				return err
			}
			tk.cfg = cfg
			tk.logger = zl
			tk.runner = toolrun.NewRunner(cfg.Tools.Timeout(), zl)
			tk.engine = pdfops.NewEngine(zl)
			tk.raster = pdfops.NewRasterizer(zl)
			tk.converter = converter.NewLibreOffice(cfg.Tools.SofficePath, tk.runner, zl)
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if tk.logger != nil {
				_ = tk.logger.Sync()
			}
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(
		newMergeCmd(tk),
		newSplitCmd(tk),
		newCompressCmd(tk),
		newToImagesCmd(tk),
		newFromImagesCmd(tk),
		newConvertCmd(tk),
		newOCRCmd(tk),
	)
	return root
}
