package compress

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"smartconv/internal/port"
)

// Rasterize renders every page to a JPEG at the tier's DPI and quality and
// reassembles the pages into a new PDF.
type Rasterize struct {
	raster port.Rasterizer
	engine port.PDFEngine
}

// NewRasterize creates the rasterize-and-reassemble strategy.
func NewRasterize(raster port.Rasterizer, engine port.PDFEngine) *Rasterize {
	return &Rasterize{raster: raster, engine: engine}
}

func (r *Rasterize) Name() string { return "rasterize" }

func (r *Rasterize) Compress(ctx context.Context, in port.CompressInput) error {
	tmp, err := os.MkdirTemp(filepath.Dir(in.OutputPath), "raster-*")
	if err != nil {
		return fmt.Errorf("compress.Rasterize: %w", err)
	}
	defer os.RemoveAll(tmp)

	pages, err := r.raster.RenderJPEG(ctx, in.InputPath, tmp, in.Tier.DPI, in.Tier.JPEGQuality)
	if err != nil {
		return fmt.Errorf("compress.Rasterize: %w", err)
	}

	images := make([]string, len(pages))
	for i, p := range pages {
		images[i] = p.Path
	}
	if err := r.engine.ImportImages(ctx, images, in.OutputPath); err != nil {
		return fmt.Errorf("compress.Rasterize: %w", err)
	}
	return nil
}
