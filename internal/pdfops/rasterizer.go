package pdfops

import (
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"

	"github.com/gen2brain/go-fitz"
	"go.uber.org/zap"

	"smartconv/internal/port"
)

// FitzRasterizer renders PDF pages with MuPDF through go-fitz.
type FitzRasterizer struct {
	logger *zap.Logger
}

// NewRasterizer creates a go-fitz backed rasterizer.
func NewRasterizer(logger *zap.Logger) port.Rasterizer {
	return &FitzRasterizer{logger: logger}
}

// RenderPNG writes page_N.png for every page.
func (r *FitzRasterizer) RenderPNG(ctx context.Context, inputPath, outDir string, dpi int) ([]port.PageImage, error) {
	return r.render(ctx, inputPath, outDir, dpi, "png", func(w io.Writer, img image.Image) error {
		return png.Encode(w, img)
	})
}

// RenderJPEG writes page_N.jpg for every page at the given quality.
func (r *FitzRasterizer) RenderJPEG(ctx context.Context, inputPath, outDir string, dpi, quality int) ([]port.PageImage, error) {
	opts := &jpeg.Options{Quality: quality}
	return r.render(ctx, inputPath, outDir, dpi, "jpg", func(w io.Writer, img image.Image) error {
		return jpeg.Encode(w, img, opts)
	})
}

func (r *FitzRasterizer) render(
	ctx context.Context,
	inputPath, outDir string,
	dpi int,
	ext string,
	encode func(io.Writer, image.Image) error,
) ([]port.PageImage, error) {
	doc, err := fitz.New(inputPath)
	if err != nil {
		return nil, fmt.Errorf("pdfops.render: opening %s: %w", filepath.Base(inputPath), err)
	}
	defer doc.Close()

	count := doc.NumPage()
	if count == 0 {
		return nil, fmt.Errorf("pdfops.render: %s has no pages", filepath.Base(inputPath))
	}

	pages := make([]port.PageImage, 0, count)
	for i := 0; i < count; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		img, err := doc.ImageDPI(i, float64(dpi))
		if err != nil {
			return nil, fmt.Errorf("pdfops.render: page %d: %w", i+1, err)
		}

		out := filepath.Join(outDir, fmt.Sprintf("page_%d.%s", i+1, ext))
		if err := writeImage(out, img, encode); err != nil {
			return nil, fmt.Errorf("pdfops.render: page %d: %w", i+1, err)
		}
		pages = append(pages, port.PageImage{Number: i + 1, Path: out})
	}

	r.logger.Debug("pdfops.render: rendered pages",
		zap.String("input", filepath.Base(inputPath)),
		zap.Int("pages", count),
		zap.Int("dpi", dpi),
		zap.String("format", ext),
	)
	return pages, nil
}

func writeImage(path string, img image.Image, encode func(io.Writer, image.Image) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
