package port

import "context"

// PDFEngine performs structural PDF operations.
type PDFEngine interface {
	Merge(ctx context.Context, inputs []string, outputPath string) error
	// Split writes one single-page PDF per page into outDir and returns them in page order.
	Split(ctx context.Context, inputPath, outDir string) ([]string, error)
	PageCount(ctx context.Context, path string) (int, error)
	ImportImages(ctx context.Context, images []string, outputPath string) error
	Optimize(ctx context.Context, inputPath, outputPath string) error
}

// PageImage is one rendered PDF page.
type PageImage struct {
	Number int
	Path   string
}

// Rasterizer renders PDF pages to image files.
type Rasterizer interface {
	// RenderPNG writes every page of inputPath as PNG at dpi into outDir.
	RenderPNG(ctx context.Context, inputPath, outDir string, dpi int) ([]PageImage, error)
	// RenderJPEG writes every page as JPEG with the given quality.
	RenderJPEG(ctx context.Context, inputPath, outDir string, dpi, quality int) ([]PageImage, error)
}
