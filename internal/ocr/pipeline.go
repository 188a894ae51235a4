package ocr

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/port"
)

// Result is the aggregated extraction for one input file.
type Result struct {
	Text       string
	Confidence float64
	Pages      int
}

// Pipeline classifies an input, rasterises PDFs and recognises every page.
type Pipeline struct {
	recognizer port.TextRecognizer
	raster     port.Rasterizer
	dpi        int
	logger     *zap.Logger
}

// NewPipeline creates an extraction pipeline.
func NewPipeline(recognizer port.TextRecognizer, raster port.Rasterizer, dpi int, logger *zap.Logger) *Pipeline {
	if dpi <= 0 {
		dpi = 200
	}
	return &Pipeline{recognizer: recognizer, raster: raster, dpi: dpi, logger: logger}
}

// Recognizer exposes the configured backend.
func (p *Pipeline) Recognizer() port.TextRecognizer {
	return p.recognizer
}

// Extract returns the text and mean confidence for the image or PDF at path.
// Any backend error aborts the whole extraction.
func (p *Pipeline) Extract(ctx context.Context, path string) (*Result, error) {
	ext := domain.Ext(path)
	if _, ok := domain.OCRExtensions[ext]; !ok {
		return nil, fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
	if !p.recognizer.IsConfigured() {
		return nil, domain.ErrOCRBackendUnavailable
	}

	if ext == "pdf" {
		return p.extractPDF(ctx, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("ocr.Extract: reading image: %w", err)
	}
	out, err := p.recognize(ctx, data, domain.ContentTypeFor(path), 0)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(out.Text) == "" {
		return &Result{Text: "", Confidence: 0, Pages: 1}, nil
	}
	return &Result{Text: out.Text, Confidence: mean(out.Confidences), Pages: 1}, nil
}

func (p *Pipeline) extractPDF(ctx context.Context, path string) (*Result, error) {
	tmp, err := os.MkdirTemp(filepath.Dir(path), "ocr-pages-*")
	if err != nil {
		return nil, fmt.Errorf("ocr.extractPDF: %w", err)
	}
	defer os.RemoveAll(tmp)

	pages, err := p.raster.RenderPNG(ctx, path, tmp, p.dpi)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, fmt.Errorf("ocr.extractPDF: rasterising: %w: %v", domain.ErrToolFailure, err)
	}

	var blocks []string
	var total float64
	for _, page := range pages {
		data, err := os.ReadFile(page.Path)
		if err != nil {
			return nil, fmt.Errorf("ocr.extractPDF: page %d: %w", page.Number, err)
		}
		out, err := p.recognize(ctx, data, "image/png", page.Number)
		if err != nil {
			return nil, err
		}
		if strings.TrimSpace(out.Text) != "" {
			blocks = append(blocks, fmt.Sprintf("--- Page %d ---\n%s", page.Number, out.Text))
		}
		total += mean(out.Confidences)
	}

	res := &Result{Text: strings.Join(blocks, "\n\n"), Pages: len(pages)}
	if len(pages) > 0 {
		res.Confidence = total / float64(len(pages))
	}
	p.logger.Info("ocr.extractPDF: recognised",
		zap.String("backend", p.recognizer.Name()),
		zap.Int("pages", len(pages)),
		zap.Float64("confidence", res.Confidence),
	)
	return res, nil
}

func (p *Pipeline) recognize(ctx context.Context, data []byte, mime string, page int) (*port.RecognizeOutput, error) {
	out, err := p.recognizer.Recognize(ctx, port.RecognizeInput{Image: data, MimeType: mime})
	if err == nil {
		return out, nil
	}
	if errors.Is(err, domain.ErrOCRBackendUnavailable) {
		return nil, err
	}
	var be *BackendError
	if errors.As(err, &be) {
		if be.Page == 0 {
			be.Page = page
		}
		return nil, be
	}
	return nil, &BackendError{Backend: p.recognizer.Name(), Page: page, Message: "recognition failed", Err: err}
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
