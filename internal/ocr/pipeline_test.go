package ocr_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/ocr"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
	"smartconv/mocks"
)

// fakeRasterizer writes n placeholder pages whose bytes name the page.
type fakeRasterizer struct {
	pages  int
	outDir string
}

func (f *fakeRasterizer) RenderPNG(_ context.Context, _, outDir string, _ int) ([]port.PageImage, error) {
	f.outDir = outDir
	var out []port.PageImage
	for i := 1; i <= f.pages; i++ {
		p := filepath.Join(outDir, fmt.Sprintf("page_%d.png", i))
		if err := os.WriteFile(p, []byte(fmt.Sprintf("page-%d", i)), 0o644); err != nil {
			return nil, err
		}
		out = append(out, port.PageImage{Number: i, Path: p})
	}
	return out, nil
}

func (f *fakeRasterizer) RenderJPEG(context.Context, string, string, int, int) ([]port.PageImage, error) {
	return nil, errors.New("not used")
}

func writeInput(t *testing.T, name string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte("input"), 0o644))
	return p
}

func page(n int) port.RecognizeInput {
	return port.RecognizeInput{Image: []byte(fmt.Sprintf("page-%d", n)), MimeType: "image/png"}
}

func newRecognizer() *mocks.MockTextRecognizer {
	r := new(mocks.MockTextRecognizer)
	r.On("IsConfigured").Return(true)
	r.On("Name").Return("mock").Maybe()
	return r
}

func TestExtract_ImageWithoutText(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognizeOutput{}, nil)
	p := ocr.NewPipeline(rec, &fakeRasterizer{}, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "blank.png"))

	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Equal(t, 0.0, res.Confidence)
}

func TestExtract_ImageTextWithoutRegionsKept(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, mock.Anything).Return(&port.RecognizeOutput{Text: "Total 12.50"}, nil)
	p := ocr.NewPipeline(rec, &fakeRasterizer{}, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "receipt.png"))

	require.NoError(t, err)
	assert.Equal(t, "Total 12.50", res.Text)
	assert.Zero(t, res.Confidence)
}

func TestExtract_PDFPageTextWithoutRegionsKept(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, page(1)).Return(&port.RecognizeOutput{Text: "Total 12.50"}, nil)
	p := ocr.NewPipeline(rec, &fakeRasterizer{pages: 1}, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "receipt.pdf"))

	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nTotal 12.50", res.Text)
	assert.Zero(t, res.Confidence)
}

func TestExtract_UnreadablePDFIsToolFailure(t *testing.T) {
	rec := newRecognizer()
	p := ocr.NewPipeline(rec, pdfops.NewRasterizer(zap.NewNop()), 72, zap.NewNop())

	_, err := p.Extract(context.Background(), writeInput(t, "broken.pdf"))

	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrToolFailure))
	rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}

func TestExtract_ImageMeanConfidence(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, port.RecognizeInput{Image: []byte("input"), MimeType: "image/jpeg"}).
		Return(&port.RecognizeOutput{Text: "Hello", Confidences: []float64{0.9, 0.7}}, nil)
	p := ocr.NewPipeline(rec, &fakeRasterizer{}, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "scan.JPG"))

	require.NoError(t, err)
	assert.Equal(t, "Hello", res.Text)
	assert.InDelta(t, 0.8, res.Confidence, 1e-9)
	rec.AssertExpectations(t)
}

func TestExtract_PDFAggregatesPages(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, page(1)).Return(&port.RecognizeOutput{Text: "first", Confidences: []float64{1.0, 0.8}}, nil)
	rec.On("Recognize", mock.Anything, page(2)).Return(&port.RecognizeOutput{}, nil)
	rec.On("Recognize", mock.Anything, page(3)).Return(&port.RecognizeOutput{Text: "third", Confidences: []float64{0.6}}, nil)
	raster := &fakeRasterizer{pages: 3}
	p := ocr.NewPipeline(rec, raster, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "doc.pdf"))

	require.NoError(t, err)
	assert.Equal(t, "--- Page 1 ---\nfirst\n\n--- Page 3 ---\nthird", res.Text)
	// (0.9 + 0 + 0.6) / 3
	assert.InDelta(t, 0.5, res.Confidence, 1e-9)
	assert.Equal(t, 3, res.Pages)
	assert.NoDirExists(t, raster.outDir, "page images must be cleaned up")
}

func TestExtract_PageErrorAbortsWholeRequest(t *testing.T) {
	rec := newRecognizer()
	rec.On("Recognize", mock.Anything, page(1)).Return(&port.RecognizeOutput{Text: "ok", Confidences: []float64{1}}, nil)
	rec.On("Recognize", mock.Anything, page(2)).Return(nil, errors.New("rpc error"))
	raster := &fakeRasterizer{pages: 3}
	p := ocr.NewPipeline(rec, raster, 200, zap.NewNop())

	res, err := p.Extract(context.Background(), writeInput(t, "doc.pdf"))

	assert.Nil(t, res)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
	var be *ocr.BackendError
	require.True(t, errors.As(err, &be))
	assert.Equal(t, 2, be.Page)
	rec.AssertNotCalled(t, "Recognize", mock.Anything, page(3))
	assert.NoDirExists(t, raster.outDir)
}

func TestExtract_Unconfigured(t *testing.T) {
	raster := &fakeRasterizer{pages: 1}
	p := ocr.NewPipeline(&ocr.Unconfigured{}, raster, 200, zap.NewNop())

	_, err := p.Extract(context.Background(), writeInput(t, "doc.pdf"))

	assert.True(t, errors.Is(err, domain.ErrOCRBackendUnavailable))
	assert.Empty(t, raster.outDir, "no work before the backend check")
}

func TestExtract_UnsupportedType(t *testing.T) {
	rec := newRecognizer()
	p := ocr.NewPipeline(rec, &fakeRasterizer{}, 200, zap.NewNop())

	_, err := p.Extract(context.Background(), writeInput(t, "notes.docx"))

	assert.True(t, errors.Is(err, domain.ErrUnsupportedFileType))
	rec.AssertNotCalled(t, "Recognize", mock.Anything, mock.Anything)
}
