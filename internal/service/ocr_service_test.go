package service_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/ocr"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
	"smartconv/internal/service"
	"smartconv/mocks"
)

type fakeExtractor struct {
	recognizer port.TextRecognizer
	result     *ocr.Result
	err        error
	calls      int
}

func (f *fakeExtractor) Extract(context.Context, string) (*ocr.Result, error) {
	f.calls++
	return f.result, f.err
}

func (f *fakeExtractor) Recognizer() port.TextRecognizer { return f.recognizer }

func configuredRecognizer(ok bool) *mocks.MockTextRecognizer {
	r := new(mocks.MockTextRecognizer)
	r.On("IsConfigured").Return(ok)
	r.On("Name").Return("vision")
	return r
}

func TestOCRService_Unconfigured(t *testing.T) {
	ext := &fakeExtractor{recognizer: configuredRecognizer(false)}
	files := testFiles(t)
	svc := service.NewOCRService(ext, new(mocks.MockExtractedTextRepo), new(mocks.MockLedgerService), files, zap.NewNop())

	_, err := svc.Extract(context.Background(), fileInput("scan.png", []byte("png")))

	assert.True(t, errors.Is(err, domain.ErrOCRBackendUnavailable))
	assert.Zero(t, ext.calls)
	assert.Empty(t, dirEntries(t, files.UploadDir))
}

func TestOCRService_RejectsDocx(t *testing.T) {
	ext := &fakeExtractor{recognizer: configuredRecognizer(true)}
	svc := service.NewOCRService(ext, new(mocks.MockExtractedTextRepo), new(mocks.MockLedgerService), testFiles(t), zap.NewNop())

	_, err := svc.Extract(context.Background(), fileInput("letter.docx", []byte("PK")))

	assert.True(t, errors.Is(err, domain.ErrUnsupportedFileType))
}

func TestOCRService_PersistsText(t *testing.T) {
	ext := &fakeExtractor{
		recognizer: configuredRecognizer(true),
		result:     &ocr.Result{Text: "Invoice 42", Confidence: 0.93, Pages: 1},
	}
	texts := new(mocks.MockExtractedTextRepo)
	ledger := new(mocks.MockLedgerService)
	svc := service.NewOCRService(ext, texts, ledger, testFiles(t), zap.NewNop())

	texts.On("Create", mock.Anything, mock.MatchedBy(func(et *domain.ExtractedText) bool {
		return et.Text == "Invoice 42" && et.Confidence == 0.93 && et.OriginalFilename == "scan.png"
	})).Return(nil)
	ledger.On("RecordCompleted", mock.Anything, kindIs(domain.OpOCRExtraction), mock.Anything).Return(&domain.ConversionRecord{}, nil)

	res, err := svc.Extract(context.Background(), fileInput("scan.png", []byte("png")))

	require.NoError(t, err)
	assert.Equal(t, "Invoice 42", res.Text)
	assert.InDelta(t, 0.93, res.Confidence, 1e-9)
	assert.NotNil(t, res.TextID)
	texts.AssertExpectations(t)
	ledger.AssertExpectations(t)
}

func TestOCRService_NoTextFound(t *testing.T) {
	ext := &fakeExtractor{recognizer: configuredRecognizer(true), result: &ocr.Result{Pages: 1}}
	texts := new(mocks.MockExtractedTextRepo)
	ledger := new(mocks.MockLedgerService)
	svc := service.NewOCRService(ext, texts, ledger, testFiles(t), zap.NewNop())
	ledger.On("RecordCompleted", mock.Anything, kindIs(domain.OpOCRExtraction), mock.Anything).Return(&domain.ConversionRecord{}, nil)

	res, err := svc.Extract(context.Background(), fileInput("blank.jpg", []byte("jpg")))

	require.NoError(t, err)
	assert.Equal(t, "", res.Text)
	assert.Zero(t, res.Confidence)
	assert.Nil(t, res.TextID)
	texts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestOCRService_BackendErrorRecorded(t *testing.T) {
	backendErr := ocr.NewBackendError("vision", "quota exceeded", nil)
	ext := &fakeExtractor{recognizer: configuredRecognizer(true), err: backendErr}
	ledger := new(mocks.MockLedgerService)
	svc := service.NewOCRService(ext, new(mocks.MockExtractedTextRepo), ledger, testFiles(t), zap.NewNop())
	ledger.On("RecordFailed", mock.Anything, kindIs(domain.OpOCRExtraction), backendErr).Return(&domain.ConversionRecord{}, nil)

	_, err := svc.Extract(context.Background(), fileInput("doc.pdf", []byte("%PDF")))

	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
	ledger.AssertExpectations(t)
}

func TestOCRService_SaveText(t *testing.T) {
	files := testFiles(t)
	svc := service.NewOCRService(&fakeExtractor{recognizer: configuredRecognizer(true)},
		new(mocks.MockExtractedTextRepo), new(mocks.MockLedgerService), files, zap.NewNop())

	art, err := svc.SaveText(context.Background(), "line one\nline two", "scan.final.png")
	require.NoError(t, err)
	assert.Equal(t, "scan.final_extracted.txt", art.DownloadName)
	data, err := os.ReadFile(art.Path)
	require.NoError(t, err)
	assert.Equal(t, "line one\nline two", string(data))

	art, err = svc.SaveText(context.Background(), "x", "")
	require.NoError(t, err)
	assert.Equal(t, "extracted_text_extracted.txt", art.DownloadName)

	_, err = svc.SaveText(context.Background(), "   ", "scan.png")
	assert.True(t, errors.Is(err, domain.ErrInvalidParameter))
}

func TestOCRService_UnreadablePDFIsToolFailure(t *testing.T) {
	pipeline := ocr.NewPipeline(configuredRecognizer(true), pdfops.NewRasterizer(zap.NewNop()), 72, zap.NewNop())
	ledger := new(mocks.MockLedgerService)
	svc := service.NewOCRService(pipeline, new(mocks.MockExtractedTextRepo), ledger, testFiles(t), zap.NewNop())
	ledger.On("RecordFailed", mock.Anything, kindIs(domain.OpOCRExtraction), mock.Anything).Return(&domain.ConversionRecord{}, nil)

	_, err := svc.Extract(context.Background(), fileInput("scan.pdf", []byte("%PDF-1.4 truncated")))

	assert.True(t, errors.Is(err, domain.ErrToolFailure))
	ledger.AssertExpectations(t)
}
