package service

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/ocr"
	"smartconv/internal/port"
)

// TextExtractor runs OCR over one file on disk.
type TextExtractor interface {
	Extract(ctx context.Context, path string) (*ocr.Result, error)
	Recognizer() port.TextRecognizer
}

// OCRResult is returned to callers of Extract.
type OCRResult struct {
	Text             string     `json:"text"`
	Confidence       float64    `json:"confidence"`
	Pages            int        `json:"pages"`
	Filename         string     `json:"filename"`
	OriginalFilename string     `json:"original_filename"`
	TextID           *uuid.UUID `json:"text_id,omitempty"`
}

// OCRService extracts text from images and PDFs.
type OCRService interface {
	Extract(ctx context.Context, in FileInput) (*OCRResult, error)
	// SaveText writes text to a .txt artifact named after originalFilename.
	SaveText(ctx context.Context, text, originalFilename string) (*domain.Artifact, error)
	Backend() string
}

type ocrService struct {
	extractor TextExtractor
	texts     port.ExtractedTextRepository
	ledger    LedgerService
	files     config.FilesConfig
	logger    *zap.Logger
}

// NewOCRService creates a new OCRService implementation.
func NewOCRService(
	extractor TextExtractor,
	texts port.ExtractedTextRepository,
	ledger LedgerService,
	files config.FilesConfig,
	logger *zap.Logger,
) OCRService {
	return &ocrService{extractor: extractor, texts: texts, ledger: ledger, files: files, logger: logger}
}

func (s *ocrService) Backend() string {
	return s.extractor.Recognizer().Name()
}

func (s *ocrService) Extract(ctx context.Context, in FileInput) (*OCRResult, error) {
	ext, err := requireExt(in.Filename, domain.OCRExtensions)
	if err != nil {
		return nil, err
	}
	if !s.extractor.Recognizer().IsConfigured() {
		return nil, domain.ErrOCRBackendUnavailable
	}

	path, err := saveUpload(s.files.UploadDir, in)
	if err != nil {
		return nil, err
	}
	entry := domain.LedgerEntry{
		Filename:         filepath.Base(path),
		OriginalFilename: in.Filename,
		FileType:         ext,
		Kind:             domain.OpOCRExtraction,
	}

	res, err := s.extractor.Extract(ctx, path)
	if err != nil {
		s.logger.Error("ocrService.Extract: extraction failed",
			zap.String("filename", entry.Filename), zap.String("backend", s.Backend()), zap.Error(err))
		recordFailed(ctx, s.ledger, s.logger, entry, err)
		return nil, err
	}

	out := &OCRResult{
		Text:             res.Text,
		Confidence:       res.Confidence,
		Pages:            res.Pages,
		Filename:         entry.Filename,
		OriginalFilename: in.Filename,
	}

	if strings.TrimSpace(res.Text) != "" {
		et := &domain.ExtractedText{
			Filename:         entry.Filename,
			OriginalFilename: in.Filename,
			Text:             res.Text,
			Confidence:       res.Confidence,
		}
		if err := s.texts.Create(ctx, et); err != nil {
			s.logger.Error("ocrService.Extract: saving extracted text failed",
				zap.String("filename", entry.Filename), zap.Error(err))
		} else {
			out.TextID = &et.ID
		}
	}

	recordCompleted(ctx, s.ledger, s.logger, entry, path)
	return out, nil
}

func (s *ocrService) SaveText(_ context.Context, text, originalFilename string) (*domain.Artifact, error) {
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("%w: no text to save", domain.ErrInvalidParameter)
	}
	base := "extracted_text"
	if originalFilename != "" {
		base = baseName(originalFilename)
	}
	downloadName := base + "_extracted.txt"

	path, err := saveUpload(s.files.ProcessedDir, FileInput{
		Filename: downloadName,
		Content:  strings.NewReader(text),
	})
	if err != nil {
		return nil, err
	}
	return &domain.Artifact{
		Path:         path,
		DownloadName: downloadName,
		ContentType:  "text/plain; charset=utf-8",
		Size:         fileSize(path),
	}, nil
}
