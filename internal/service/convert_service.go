package service

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/converter"
	"smartconv/internal/domain"
	"smartconv/internal/port"
)

// ConvertService converts a document into another format.
type ConvertService interface {
	Convert(ctx context.Context, in FileInput, targetFormat string) (*domain.Artifact, error)
}

type convertService struct {
	converter port.DocumentConverter
	ledger    LedgerService
	files     config.FilesConfig
	logger    *zap.Logger
}

// NewConvertService creates a new ConvertService implementation.
func NewConvertService(
	conv port.DocumentConverter,
	ledger LedgerService,
	files config.FilesConfig,
	logger *zap.Logger,
) ConvertService {
	return &convertService{converter: conv, ledger: ledger, files: files, logger: logger}
}

func (s *convertService) Convert(ctx context.Context, in FileInput, targetFormat string) (*domain.Artifact, error) {
	ext, err := requireExt(in.Filename, domain.AllowedExtensions)
	if err != nil {
		return nil, err
	}
	if !converter.ValidTargetFormat(targetFormat) {
		return nil, fmt.Errorf("%w: target format %q", domain.ErrInvalidParameter, targetFormat)
	}

	ws, err := newWorkspace(s.files.UploadDir)
	if err != nil {
		return nil, err
	}
	defer ws.cleanup()

	// The converter names its output after the input, so a same-extension
	// target would otherwise land on the input itself.
	for _, sub := range []string{"in", "out"} {
		if err := os.Mkdir(ws.path(sub), 0o755); err != nil {
			return nil, fmt.Errorf("convertService.Convert: %w", err)
		}
	}
	input, err := writeFile(ws.path("in", SanitizeFilename(in.Filename)), in.Content)
	if err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		OriginalFilename: in.Filename,
		FileType:         ext,
		Kind:             domain.ConvertTo(targetFormat),
	}

	produced, err := s.converter.Convert(ctx, input, targetFormat, ws.path("out"))
	if err != nil {
		s.logger.Error("convertService.Convert: conversion failed",
			zap.String("input", in.Filename), zap.String("target", targetFormat), zap.Error(err))
		entry.Filename = filepath.Base(input)
		recordFailed(ctx, s.ledger, s.logger, entry, err)
		return nil, err
	}

	downloadName := baseName(in.Filename) + "." + targetFormat
	final := filepath.Join(s.files.ProcessedDir, shortID()+"_"+downloadName)
	if err := moveInto(produced, final); err != nil {
		entry.Filename = filepath.Base(input)
		recordFailed(ctx, s.ledger, s.logger, entry, err)
		return nil, err
	}

	entry.Filename = filepath.Base(final)
	recordCompleted(ctx, s.ledger, s.logger, entry, final)
	return &domain.Artifact{
		Path:         final,
		DownloadName: downloadName,
		ContentType:  domain.ContentTypeFor(downloadName),
		Size:         fileSize(final),
	}, nil
}

// moveInto moves src to dst, creating dst's directory.
func moveInto(src, dst string) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(dst), err)
	}
	if err := os.Rename(src, dst); err == nil {
		return nil
	}
	// Rename fails across filesystems; fall back to copying.
	f, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("opening %s: %w", filepath.Base(src), err)
	}
	defer f.Close()
	if _, err := writeFile(dst, f); err != nil {
		return err
	}
	_ = os.Remove(src)
	return nil
}
