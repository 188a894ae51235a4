package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"smartconv/internal/compress"
	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
)

// DefaultCompressionLevel is used when a request omits the level.
const DefaultCompressionLevel = 70

// PDFCompressor produces a smaller copy of a PDF.
type PDFCompressor interface {
	Compress(ctx context.Context, inputPath, outputPath string, level int) (*compress.Result, error)
}

// CompressOutput is a compressed PDF plus how it was produced.
type CompressOutput struct {
	domain.Artifact
	Strategy     string
	Tier         string
	Level        int
	OriginalSize int64
}

// PDFService implements the PDF transforms.
type PDFService interface {
	Merge(ctx context.Context, files []FileInput) (*domain.Artifact, error)
	Split(ctx context.Context, in FileInput) (*domain.Artifact, error)
	Compress(ctx context.Context, in FileInput, level int) (*CompressOutput, error)
	ToImages(ctx context.Context, in FileInput) (*domain.Artifact, error)
	FromImages(ctx context.Context, files []FileInput) (*domain.Artifact, error)
}

type pdfService struct {
	engine     port.PDFEngine
	raster     port.Rasterizer
	compressor PDFCompressor
	ledger     LedgerService
	files      config.FilesConfig
	dpi        int
	logger     *zap.Logger
}

// NewPDFService creates a new PDFService implementation.
func NewPDFService(
	engine port.PDFEngine,
	raster port.Rasterizer,
	compressor PDFCompressor,
	ledger LedgerService,
	files config.FilesConfig,
	pdfCfg config.PDFConfig,
	logger *zap.Logger,
) PDFService {
	return &pdfService{
		engine:     engine,
		raster:     raster,
		compressor: compressor,
		ledger:     ledger,
		files:      files,
		dpi:        pdfCfg.ImageDPI,
		logger:     logger,
	}
}

// produce runs build inside a fresh workspace and writes the artifact to the
// processed dir. The workspace is always removed; the artifact is removed and
// a failed row recorded when build fails.
func (s *pdfService) produce(
	ctx context.Context,
	entry domain.LedgerEntry,
	build func(ws *workspace, out string) error,
) (string, error) {
	if err := os.MkdirAll(s.files.ProcessedDir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", s.files.ProcessedDir, err)
	}
	ws, err := newWorkspace(s.files.UploadDir)
	if err != nil {
		return "", err
	}
	defer ws.cleanup()

	out := filepath.Join(s.files.ProcessedDir, entry.Filename)
	if err := build(ws, out); err != nil {
		_ = os.Remove(out)
		s.logger.Error("pdfService: operation failed",
			zap.String("kind", string(entry.Kind)), zap.String("output", entry.Filename), zap.Error(err))
		recordFailed(ctx, s.ledger, s.logger, entry, err)
		return "", err
	}

	recordCompleted(ctx, s.ledger, s.logger, entry, out)
	return out, nil
}

func artifact(path, downloadName string) *domain.Artifact {
	return &domain.Artifact{
		Path:         path,
		DownloadName: downloadName,
		ContentType:  domain.ContentTypeFor(downloadName),
		Size:         fileSize(path),
	}
}

// engineError marks a PDF library failure as a processing failure.
func engineError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	return fmt.Errorf("%w: %v", domain.ErrToolFailure, err)
}

func (s *pdfService) Merge(ctx context.Context, files []FileInput) (*domain.Artifact, error) {
	if len(files) < 2 {
		return nil, domain.ErrInsufficientInputs
	}
	for _, f := range files {
		if _, err := requireExt(f.Filename, map[string]domain.FileType{"pdf": domain.FileTypePDF}); err != nil {
			return nil, err
		}
	}

	entry := domain.LedgerEntry{
		Filename:         fmt.Sprintf("merged_%s.pdf", shortID()),
		OriginalFilename: inputNames(files),
		FileType:         "pdf",
		Kind:             domain.OpMergePDF,
	}
	out, err := s.produce(ctx, entry, func(ws *workspace, out string) error {
		inputs := make([]string, len(files))
		for i, f := range files {
			p, err := ws.save(i, f)
			if err != nil {
				return err
			}
			inputs[i] = p
		}
		return engineError(s.engine.Merge(ctx, inputs, out))
	})
	if err != nil {
		return nil, err
	}
	return artifact(out, "merged.pdf"), nil
}

func (s *pdfService) Split(ctx context.Context, in FileInput) (*domain.Artifact, error) {
	if _, err := requireExt(in.Filename, map[string]domain.FileType{"pdf": domain.FileTypePDF}); err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		Filename:         fmt.Sprintf("split_pages_%s.zip", shortID()),
		OriginalFilename: in.Filename,
		FileType:         "pdf",
		Kind:             domain.OpSplitPDF,
	}
	out, err := s.produce(ctx, entry, func(ws *workspace, out string) error {
		input, err := ws.save(0, in)
		if err != nil {
			return err
		}
		pagesDir := ws.path("pages")
		if err := os.Mkdir(pagesDir, 0o755); err != nil {
			return err
		}
		pages, err := s.engine.Split(ctx, input, pagesDir)
		if err != nil {
			return engineError(err)
		}
		if len(pages) == 0 {
			return fmt.Errorf("%w: document has no pages", domain.ErrToolFailure)
		}
		entries := make([]pdfops.ZipEntry, len(pages))
		for i, p := range pages {
			entries[i] = pdfops.ZipEntry{Name: fmt.Sprintf("page_%d.pdf", i+1), Path: p}
		}
		return pdfops.WriteZip(out, entries)
	})
	if err != nil {
		return nil, err
	}
	return artifact(out, "split_pages.zip"), nil
}

func (s *pdfService) Compress(ctx context.Context, in FileInput, level int) (*CompressOutput, error) {
	if _, err := requireExt(in.Filename, map[string]domain.FileType{"pdf": domain.FileTypePDF}); err != nil {
		return nil, err
	}
	level = compress.ClampLevel(level)

	entry := domain.LedgerEntry{
		Filename:         fmt.Sprintf("compressed_%s.pdf", shortID()),
		OriginalFilename: in.Filename,
		FileType:         "pdf",
		Kind:             domain.OpCompressPDF,
	}
	var res *compress.Result
	out, err := s.produce(ctx, entry, func(ws *workspace, out string) error {
		input, err := ws.save(0, in)
		if err != nil {
			return err
		}
		res, err = s.compressor.Compress(ctx, input, out, level)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("pdfService.Compress: compressed",
		zap.String("strategy", res.Strategy), zap.String("tier", res.Tier),
		zap.Int64("original_size", res.OriginalSize), zap.Int64("size", res.Size))
	return &CompressOutput{
		Artifact:     *artifact(out, "compressed_"+SanitizeFilename(in.Filename)),
		Strategy:     res.Strategy,
		Tier:         res.Tier,
		Level:        level,
		OriginalSize: res.OriginalSize,
	}, nil
}

func (s *pdfService) ToImages(ctx context.Context, in FileInput) (*domain.Artifact, error) {
	if _, err := requireExt(in.Filename, map[string]domain.FileType{"pdf": domain.FileTypePDF}); err != nil {
		return nil, err
	}

	entry := domain.LedgerEntry{
		Filename:         fmt.Sprintf("pdf_images_%s.zip", shortID()),
		OriginalFilename: in.Filename,
		FileType:         "pdf",
		Kind:             domain.OpPDFToImages,
	}
	out, err := s.produce(ctx, entry, func(ws *workspace, out string) error {
		input, err := ws.save(0, in)
		if err != nil {
			return err
		}
		imagesDir := ws.path("images")
		if err := os.Mkdir(imagesDir, 0o755); err != nil {
			return err
		}
		pages, err := s.raster.RenderPNG(ctx, input, imagesDir, s.dpi)
		if err != nil {
			return engineError(err)
		}
		entries := make([]pdfops.ZipEntry, len(pages))
		for i, p := range pages {
			entries[i] = pdfops.ZipEntry{Name: fmt.Sprintf("page_%d.png", p.Number), Path: p.Path}
		}
		return pdfops.WriteZip(out, entries)
	})
	if err != nil {
		return nil, err
	}
	return artifact(out, baseName(in.Filename)+"_images.zip"), nil
}

func (s *pdfService) FromImages(ctx context.Context, files []FileInput) (*domain.Artifact, error) {
	if len(files) == 0 {
		return nil, domain.ErrMissingFile
	}
	for _, f := range files {
		if _, err := requireExt(f.Filename, domain.ImageExtensions); err != nil {
			return nil, err
		}
	}

	entry := domain.LedgerEntry{
		Filename:         fmt.Sprintf("images_to_pdf_%s.pdf", shortID()),
		OriginalFilename: inputNames(files),
		FileType:         domain.Ext(files[0].Filename),
		Kind:             domain.OpImagesToPDF,
	}
	out, err := s.produce(ctx, entry, func(ws *workspace, out string) error {
		images := make([]string, len(files))
		for i, f := range files {
			p, err := ws.save(i, f)
			if err != nil {
				return err
			}
			images[i] = p
		}
		return engineError(s.engine.ImportImages(ctx, images, out))
	})
	if err != nil {
		return nil, err
	}
	return artifact(out, "images.pdf"), nil
}
