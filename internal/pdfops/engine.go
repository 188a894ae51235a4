package pdfops

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"

	"smartconv/internal/port"
)

// Engine implements port.PDFEngine on top of pdfcpu.
type Engine struct {
	logger *zap.Logger
}

// NewEngine creates a pdfcpu-backed PDF engine.
func NewEngine(logger *zap.Logger) port.PDFEngine {
	return &Engine{logger: logger}
}

func relaxedConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// Merge concatenates inputs in order into outputPath.
func (e *Engine) Merge(ctx context.Context, inputs []string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := api.MergeCreateFile(inputs, outputPath, false, relaxedConfig()); err != nil {
		return fmt.Errorf("pdfops.Merge: %w", err)
	}
	return nil
}

// Split writes one single-page PDF per page of inputPath into outDir.
func (e *Engine) Split(ctx context.Context, inputPath, outDir string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := api.SplitFile(inputPath, outDir, 1, relaxedConfig()); err != nil {
		return nil, fmt.Errorf("pdfops.Split: %w", err)
	}

	// pdfcpu names span-1 parts <name>_<page>.pdf, where <name> keeps or
	// drops the input extension depending on its case. outDir holds only
	// this split, so every <anything>_<n>.pdf in it is a page.
	entries, err := os.ReadDir(outDir)
	if err != nil {
		return nil, fmt.Errorf("pdfops.Split: listing pages: %w", err)
	}

	type part struct {
		page int
		path string
	}
	parts := make([]part, 0, len(entries))
	for _, ent := range entries {
		if ent.IsDir() {
			continue
		}
		n, ok := pageSuffix(ent.Name())
		if !ok {
			continue
		}
		parts = append(parts, part{page: n, path: filepath.Join(outDir, ent.Name())})
	}
	sort.Slice(parts, func(i, j int) bool { return parts[i].page < parts[j].page })

	pages := make([]string, len(parts))
	for i, p := range parts {
		pages[i] = p.path
	}
	return pages, nil
}

// pageSuffix extracts n from a split part named <stem>_<n>.pdf.
func pageSuffix(name string) (int, bool) {
	if !strings.EqualFold(filepath.Ext(name), ".pdf") {
		return 0, false
	}
	stem := name[:len(name)-len(".pdf")]
	i := strings.LastIndexByte(stem, '_')
	if i < 0 {
		return 0, false
	}
	n, err := strconv.Atoi(stem[i+1:])
	if err != nil || n < 1 {
		return 0, false
	}
	return n, true
}

// PageCount returns the number of pages in the PDF at path.
func (e *Engine) PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("pdfops.PageCount: %w", err)
	}
	defer f.Close()

	n, err := api.PageCount(f, relaxedConfig())
	if err != nil {
		return 0, fmt.Errorf("pdfops.PageCount: %w", err)
	}
	return n, nil
}

// ImportImages builds a PDF at outputPath with one page per image, in order.
func (e *Engine) ImportImages(ctx context.Context, images []string, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	// pdfcpu appends to an existing file, so start fresh.
	if err := os.Remove(outputPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("pdfops.ImportImages: %w", err)
	}
	if err := api.ImportImagesFile(images, outputPath, pdfcpu.DefaultImportConfig(), relaxedConfig()); err != nil {
		return fmt.Errorf("pdfops.ImportImages: %w", err)
	}
	return nil
}

// Optimize rewrites inputPath to outputPath removing redundant objects.
func (e *Engine) Optimize(ctx context.Context, inputPath, outputPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := api.OptimizeFile(inputPath, outputPath, relaxedConfig()); err != nil {
		return fmt.Errorf("pdfops.Optimize: %w", err)
	}
	return nil
}
