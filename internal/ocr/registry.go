package ocr

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

// Tools are local collaborators a backend may need.
type Tools struct {
	Runner        toolrun.Runner
	TesseractPath string
	Logger        *zap.Logger
}

// BackendFactory creates a TextRecognizer from OCR config.
type BackendFactory func(ctx context.Context, cfg *config.OCRConfig, tools Tools) (port.TextRecognizer, error)

// registry of OCR backend factories, populated by init() in each backend package
// or explicitly via RegisterBackend.
var backends = map[string]BackendFactory{}

// RegisterBackend registers an OCR backend factory by name.
func RegisterBackend(name string, factory BackendFactory) {
	backends[name] = factory
}

// NewRecognizer creates the configured backend. A provider of "none" or one
// whose construction fails yields an Unconfigured recognizer together with
// the reason, so callers can log it and keep serving other operations.
func NewRecognizer(ctx context.Context, cfg *config.OCRConfig, tools Tools) (port.TextRecognizer, error) {
	if cfg.Provider == "" || cfg.Provider == "none" {
		return &Unconfigured{Reason: "no OCR provider configured"}, nil
	}
	factory, ok := backends[cfg.Provider]
	if !ok {
		err := fmt.Errorf("unknown OCR provider: %s", cfg.Provider)
		return &Unconfigured{Reason: err.Error()}, err
	}
	r, err := factory(ctx, cfg, tools)
	if err != nil {
		err = fmt.Errorf("ocr.NewRecognizer: %s: %w", cfg.Provider, err)
		return &Unconfigured{Reason: err.Error()}, err
	}
	return r, nil
}
