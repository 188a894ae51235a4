package compress

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

// Result describes an accepted compression.
type Result struct {
	Strategy     string
	Tier         string
	OriginalSize int64
	Size         int64
}

// Chain tries strategies in order and keeps the first output that is a valid
// PDF with the same page count as the input and strictly smaller than it.
type Chain struct {
	strategies []port.Compressor
	engine     port.PDFEngine
	logger     *zap.Logger
}

// NewChain creates a Chain over the given strategies.
func NewChain(strategies []port.Compressor, engine port.PDFEngine, logger *zap.Logger) *Chain {
	return &Chain{strategies: strategies, engine: engine, logger: logger}
}

// Names returns the strategy names in order.
func (c *Chain) Names() []string {
	names := make([]string, len(c.strategies))
	for i, s := range c.strategies {
		names[i] = s.Name()
	}
	return names
}

// Compress writes the compressed PDF to outputPath. If no strategy produces
// an acceptable result, outputPath does not exist afterwards. The error wraps
// domain.ErrNotCompressible when some strategy produced output, otherwise the
// strategies' tool error.
func (c *Chain) Compress(ctx context.Context, inputPath, outputPath string, level int) (*Result, error) {
	info, err := os.Stat(inputPath)
	if err != nil {
		return nil, fmt.Errorf("compress.Chain: %w", err)
	}
	pages, err := c.engine.PageCount(ctx, inputPath)
	if err != nil {
		return nil, fmt.Errorf("compress.Chain: reading input: %w", err)
	}

	tier := TierFor(level)
	var hardErr error
	produced := 0

	for i, s := range c.strategies {
		candidate := filepath.Join(filepath.Dir(outputPath), fmt.Sprintf(".%d-%s-%s", i, s.Name(), filepath.Base(outputPath)))

		err := s.Compress(ctx, port.CompressInput{InputPath: inputPath, OutputPath: candidate, Tier: tier})
		if err != nil {
			c.logger.Warn("compress.Chain: strategy failed",
				zap.String("strategy", s.Name()),
				zap.String("tier", tier.Name),
				zap.Error(err),
			)
			// A timeout outranks other failures.
			if hardErr == nil || (errors.Is(err, domain.ErrToolTimeout) && !errors.Is(hardErr, domain.ErrToolTimeout)) {
				hardErr = err
			}
			_ = os.Remove(candidate)
			continue
		}
		produced++

		size, reason := c.accept(ctx, candidate, info.Size(), pages)
		if reason != "" {
			c.logger.Info("compress.Chain: result rejected",
				zap.String("strategy", s.Name()),
				zap.String("reason", reason),
			)
			_ = os.Remove(candidate)
			continue
		}

		if err := os.Rename(candidate, outputPath); err != nil {
			_ = os.Remove(candidate)
			return nil, fmt.Errorf("compress.Chain: %w", err)
		}
		c.logger.Info("compress.Chain: compressed",
			zap.String("strategy", s.Name()),
			zap.String("tier", tier.Name),
			zap.Int64("original_size", info.Size()),
			zap.Int64("size", size),
		)
		return &Result{Strategy: s.Name(), Tier: tier.Name, OriginalSize: info.Size(), Size: size}, nil
	}

	if produced > 0 || hardErr == nil {
		return nil, domain.ErrNotCompressible
	}
	// No strategy produced a candidate: report the tool, not the input.
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("compress.Chain: %w", ctxErr)
	}
	if errors.Is(hardErr, domain.ErrToolTimeout) || errors.Is(hardErr, domain.ErrToolUnavailable) || errors.Is(hardErr, domain.ErrToolFailure) {
		return nil, fmt.Errorf("compress.Chain: %w", hardErr)
	}
	return nil, fmt.Errorf("compress.Chain: %w: %v", domain.ErrToolFailure, hardErr)
}

// accept returns the candidate size, or a non-empty rejection reason.
func (c *Chain) accept(ctx context.Context, candidate string, originalSize int64, pages int) (int64, string) {
	info, err := os.Stat(candidate)
	if err != nil || info.Size() == 0 {
		return 0, "output missing or empty"
	}
	if ok, _ := toolrun.HasPDFMagic(candidate); !ok {
		return 0, "output is not a PDF"
	}
	n, err := c.engine.PageCount(ctx, candidate)
	if err != nil {
		return 0, "output is not a readable PDF"
	}
	if n != pages {
		return 0, fmt.Sprintf("page count %d differs from input %d", n, pages)
	}
	if info.Size() >= originalSize {
		return 0, "output is not smaller than input"
	}
	return info.Size(), ""
}
