package compress

import (
	"context"
	"fmt"

	"smartconv/internal/port"
)

// Optimize rewrites the PDF structure without touching image data.
type Optimize struct {
	engine port.PDFEngine
}

func NewOptimize(engine port.PDFEngine) *Optimize {
	return &Optimize{engine: engine}
}

func (o *Optimize) Name() string { return "optimize" }

func (o *Optimize) Compress(ctx context.Context, in port.CompressInput) error {
	if err := o.engine.Optimize(ctx, in.InputPath, in.OutputPath); err != nil {
		return fmt.Errorf("compress.Optimize: %w", err)
	}
	return nil
}
