package compress

import (
	"context"
	"fmt"

	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

// Ghostscript recompresses a PDF with the pdfwrite device.
type Ghostscript struct {
	executable string
	runner     toolrun.Runner
}

// NewGhostscript creates the tool-recompress strategy.
func NewGhostscript(executable string, runner toolrun.Runner) *Ghostscript {
	return &Ghostscript{executable: executable, runner: runner}
}

func (g *Ghostscript) Name() string { return "ghostscript" }

func (g *Ghostscript) Compress(ctx context.Context, in port.CompressInput) error {
	_, err := g.runner.Run(ctx, toolrun.Invocation{
		Tool:       "ghostscript",
		Executable: g.executable,
		Args: []string{
			"-sDEVICE=pdfwrite",
			"-dCompatibilityLevel=1.4",
			"-dPDFSETTINGS=" + in.Tier.GSPreset,
			"-dDownsampleColorImages=true",
			fmt.Sprintf("-dColorImageResolution=%d", in.Tier.DPI),
			"-dDownsampleGrayImages=true",
			fmt.Sprintf("-dGrayImageResolution=%d", in.Tier.DPI),
			"-dNOPAUSE",
			"-dQUIET",
			"-dBATCH",
			"-sOutputFile=" + in.OutputPath,
			in.InputPath,
		},
		ExpectedOutput: in.OutputPath,
		ExpectPDF:      true,
	})
	if err != nil {
		return fmt.Errorf("compress.Ghostscript: %w", err)
	}
	return nil
}
