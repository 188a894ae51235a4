package converter

import (
	"context"
	"fmt"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

var targetFormatRe = regexp.MustCompile(`^[a-z0-9]{2,5}$`)

// ValidTargetFormat reports whether target is an acceptable output extension.
func ValidTargetFormat(target string) bool {
	return targetFormatRe.MatchString(target)
}

// LibreOffice converts documents with a headless soffice process.
type LibreOffice struct {
	executable string
	runner     toolrun.Runner
	logger     *zap.Logger
}

// NewLibreOffice creates a converter that runs the given soffice executable.
func NewLibreOffice(executable string, runner toolrun.Runner, logger *zap.Logger) port.DocumentConverter {
	return &LibreOffice{executable: executable, runner: runner, logger: logger}
}

// Convert writes <outDir>/<base>.<targetFormat> and returns its path.
func (l *LibreOffice) Convert(ctx context.Context, inputPath, targetFormat, outDir string) (string, error) {
	targetFormat = strings.ToLower(targetFormat)
	if !ValidTargetFormat(targetFormat) {
		return "", fmt.Errorf("%w: target format %q", domain.ErrInvalidParameter, targetFormat)
	}

	base := strings.TrimSuffix(filepath.Base(inputPath), filepath.Ext(inputPath))
	expected := filepath.Join(outDir, base+"."+targetFormat)
	if filepath.Clean(expected) == filepath.Clean(inputPath) {
		return "", fmt.Errorf("%w: output directory must differ from the input's", domain.ErrInvalidParameter)
	}

	res, err := l.runner.Run(ctx, toolrun.Invocation{
		Tool:       "libreoffice",
		Executable: l.executable,
		Args: []string{
			"--headless",
			"--norestore",
			"--convert-to", targetFormat,
			"--outdir", outDir,
			inputPath,
		},
		ExpectedOutput: expected,
		ExpectPDF:      targetFormat == "pdf",
	})
	if err != nil {
		return "", fmt.Errorf("converter.Convert: %w", err)
	}

	l.logger.Info("converter.Convert: converted",
		zap.String("input", filepath.Base(inputPath)),
		zap.String("target", targetFormat),
		zap.Int64("size", res.Size),
		zap.Duration("elapsed", res.Duration),
	)
	return res.OutputPath, nil
}
