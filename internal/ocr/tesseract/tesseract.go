// Package tesseract recognises text with a local tesseract binary.
package tesseract

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/ocr"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

const backendName = "tesseract"

func init() {
	ocr.RegisterBackend(backendName, func(_ context.Context, cfg *config.OCRConfig, tools ocr.Tools) (port.TextRecognizer, error) {
		if tools.Runner == nil {
			return nil, fmt.Errorf("tool runner is required")
		}
		return New(tools.TesseractPath, cfg.Language, tools.Runner, tools.Logger), nil
	})
}

// Recognizer runs "tesseract <image> <outbase> -l <lang> tsv".
type Recognizer struct {
	executable string
	language   string
	runner     toolrun.Runner
	logger     *zap.Logger
}

func New(executable, language string, runner toolrun.Runner, logger *zap.Logger) *Recognizer {
	if language == "" {
		language = "eng"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recognizer{executable: executable, language: language, runner: runner, logger: logger}
}

func (r *Recognizer) Name() string { return backendName }

// IsConfigured reports whether the tesseract binary is on PATH.
func (r *Recognizer) IsConfigured() bool {
	return toolrun.Available(r.executable)
}

func (r *Recognizer) Recognize(ctx context.Context, input port.RecognizeInput) (*port.RecognizeOutput, error) {
	dir, err := os.MkdirTemp("", "tesseract-*")
	if err != nil {
		return nil, fmt.Errorf("tesseract.Recognize: %w", err)
	}
	defer os.RemoveAll(dir)

	ext := ".png"
	if input.MimeType == "image/jpeg" {
		ext = ".jpg"
	} else if input.MimeType == "image/gif" {
		ext = ".gif"
	}
	in := filepath.Join(dir, "page"+ext)
	if err := os.WriteFile(in, input.Image, 0o600); err != nil {
		return nil, fmt.Errorf("tesseract.Recognize: %w", err)
	}

	outBase := filepath.Join(dir, "out")
	res, err := r.runner.Run(ctx, toolrun.Invocation{
		Tool:           backendName,
		Executable:     r.executable,
		Args:           []string{in, outBase, "-l", r.language, "tsv"},
		ExpectedOutput: outBase + ".tsv",
	})
	if err != nil {
		return nil, ocr.NewBackendError(backendName, "recognition failed", err)
	}

	f, err := os.Open(res.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("tesseract.Recognize: %w", err)
	}
	defer f.Close()

	out, err := ParseTSV(f)
	if err != nil {
		return nil, ocr.NewBackendError(backendName, "reading tsv output", err)
	}
	r.logger.Debug("tesseract.Recognize: recognised",
		zap.String("language", r.language),
		zap.Int("blocks", len(out.Confidences)),
		zap.Duration("elapsed", res.Duration),
	)
	return out, nil
}

type word struct {
	block, par, line int
	conf             float64
	text             string
}

// ParseTSV turns tesseract TSV into text and one confidence per block.
// Word confidences (0-100) are averaged per block and scaled to [0,1].
func ParseTSV(r io.Reader) (*port.RecognizeOutput, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var words []word
	header := true
	for sc.Scan() {
		if header {
			header = false
			continue
		}
		cols := strings.Split(sc.Text(), "\t")
		if len(cols) < 12 || cols[0] != "5" {
			continue
		}
		text := strings.TrimSpace(cols[11])
		conf, err := strconv.ParseFloat(cols[10], 64)
		if err != nil || conf < 0 || text == "" {
			continue
		}
		block, _ := strconv.Atoi(cols[2])
		par, _ := strconv.Atoi(cols[3])
		line, _ := strconv.Atoi(cols[4])
		words = append(words, word{block: block, par: par, line: line, conf: conf, text: text})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}

	out := &port.RecognizeOutput{}
	if len(words) == 0 {
		return out, nil
	}

	var sb strings.Builder
	var sum float64
	var n int
	prev := words[0]
	flush := func() {
		out.Confidences = append(out.Confidences, sum/float64(n)/100)
		sum, n = 0, 0
	}
	for i, w := range words {
		if i > 0 {
			switch {
			case w.block != prev.block:
				flush()
				sb.WriteString("\n\n")
			case w.par != prev.par || w.line != prev.line:
				sb.WriteString("\n")
			default:
				sb.WriteString(" ")
			}
		}
		sb.WriteString(w.text)
		sum += w.conf
		n++
		prev = w
	}
	flush()
	out.Text = sb.String()
	return out, nil
}
