package tesseract_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"smartconv/internal/config"
	"smartconv/internal/domain"
	"smartconv/internal/ocr"
	"smartconv/internal/ocr/tesseract"
	"smartconv/internal/port"
	"smartconv/internal/toolrun"
)

const sampleTSV = "level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext\n" +
	"1\t1\t0\t0\t0\t0\t0\t0\t600\t400\t-1\t\n" +
	"2\t1\t1\t0\t0\t0\t10\t10\t200\t40\t-1\t\n" +
	"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t90\tHello\n" +
	"5\t1\t1\t1\t1\t2\t70\t10\t50\t20\t80\tworld\n" +
	"5\t1\t1\t1\t2\t1\t10\t40\t50\t20\t70\tagain\n" +
	"5\t1\t2\t1\t1\t1\t10\t200\t50\t20\t50\tTotal\n" +
	"5\t1\t2\t1\t1\t2\t10\t200\t50\t20\t-1\t \n"

func TestParseTSV_BlocksAndConfidence(t *testing.T) {
	out, err := tesseract.ParseTSV(strings.NewReader(sampleTSV))

	require.NoError(t, err)
	assert.Equal(t, "Hello world\nagain\n\nTotal", out.Text)
	require.Len(t, out.Confidences, 2)
	assert.InDelta(t, 0.8, out.Confidences[0], 1e-9)
	assert.InDelta(t, 0.5, out.Confidences[1], 1e-9)
}

func TestParseTSV_NoWords(t *testing.T) {
	out, err := tesseract.ParseTSV(strings.NewReader("level\tpage_num\n1\t1\t0\t0\t0\t0\t0\t0\t1\t1\t-1\t\n"))

	require.NoError(t, err)
	assert.Empty(t, out.Text)
	assert.Empty(t, out.Confidences)
}

func fakeTesseract(t *testing.T, tsv string) string {
	t.Helper()
	data := filepath.Join(t.TempDir(), "fixture.tsv")
	require.NoError(t, os.WriteFile(data, []byte(tsv), 0o644))
	script := "#!/bin/sh\ncp " + data + " \"$2.tsv\"\n"
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func TestRecognize_RunsTool(t *testing.T) {
	exe := fakeTesseract(t, sampleTSV)
	r := tesseract.New(exe, "eng", toolrun.NewRunner(5*time.Second, zap.NewNop()), zap.NewNop())

	require.True(t, r.IsConfigured())
	out, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("png"), MimeType: "image/png"})

	require.NoError(t, err)
	assert.Contains(t, out.Text, "Hello world")
	assert.Len(t, out.Confidences, 2)
}

func TestRecognize_ToolFailureIsBackendError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tesseract")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho 'Error opening data file' >&2\nexit 1\n"), 0o755))
	r := tesseract.New(path, "eng", toolrun.NewRunner(5*time.Second, zap.NewNop()), zap.NewNop())

	_, err := r.Recognize(context.Background(), port.RecognizeInput{Image: []byte("png"), MimeType: "image/png"})

	assert.True(t, errors.Is(err, domain.ErrOCRBackend))
}

func TestIsConfigured_MissingBinary(t *testing.T) {
	r := tesseract.New("smartconv-no-tesseract", "eng", nil, nil)
	assert.False(t, r.IsConfigured())
}

func TestRegisteredBackend_UsesToolsLogger(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	rec, err := ocr.NewRecognizer(context.Background(), &config.OCRConfig{Provider: "tesseract", Language: "deu"}, ocr.Tools{
		Runner:        toolrun.NewRunner(5*time.Second, zap.NewNop()),
		TesseractPath: fakeTesseract(t, sampleTSV),
		Logger:        zap.New(core),
	})
	require.NoError(t, err)

	_, err = rec.Recognize(context.Background(), port.RecognizeInput{Image: []byte("png"), MimeType: "image/png"})
	require.NoError(t, err)

	entries := logs.FilterMessage("tesseract.Recognize: recognised").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "deu", entries[0].ContextMap()["language"])
	assert.Equal(t, int64(2), entries[0].ContextMap()["blocks"])
}
