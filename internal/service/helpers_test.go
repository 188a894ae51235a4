package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartconv/internal/config"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
	"smartconv/internal/service"
)

func testFiles(t *testing.T) config.FilesConfig {
	t.Helper()
	root := t.TempDir()
	return config.FilesConfig{
		UploadDir:    filepath.Join(root, "uploads"),
		ProcessedDir: filepath.Join(root, "processed"),
		MaxUploadMB:  16,
	}
}

func fileInput(name string, content []byte) service.FileInput {
	return service.FileInput{Filename: name, Size: int64(len(content)), Content: bytes.NewReader(content)}
}

func pngBytes(t *testing.T, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 60, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 60; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

// pdfBytes builds an n-page PDF and returns its contents.
func pdfBytes(t *testing.T, engine port.PDFEngine, pages int) []byte {
	t.Helper()
	colours := make([]color.RGBA, pages)
	for i := range colours {
		colours[i] = color.RGBA{uint8(30 * i), 120, 200, 255}
	}
	return pdfColourBytes(t, engine, colours...)
}

// pdfColourBytes builds a PDF with one solid page per colour.
func pdfColourBytes(t *testing.T, engine port.PDFEngine, colours ...color.RGBA) []byte {
	t.Helper()
	dir := t.TempDir()
	var imgs []string
	for i, c := range colours {
		p := filepath.Join(dir, fmt.Sprintf("src_%d.png", i))
		require.NoError(t, os.WriteFile(p, pngBytes(t, c), 0o644))
		imgs = append(imgs, p)
	}
	out := filepath.Join(dir, "fixture.pdf")
	require.NoError(t, engine.ImportImages(context.Background(), imgs, out))
	data, err := os.ReadFile(out)
	require.NoError(t, err)
	return data
}

// centreColours renders each page of pdf and samples its centre pixel.
func centreColours(t *testing.T, pdf string) []color.RGBA {
	t.Helper()
	pages, err := pdfops.NewRasterizer(zap.NewNop()).RenderPNG(context.Background(), pdf, t.TempDir(), 36)
	require.NoError(t, err)
	out := make([]color.RGBA, len(pages))
	for i, p := range pages {
		f, err := os.Open(p.Path)
		require.NoError(t, err)
		img, err := png.Decode(f)
		require.NoError(t, f.Close())
		require.NoError(t, err)
		b := img.Bounds()
		r, g, bl, _ := img.At(b.Min.X+b.Dx()/2, b.Min.Y+b.Dy()/2).RGBA()
		out[i] = color.RGBA{uint8(r >> 8), uint8(g >> 8), uint8(bl >> 8), 255}
	}
	return out
}

func sameColour(a, b color.RGBA) bool {
	near := func(x, y uint8) bool {
		d := int(x) - int(y)
		return d > -12 && d < 12
	}
	return near(a.R, b.R) && near(a.G, b.G) && near(a.B, b.B)
}

// unzip extracts every entry of the archive into a temp dir, in order.
func unzip(t *testing.T, path string) []string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	require.NoError(t, err)
	defer zr.Close()
	dir := t.TempDir()
	var out []string
	for _, f := range zr.File {
		rc, err := f.Open()
		require.NoError(t, err)
		data, err := io.ReadAll(rc)
		require.NoError(t, rc.Close())
		require.NoError(t, err)
		dst := filepath.Join(dir, f.Name)
		require.NoError(t, os.WriteFile(dst, data, 0o644))
		out = append(out, dst)
	}
	return out
}

// dirEntries lists names in dir, or nil when it does not exist.
func dirEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil
	}
	require.NoError(t, err)
	names := make([]string, len(entries))
	for i, e := range entries {
		names[i] = e.Name()
	}
	return names
}

func colorAt(i int) color.Color {
	return color.RGBA{uint8(20 + 70*i), uint8(200 - 50*i), 90, 255}
}
