package pdfops_test

import (
	"archive/zip"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"smartconv/internal/pdfops"
	"smartconv/internal/port"
)

// writePNG creates a small solid-colour PNG.
func writePNG(t *testing.T, dir, name string, c color.Color) string {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 80))
	for y := 0; y < 80; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, c)
		}
	}
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, img))
	require.NoError(t, f.Close())
	return path
}

// shade is the colour makePDF gives page i.
func shade(i int) color.RGBA {
	return color.RGBA{uint8(40 * i), 90, 160, 255}
}

// makePDF builds an n-page PDF from generated images.
func makePDF(t *testing.T, engine port.PDFEngine, dir, name string, n int) string {
	t.Helper()
	colours := make([]color.RGBA, n)
	for i := range colours {
		colours[i] = shade(i)
	}
	return makePDFColours(t, engine, dir, name, colours...)
}

// makePDFColours builds a PDF with one solid page per colour.
func makePDFColours(t *testing.T, engine port.PDFEngine, dir, name string, colours ...color.RGBA) string {
	t.Helper()
	var imgs []string
	for i, c := range colours {
		imgs = append(imgs, writePNG(t, dir, fmt.Sprintf("%s_src_%d.png", name, i), c))
	}
	out := filepath.Join(dir, name)
	require.NoError(t, engine.ImportImages(context.Background(), imgs, out))
	return out
}

// pageColours renders every page of pdf and samples its centre pixel.
func pageColours(t *testing.T, pdf string) []color.RGBA {
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

func assertSameColour(t *testing.T, want, got color.RGBA, msgAndArgs ...interface{}) {
	t.Helper()
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d > -12 && d < 12
	}
	assert.True(t, near(want.R, got.R) && near(want.G, got.G) && near(want.B, got.B),
		append([]interface{}{"want %v got %v", want, got}, msgAndArgs...)...)
}

func TestImportImages_OnePagePerImage(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	dir := t.TempDir()

	pdf := makePDF(t, engine, dir, "three.pdf", 3)

	n, err := engine.PageCount(context.Background(), pdf)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestMerge_PageCountIsSum(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	dir := t.TempDir()
	a := makePDF(t, engine, dir, "a.pdf", 2)
	b := makePDF(t, engine, dir, "b.pdf", 3)
	out := filepath.Join(dir, "merged.pdf")

	require.NoError(t, engine.Merge(context.Background(), []string{a, b}, out))

	n, err := engine.PageCount(context.Background(), out)
	require.NoError(t, err)
	assert.Equal(t, 5, n)
}

func TestMerge_KeepsInputOrder(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	dir := t.TempDir()
	red := color.RGBA{220, 30, 30, 255}
	green := color.RGBA{30, 200, 40, 255}
	blue := color.RGBA{30, 40, 220, 255}
	a := makePDFColours(t, engine, dir, "a.pdf", red, green)
	b := makePDFColours(t, engine, dir, "b.pdf", blue)

	ab := filepath.Join(dir, "ab.pdf")
	require.NoError(t, engine.Merge(context.Background(), []string{a, b}, ab))
	ba := filepath.Join(dir, "ba.pdf")
	require.NoError(t, engine.Merge(context.Background(), []string{b, a}, ba))

	for name, tc := range map[string]struct {
		path string
		want []color.RGBA
	}{
		"ab": {ab, []color.RGBA{red, green, blue}},
		"ba": {ba, []color.RGBA{blue, red, green}},
	} {
		got := pageColours(t, tc.path)
		require.Len(t, got, len(tc.want), name)
		for i := range tc.want {
			assertSameColour(t, tc.want[i], got[i], "%s page %d", name, i+1)
		}
	}
}

func TestSplit_OnePDFPerPageInOrder(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	dir := t.TempDir()
	pdf := makePDF(t, engine, dir, "doc.pdf", 4)
	outDir := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	pages, err := engine.Split(context.Background(), pdf, outDir)

	require.NoError(t, err)
	require.Len(t, pages, 4)
	for i, p := range pages {
		assert.Equal(t, fmt.Sprintf("doc_%d.pdf", i+1), filepath.Base(p))
		n, err := engine.PageCount(context.Background(), p)
		require.NoError(t, err)
		assert.Equal(t, 1, n)
		got := pageColours(t, p)
		require.Len(t, got, 1)
		assertSameColour(t, shade(i), got[0], "page %d", i+1)
	}
}

func TestSplit_UpperCaseExtension(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	dir := t.TempDir()
	pdf := makePDF(t, engine, dir, "SCAN.PDF", 3)
	outDir := filepath.Join(dir, "pages")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	pages, err := engine.Split(context.Background(), pdf, outDir)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		got := pageColours(t, p)
		require.Len(t, got, 1)
		assertSameColour(t, shade(i), got[0], "page %d", i+1)
	}
}

func TestRoundTrip_ImagesToPDFToImages(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	raster := pdfops.NewRasterizer(zap.NewNop())
	dir := t.TempDir()
	pdf := makePDF(t, engine, dir, "rt.pdf", 3)
	outDir := filepath.Join(dir, "render")
	require.NoError(t, os.Mkdir(outDir, 0o755))

	pages, err := raster.RenderPNG(context.Background(), pdf, outDir, 72)

	require.NoError(t, err)
	require.Len(t, pages, 3)
	for i, p := range pages {
		assert.Equal(t, i+1, p.Number)
		assert.Equal(t, fmt.Sprintf("page_%d.png", i+1), filepath.Base(p.Path))
		assert.FileExists(t, p.Path)
	}
}

func TestRenderJPEG(t *testing.T) {
	engine := pdfops.NewEngine(zap.NewNop())
	raster := pdfops.NewRasterizer(zap.NewNop())
	dir := t.TempDir()
	pdf := makePDF(t, engine, dir, "j.pdf", 1)

	pages, err := raster.RenderJPEG(context.Background(), pdf, dir, 72, 50)

	require.NoError(t, err)
	require.Len(t, pages, 1)
	assert.Equal(t, "page_1.jpg", filepath.Base(pages[0].Path))
}

func TestRender_NotAPDF(t *testing.T) {
	raster := pdfops.NewRasterizer(zap.NewNop())
	dir := t.TempDir()
	bogus := filepath.Join(dir, "bogus.pdf")
	require.NoError(t, os.WriteFile(bogus, []byte("nope"), 0o644))

	_, err := raster.RenderPNG(context.Background(), bogus, dir, 72)
	assert.Error(t, err)
}

func TestWriteZip_EntriesInOrder(t *testing.T) {
	dir := t.TempDir()
	var entries []pdfops.ZipEntry
	for i := 1; i <= 3; i++ {
		p := filepath.Join(dir, fmt.Sprintf("src%d", i))
		require.NoError(t, os.WriteFile(p, []byte(fmt.Sprintf("content %d", i)), 0o644))
		entries = append(entries, pdfops.ZipEntry{Name: fmt.Sprintf("page_%d.pdf", i), Path: p})
	}
	dst := filepath.Join(dir, "out.zip")

	require.NoError(t, pdfops.WriteZip(dst, entries))

	zr, err := zip.OpenReader(dst)
	require.NoError(t, err)
	defer zr.Close()
	require.Len(t, zr.File, 3)
	for i, f := range zr.File {
		assert.Equal(t, fmt.Sprintf("page_%d.pdf", i+1), f.Name)
	}
}

func TestWriteZip_MissingSourceRemovesArchive(t *testing.T) {
	dir := t.TempDir()
	dst := filepath.Join(dir, "out.zip")

	err := pdfops.WriteZip(dst, []pdfops.ZipEntry{{Name: "a", Path: filepath.Join(dir, "missing")}})

	assert.Error(t, err)
	assert.NoFileExists(t, dst)
}
