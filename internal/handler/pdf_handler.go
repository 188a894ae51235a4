package handler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// PDFHandler handles the PDF tool endpoints.
type PDFHandler struct {
	pdfService service.PDFService
}

// NewPDFHandler creates a new PDFHandler.
func NewPDFHandler(pdfService service.PDFService) *PDFHandler {
	return &PDFHandler{pdfService: pdfService}
}

// Merge handles POST /api/v1/pdf/merge
// @Summary Merge PDFs
// @Description Concatenate two or more PDFs in upload order.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/pdf
// @Param files formData []file true "PDFs to merge, in order" collectionFormat(multi)
// @Success 200 {file} binary "merged.pdf"
// @Failure 400 {object} ErrorResponseBody "Fewer than 2 files or non-PDF input"
// @Failure 413 {object} ErrorResponseBody "Request too large"
// @Failure 422 {object} ErrorResponseBody "A file could not be read as PDF"
// @Router /pdf/merge [post]
func (h *PDFHandler) Merge(c *gin.Context) {
	files, closeFn, err := formFiles(c, "files")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	art, err := h.pdfService.Merge(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}

// Split handles POST /api/v1/pdf/split
// @Summary Split a PDF
// @Description Split a PDF into single pages returned as a zip of page_N.pdf entries.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "PDF to split"
// @Success 200 {file} binary "split_pages.zip"
// @Failure 400 {object} ErrorResponseBody "Missing or non-PDF file"
// @Failure 422 {object} ErrorResponseBody "File could not be read as PDF"
// @Router /pdf/split [post]
func (h *PDFHandler) Split(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	art, err := h.pdfService.Split(c.Request.Context(), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}

// Compress handles POST /api/v1/pdf/compress
// @Summary Compress a PDF
// @Description Recompress a PDF. Levels above 80 are aggressive, 51-80 balanced, 50 and below high fidelity. Out-of-range levels are clamped to 1-100.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/pdf
// @Param file formData file true "PDF to compress"
// @Param level formData int false "Compression level 1-100" default(70)
// @Success 200 {file} binary "Compressed PDF"
// @Header 200 {string} X-Compression-Strategy "Strategy that produced the output"
// @Header 200 {string} X-Compression-Tier "Quality tier"
// @Header 200 {integer} X-Original-Size "Input size in bytes"
// @Failure 400 {object} ErrorResponseBody "Missing or non-PDF file, or non-numeric level"
// @Failure 422 {object} ErrorResponseBody "PDF could not be made smaller"
// @Failure 503 {object} ErrorResponseBody "No compression tool available"
// @Router /pdf/compress [post]
func (h *PDFHandler) Compress(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	level := service.DefaultCompressionLevel
	if raw := strings.TrimSpace(c.PostForm("level")); raw != "" {
		level, err = strconv.Atoi(raw)
		if err != nil {
			HandleError(c, fmt.Errorf("%w: level must be an integer", domain.ErrInvalidParameter))
			return
		}
	}

	out, err := h.pdfService.Compress(c.Request.Context(), in, level)
	if err != nil {
		HandleError(c, err)
		return
	}
	c.Header("X-Compression-Strategy", out.Strategy)
	c.Header("X-Compression-Tier", out.Tier)
	c.Header("X-Original-Size", strconv.FormatInt(out.OriginalSize, 10))
	sendArtifact(c, &out.Artifact)
}

// ToImages handles POST /api/v1/pdf/to-images
// @Summary Render PDF pages
// @Description Render every page to PNG and return a zip of page_N.png entries.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/zip
// @Param file formData file true "PDF to render"
// @Success 200 {file} binary "Zip of page images"
// @Failure 400 {object} ErrorResponseBody "Missing or non-PDF file"
// @Failure 422 {object} ErrorResponseBody "File could not be rendered"
// @Router /pdf/to-images [post]
func (h *PDFHandler) ToImages(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	art, err := h.pdfService.ToImages(c.Request.Context(), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}

// FromImages handles POST /api/v1/pdf/from-images
// @Summary Build a PDF from images
// @Description One page per image, in upload order.
// @Tags pdf
// @Accept multipart/form-data
// @Produce application/pdf
// @Param files formData []file true "Images (png, jpg, jpeg)" collectionFormat(multi)
// @Success 200 {file} binary "images.pdf"
// @Failure 400 {object} ErrorResponseBody "No images or unsupported type"
// @Failure 422 {object} ErrorResponseBody "An image could not be read"
// @Router /pdf/from-images [post]
func (h *PDFHandler) FromImages(c *gin.Context) {
	files, closeFn, err := formFiles(c, "files")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	art, err := h.pdfService.FromImages(c.Request.Context(), files)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}
