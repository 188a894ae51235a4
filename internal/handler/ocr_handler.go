package handler

import (
	"github.com/gin-gonic/gin"

	"smartconv/internal/service"
)

// OCRHandler handles text extraction endpoints.
type OCRHandler struct {
	ocrService service.OCRService
}

// NewOCRHandler creates a new OCRHandler.
func NewOCRHandler(ocrService service.OCRService) *OCRHandler {
	return &OCRHandler{ocrService: ocrService}
}

// Extract handles POST /api/v1/ocr
// @Summary Extract text
// @Description Run OCR over an image or every page of a PDF.
// @Tags ocr
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Image or PDF (png, jpg, jpeg, gif, pdf)"
// @Success 200 {object} Response{data=service.OCRResult} "Extracted text; empty text means nothing was found"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 502 {object} ErrorResponseBody "OCR backend error"
// @Failure 503 {object} ErrorResponseBody "OCR backend not configured"
// @Router /ocr [post]
func (h *OCRHandler) Extract(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	result, err := h.ocrService.Extract(c.Request.Context(), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondOK(c, result)
}

// SaveText handles POST /api/v1/ocr/save-text
// @Summary Download extracted text
// @Description Return the submitted text as a .txt attachment named after the source file.
// @Tags ocr
// @Accept x-www-form-urlencoded
// @Produce text/plain
// @Param text_content formData string true "Text to save"
// @Param original_filename formData string false "Source file name"
// @Success 200 {file} binary "Text file"
// @Failure 400 {object} ErrorResponseBody "No text to save"
// @Router /ocr/save-text [post]
func (h *OCRHandler) SaveText(c *gin.Context) {
	art, err := h.ocrService.SaveText(c.Request.Context(), c.PostForm("text_content"), c.PostForm("original_filename"))
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}
