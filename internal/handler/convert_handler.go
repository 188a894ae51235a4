package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"smartconv/internal/service"
)

// ConvertHandler handles generic format conversion.
type ConvertHandler struct {
	convertService service.ConvertService
}

// NewConvertHandler creates a new ConvertHandler.
func NewConvertHandler(convertService service.ConvertService) *ConvertHandler {
	return &ConvertHandler{convertService: convertService}
}

// Convert handles POST /api/v1/convert
// @Summary Convert a document
// @Description Convert a document to another format with LibreOffice and return it as an attachment.
// @Tags convert
// @Accept multipart/form-data
// @Produce application/octet-stream
// @Param file formData file true "Document to convert"
// @Param target_format formData string true "Target extension, e.g. pdf, docx, odt, txt"
// @Success 200 {file} binary "Converted document"
// @Failure 400 {object} ErrorResponseBody "Missing file, unsupported type or bad target format"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Failure 422 {object} ErrorResponseBody "Conversion failed"
// @Failure 503 {object} ErrorResponseBody "LibreOffice not installed"
// @Failure 504 {object} ErrorResponseBody "Conversion timed out"
// @Router /convert [post]
func (h *ConvertHandler) Convert(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	target := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(c.PostForm("target_format")), "."))
	art, err := h.convertService.Convert(c.Request.Context(), in, target)
	if err != nil {
		HandleError(c, err)
		return
	}
	sendArtifact(c, art)
}
