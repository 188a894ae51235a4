package handler

import (
	"github.com/gin-gonic/gin"

	"smartconv/internal/service"
)

// UploadHandler handles file uploads.
type UploadHandler struct {
	uploadService service.UploadService
}

// NewUploadHandler creates a new UploadHandler.
func NewUploadHandler(uploadService service.UploadService) *UploadHandler {
	return &UploadHandler{uploadService: uploadService}
}

// Upload handles POST /api/v1/upload
// @Summary Upload a file
// @Description Store a file locally and, when object storage is configured, in the bucket. Falls back to local storage with a warning.
// @Tags files
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "File to upload (png, jpg, jpeg, gif, pdf, doc, docx, txt)"
// @Success 201 {object} Response{data=service.UploadResult} "File stored"
// @Failure 400 {object} ErrorResponseBody "Missing file or unsupported type"
// @Failure 413 {object} ErrorResponseBody "File too large"
// @Router /upload [post]
func (h *UploadHandler) Upload(c *gin.Context) {
	in, closeFn, err := formFile(c, "file")
	if err != nil {
		HandleError(c, err)
		return
	}
	defer closeFn()

	result, err := h.uploadService.Upload(c.Request.Context(), in)
	if err != nil {
		HandleError(c, err)
		return
	}
	RespondCreated(c, result)
}
