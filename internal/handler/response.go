package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"smartconv/internal/domain"
	"smartconv/internal/middleware"
)

// APIResponse is the standard envelope for all JSON responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    *PagMeta    `json:"meta,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PagMeta holds pagination metadata.
type PagMeta struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondCreated sends a 201 success response.
func RespondCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// RespondPaginated sends a 200 success response with pagination metadata.
func RespondPaginated(c *gin.Context, data interface{}, meta PagMeta) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data, Meta: &meta})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
// OCR backend errors may wrap tool errors, so they are matched first.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "NOT_FOUND", "resource not found"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", middleware.FileTooLargeMessage(middleware.DefaultMaxUploadMB)
	case errors.Is(err, domain.ErrMissingFile):
		return http.StatusBadRequest, "MISSING_FILE", "no file selected"
	case errors.Is(err, domain.ErrInsufficientInputs):
		return http.StatusBadRequest, "INSUFFICIENT_INPUTS", "please select at least 2 PDF files to merge"
	case errors.Is(err, domain.ErrInvalidParameter):
		return http.StatusBadRequest, "INVALID_PARAMETER", "invalid request parameter"
	case errors.Is(err, domain.ErrInvalidDownloadToken):
		return http.StatusForbidden, "INVALID_DOWNLOAD_TOKEN", "download link is invalid or has expired"
	case errors.Is(err, domain.ErrNotCompressible):
		return http.StatusUnprocessableEntity, "NOT_COMPRESSIBLE", "the PDF could not be made any smaller"
	case errors.Is(err, domain.ErrOCRBackendUnavailable):
		return http.StatusServiceUnavailable, "OCR_UNAVAILABLE", "text recognition is not configured"
	case errors.Is(err, domain.ErrOCRBackend):
		return http.StatusBadGateway, "OCR_FAILED", "text recognition failed"
	case errors.Is(err, domain.ErrToolUnavailable):
		return http.StatusServiceUnavailable, "TOOL_UNAVAILABLE", "a required processing tool is not installed"
	case errors.Is(err, domain.ErrToolTimeout):
		return http.StatusGatewayTimeout, "TOOL_TIMEOUT", "processing timed out"
	case errors.Is(err, domain.ErrToolFailure):
		return http.StatusUnprocessableEntity, "PROCESSING_FAILED", "the file could not be processed"
	case errors.Is(err, domain.ErrStorageUnavailable):
		return http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE", "cloud storage is not configured"
	case errors.Is(err, domain.ErrUploadFailed):
		return http.StatusInternalServerError, "UPLOAD_FAILED", "file upload to storage failed"
	case errors.Is(err, domain.ErrPersistence):
		return http.StatusInternalServerError, "PERSISTENCE_ERROR", "the result could not be recorded"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status == http.StatusRequestEntityTooLarge {
		msg = middleware.FileTooLargeMessage(middleware.MaxUploadMB(c))
	}
	if status >= 500 {
		middleware.LoggerFrom(c).Error("internal error",
			zap.String("code", code), zap.Error(err))
	}
	RespondError(c, status, code, msg)
}

func parsePagination(c *gin.Context) (offset, limit int) {
	offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	if offset < 0 {
		offset = 0
	}
	return offset, limit
}
