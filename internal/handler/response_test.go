package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"smartconv/internal/domain"
	"smartconv/internal/handler"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"not found", domain.ErrNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"unsupported type", fmt.Errorf("%w: .exe", domain.ErrUnsupportedFileType), http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE"},
		{"too large", domain.ErrFileTooLarge, http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"missing file", domain.ErrMissingFile, http.StatusBadRequest, "MISSING_FILE"},
		{"insufficient inputs", domain.ErrInsufficientInputs, http.StatusBadRequest, "INSUFFICIENT_INPUTS"},
		{"invalid parameter", domain.ErrInvalidParameter, http.StatusBadRequest, "INVALID_PARAMETER"},
		{"bad token", domain.ErrInvalidDownloadToken, http.StatusForbidden, "INVALID_DOWNLOAD_TOKEN"},
		{"not compressible", domain.ErrNotCompressible, http.StatusUnprocessableEntity, "NOT_COMPRESSIBLE"},
		{"ocr unconfigured", domain.ErrOCRBackendUnavailable, http.StatusServiceUnavailable, "OCR_UNAVAILABLE"},
		{"ocr wraps tool failure", fmt.Errorf("%w: %w", domain.ErrOCRBackend, domain.ErrToolFailure), http.StatusBadGateway, "OCR_FAILED"},
		{"tool unavailable", domain.ErrToolUnavailable, http.StatusServiceUnavailable, "TOOL_UNAVAILABLE"},
		{"tool timeout", domain.ErrToolTimeout, http.StatusGatewayTimeout, "TOOL_TIMEOUT"},
		{"tool failure", domain.ErrToolFailure, http.StatusUnprocessableEntity, "PROCESSING_FAILED"},
		{"storage unavailable", domain.ErrStorageUnavailable, http.StatusServiceUnavailable, "STORAGE_UNAVAILABLE"},
		{"upload failed", domain.ErrUploadFailed, http.StatusInternalServerError, "UPLOAD_FAILED"},
		{"persistence", domain.ErrPersistence, http.StatusInternalServerError, "PERSISTENCE_ERROR"},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}

func TestHandleError_FileTooLargeUsesConfiguredLimit(t *testing.T) {
	c, w := newContext(nil)
	c.Set("max_upload_mb", int64(32))

	handler.HandleError(c, domain.ErrFileTooLarge)

	assert.Equal(t, http.StatusRequestEntityTooLarge, w.Code)
	resp := decode(t, w)
	assert.Equal(t, "File too large. Maximum file size is 32MB.", resp.Error.Message)
}
