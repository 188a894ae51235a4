package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"smartconv/internal/domain"
	"smartconv/internal/service"
)

// formMemory is how much of a multipart body is kept in memory before
// spilling to temp files.
const formMemory = 8 << 20

// uploadError converts multipart parsing errors into domain errors.
func uploadError(err error) error {
	var maxErr *http.MaxBytesError
	switch {
	case errors.As(err, &maxErr), err != nil && strings.Contains(err.Error(), "request body too large"):
		return domain.ErrFileTooLarge
	case errors.Is(err, http.ErrMissingFile), errors.Is(err, http.ErrNotMultipart):
		return domain.ErrMissingFile
	default:
		return err
	}
}

func parseForm(c *gin.Context) error {
	if c.Request.MultipartForm != nil {
		return nil
	}
	return uploadError(c.Request.ParseMultipartForm(formMemory))
}

// formFile opens the single uploaded file in field. The returned closer must
// be called once the service is done with the input.
func formFile(c *gin.Context, field string) (service.FileInput, func(), error) {
	if err := parseForm(c); err != nil {
		return service.FileInput{}, func() {}, err
	}
	headers := c.Request.MultipartForm.File[field]
	if len(headers) == 0 || headers[0].Filename == "" {
		return service.FileInput{}, func() {}, domain.ErrMissingFile
	}
	in, f, err := openHeader(headers[0])
	if err != nil {
		return service.FileInput{}, func() {}, err
	}
	return in, func() { _ = f.Close() }, nil
}

// formFiles opens every uploaded file in field, in the order sent.
func formFiles(c *gin.Context, field string) ([]service.FileInput, func(), error) {
	if err := parseForm(c); err != nil {
		return nil, func() {}, err
	}
	var (
		inputs []service.FileInput
		opened []multipart.File
	)
	closeAll := func() {
		for _, f := range opened {
			_ = f.Close()
		}
	}
	for _, h := range c.Request.MultipartForm.File[field] {
		if h.Filename == "" {
			continue
		}
		in, f, err := openHeader(h)
		if err != nil {
			closeAll()
			return nil, func() {}, err
		}
		opened = append(opened, f)
		inputs = append(inputs, in)
	}
	return inputs, closeAll, nil
}

func openHeader(h *multipart.FileHeader) (service.FileInput, multipart.File, error) {
	f, err := h.Open()
	if err != nil {
		return service.FileInput{}, nil, err
	}
	return service.FileInput{Filename: h.Filename, Size: h.Size, Content: f}, f, nil
}

// sendArtifact streams a produced file as an attachment.
func sendArtifact(c *gin.Context, art *domain.Artifact) {
	c.Header("Content-Type", art.ContentType)
	c.FileAttachment(art.Path, art.DownloadName)
}
