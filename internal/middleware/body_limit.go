package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxUploadKey = "max_upload_mb"

// DefaultMaxUploadMB applies when BodyLimit is not installed.
const DefaultMaxUploadMB int64 = 16

// FileTooLargeMessage is the fixed oversize response text.
func FileTooLargeMessage(maxMB int64) string {
	return fmt.Sprintf("File too large. Maximum file size is %dMB.", maxMB)
}

// BodyLimit caps request bodies at maxMB mebibytes. Requests that declare a
// larger Content-Length are rejected with 413 before the body is read; others
// are wrapped in http.MaxBytesReader.
func BodyLimit(maxMB int64) gin.HandlerFunc {
	maxBytes := maxMB << 20
	return func(c *gin.Context) {
		c.Set(maxUploadKey, maxMB)

		if c.Request.ContentLength > maxBytes {
			c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge, gin.H{
				"success": false,
				"error":   gin.H{"code": "FILE_TOO_LARGE", "message": FileTooLargeMessage(maxMB)},
			})
			return
		}
		if c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		}
		c.Next()
	}
}

// MaxUploadMB returns the limit installed by BodyLimit.
func MaxUploadMB(c *gin.Context) int64 {
	if v := c.GetInt64(maxUploadKey); v > 0 {
		return v
	}
	return DefaultMaxUploadMB
}
