package router

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "smartconv/docs" // swagger docs
	"smartconv/internal/handler"
	"smartconv/internal/middleware"
)

// Handlers groups every HTTP handler the router mounts.
type Handlers struct {
	Upload  *handler.UploadHandler
	Convert *handler.ConvertHandler
	OCR     *handler.OCRHandler
	PDF     *handler.PDFHandler
	History *handler.HistoryHandler
	Health  *handler.HealthHandler
}

// Options carries router-level settings.
type Options struct {
	AllowedOrigins []string
	MaxUploadMB    int64
	EnableSwagger  bool
}

// Setup configures the Gin engine with all routes and middleware.
func Setup(h Handlers, opts Options, logger *zap.Logger) *gin.Engine {
	r := gin.New()

	// Global middleware
	r.Use(middleware.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health checks
	r.GET("/healthz", h.Health.Liveness)
	r.GET("/readyz", h.Health.Readiness)

	if opts.EnableSwagger {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	v1 := r.Group("/api/v1")

	// Routes that accept request bodies share the upload limit
	uploads := v1.Group("")
	uploads.Use(middleware.BodyLimit(opts.MaxUploadMB))

	uploads.POST("/upload", h.Upload.Upload)
	uploads.POST("/convert", h.Convert.Convert)
	uploads.POST("/ocr", h.OCR.Extract)
	uploads.POST("/ocr/save-text", h.OCR.SaveText)

	pdf := uploads.Group("/pdf")
	pdf.POST("/merge", h.PDF.Merge)
	pdf.POST("/split", h.PDF.Split)
	pdf.POST("/compress", h.PDF.Compress)
	pdf.POST("/to-images", h.PDF.ToImages)
	pdf.POST("/from-images", h.PDF.FromImages)

	// Ledger
	v1.GET("/stats", h.History.Stats)
	v1.GET("/history", h.History.List)
	v1.GET("/history/export", h.History.Export)
	v1.GET("/history/:id/link", h.History.Link)
	v1.GET("/downloads/:token", h.History.Download)

	return r
}
