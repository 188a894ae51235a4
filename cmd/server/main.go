package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"smartconv/internal/compress"
	"smartconv/internal/config"
	"smartconv/internal/converter"
	"smartconv/internal/handler"
	"smartconv/internal/linktoken"
	"smartconv/internal/logger"
	"smartconv/internal/ocr"
	_ "smartconv/internal/ocr/tesseract"
	_ "smartconv/internal/ocr/vertex"
	_ "smartconv/internal/ocr/vision"
	"smartconv/internal/pdfops"
	"smartconv/internal/port"
	"smartconv/internal/repository/sqlstore"
	"smartconv/internal/router"
	"smartconv/internal/service"
	"smartconv/internal/storage"
	"smartconv/internal/toolrun"
)

// @title Smart Converter API
// @version 1.0
// @description File conversion utility: uploads, document conversion, OCR, PDF tools and conversion history.
// @BasePath /api/v1

const shutdownTimeout = 15 * time.Second

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	// A missing .env is normal outside local development.
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	zl, err := logger.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = zl.Sync() }()
	zap.ReplaceGlobals(zl)

	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := sqlstore.NewDB(&cfg.DB)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if cfg.DB.AutoMigrate || cfg.DB.Driver == "sqlite3" {
		if err := sqlstore.Migrate(db); err != nil {
			return fmt.Errorf("failed to migrate database: %w", err)
		}
	}

	for _, dir := range []string{cfg.Files.UploadDir, cfg.Files.ProcessedDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}

	// External tools and PDF engines
	runner := toolrun.NewRunner(cfg.Tools.Timeout(), zl)
	engine := pdfops.NewEngine(zl)
	raster := pdfops.NewRasterizer(zl)
	docConverter := converter.NewLibreOffice(cfg.Tools.SofficePath, runner, zl)

	chain, err := compress.NewChainFromNames(cfg.Compress.StrategyNames(), compress.Deps{
		Runner:          runner,
		GhostscriptPath: cfg.Tools.GhostscriptPath,
		Engine:          engine,
		Rasterizer:      raster,
		Logger:          zl,
	})
	if err != nil {
		return fmt.Errorf("failed to build compression chain: %w", err)
	}

	recognizer, err := ocr.NewRecognizer(ctx, &cfg.OCR, ocr.Tools{
		Runner:        runner,
		TesseractPath: cfg.Tools.TesseractPath,
		Logger:        zl,
	})
	if err != nil {
		zl.Warn("OCR backend unavailable, text extraction disabled", zap.Error(err))
	}
	pipeline := ocr.NewPipeline(recognizer, raster, cfg.OCR.DPI, zl)

	store, err := storage.New(ctx, &cfg.Storage)
	if err != nil {
		zl.Warn("cloud storage unavailable, uploads stay local", zap.Error(err))
	}

	// Repositories
	conversionRepo := sqlstore.NewConversionRepo(db)
	textRepo := sqlstore.NewExtractedTextRepo(db)

	// Services
	ledgerSvc := service.NewLedgerService(conversionRepo, store, linktoken.NewSigner(cfg.Download), cfg.Files, cfg.Storage, zl)
	uploadSvc := service.NewUploadService(ledgerSvc, store, cfg.Files, cfg.Storage, zl)
	convertSvc := service.NewConvertService(docConverter, ledgerSvc, cfg.Files, zl)
	ocrSvc := service.NewOCRService(pipeline, textRepo, ledgerSvc, cfg.Files, zl)
	pdfSvc := service.NewPDFService(engine, raster, chain, ledgerSvc, cfg.Files, cfg.PDF, zl)

	zl.Info("components ready",
		zap.String("db_driver", cfg.DB.Driver),
		zap.String("ocr_backend", ocrSvc.Backend()),
		zap.Strings("compress_strategies", chain.Names()),
		zap.String("storage_provider", cfg.Storage.Provider),
	)

	handlers := router.Handlers{
		Upload:  handler.NewUploadHandler(uploadSvc),
		Convert: handler.NewConvertHandler(convertSvc),
		OCR:     handler.NewOCRHandler(ocrSvc),
		PDF:     handler.NewPDFHandler(pdfSvc),
		History: handler.NewHistoryHandler(ledgerSvc),
		Health:  handler.NewHealthHandler(readinessChecks(db, cfg, recognizer, store)...),
	}

	r := router.Setup(handlers, router.Options{
		AllowedOrigins: cfg.CORS.AllowedOrigins,
		MaxUploadMB:    cfg.Files.MaxUploadMB,
		EnableSwagger:  cfg.Server.Environment != "production",
	}, zl)

	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("addr", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	zl.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}

func readinessChecks(db handler.Pinger, cfg *config.Config, recognizer port.TextRecognizer, store port.ObjectStorage) []handler.ReadinessCheck {
	tool := func(name, executable string) handler.ReadinessCheck {
		return handler.ReadinessCheck{Name: name, Check: func(context.Context) error {
			if !toolrun.Available(executable) {
				return fmt.Errorf("%s not found on PATH", executable)
			}
			return nil
		}}
	}
	configured := func(name string, ok func() bool) handler.ReadinessCheck {
		return handler.ReadinessCheck{Name: name, Check: func(context.Context) error {
			if !ok() {
				return errors.New("not configured")
			}
			return nil
		}}
	}

	checks := []handler.ReadinessCheck{
		handler.PingCheck("database", db),
		tool("libreoffice", cfg.Tools.SofficePath),
		tool("ghostscript", cfg.Tools.GhostscriptPath),
		configured("ocr", recognizer.IsConfigured),
	}
	if cfg.Storage.Enabled() {
		checks = append(checks, configured("storage", store.IsConfigured))
	}
	return checks
}
