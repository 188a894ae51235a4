package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	DB       DBConfig
	Files    FilesConfig
	Tools    ToolsConfig
	Compress CompressConfig
	PDF      PDFConfig
	OCR      OCRConfig
	Storage  StorageConfig
	Download DownloadConfig
	Log      LogConfig
	CORS     CORSConfig
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port         string        `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
	Environment  string        `mapstructure:"environment"`
}

// DBConfig holds ledger database settings. Driver is "pgx" for PostgreSQL
// or "sqlite3" for a local file database.
type DBConfig struct {
	Driver      string `mapstructure:"driver"`
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	User        string `mapstructure:"user"`
	Password    string `mapstructure:"password"`
	Name        string `mapstructure:"name"`
	SSLMode     string `mapstructure:"sslmode"`
	SQLitePath  string `mapstructure:"sqlite_path"`
	MaxOpen     int    `mapstructure:"max_open"`
	MaxIdle     int    `mapstructure:"max_idle"`
	AutoMigrate bool   `mapstructure:"auto_migrate"`
}

// DSN returns the connection string for the configured driver.
func (d *DBConfig) DSN() string {
	if d.Driver == "sqlite3" {
		return d.SQLitePath
	}
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		d.User, d.Password, d.Host, d.Port, d.Name, d.SSLMode,
	)
}

// MigrateURL returns the database URL understood by golang-migrate.
func (d *DBConfig) MigrateURL() string {
	if d.Driver == "sqlite3" {
		return "sqlite3://" + d.SQLitePath
	}
	return d.DSN()
}

// FilesConfig holds the shared upload/output directories and the request size limit.
type FilesConfig struct {
	UploadDir    string `mapstructure:"upload_dir"`
	ProcessedDir string `mapstructure:"processed_dir"`
	MaxUploadMB  int64  `mapstructure:"max_upload_mb"`
}

// MaxUploadBytes returns the request body limit in bytes.
func (f *FilesConfig) MaxUploadBytes() int64 {
	return f.MaxUploadMB * 1024 * 1024
}

// ToolsConfig holds paths to external command-line tools.
type ToolsConfig struct {
	SofficePath     string `mapstructure:"soffice_path"`
	GhostscriptPath string `mapstructure:"gs_path"`
	TesseractPath   string `mapstructure:"tesseract_path"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
}

// Timeout returns the wall-clock bound for a single tool invocation.
func (t *ToolsConfig) Timeout() time.Duration {
	if t.TimeoutSecs <= 0 {
		return 60 * time.Second
	}
	return time.Duration(t.TimeoutSecs) * time.Second
}

// CompressConfig holds PDF compression settings.
type CompressConfig struct {
	// Strategies is a comma-separated, ordered list of compression strategies.
	Strategies string `mapstructure:"strategies"`
}

// StrategyNames returns the configured strategies in order.
func (c *CompressConfig) StrategyNames() []string {
	var names []string
	for _, s := range strings.Split(c.Strategies, ",") {
		s = strings.TrimSpace(s)
		if s != "" {
			names = append(names, s)
		}
	}
	return names
}

// PDFConfig holds rasterisation settings.
type PDFConfig struct {
	ImageDPI int `mapstructure:"image_dpi"`
}

// OCRConfig holds text recognition backend settings.
type OCRConfig struct {
	Provider        string `mapstructure:"provider"`
	CredentialsFile string `mapstructure:"credentials_file"`
	ProjectID       string `mapstructure:"project_id"`
	Region          string `mapstructure:"region"`
	Model           string `mapstructure:"model"`
	Language        string `mapstructure:"language"`
	DPI             int    `mapstructure:"dpi"`
	TimeoutSecs     int    `mapstructure:"timeout_secs"`
}

// StorageConfig holds cloud object storage settings.
type StorageConfig struct {
	Provider        string `mapstructure:"provider"`
	Bucket          string `mapstructure:"bucket"`
	Region          string `mapstructure:"region"`
	Endpoint        string `mapstructure:"endpoint"`
	AccessKey       string `mapstructure:"access_key"`
	SecretKey       string `mapstructure:"secret_key"`
	UseSSL          bool   `mapstructure:"use_ssl"`
	ProjectID       string `mapstructure:"project_id"`
	CredentialsFile string `mapstructure:"credentials_file"`
	PresignExpiry   int64  `mapstructure:"presign_expiry"`
}

// Enabled reports whether a cloud provider was requested at all.
func (s *StorageConfig) Enabled() bool {
	return s.Provider != "" && s.Provider != "none"
}

// DownloadConfig holds signing settings for artifact download links.
type DownloadConfig struct {
	Secret string        `mapstructure:"secret"`
	Expiry time.Duration `mapstructure:"expiry"`
	Issuer string        `mapstructure:"issuer"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from environment variables with the SMARTCONV_ prefix.
func Load() (*Config, error) {
	v := viper.New()
	v.SetEnvPrefix("SMARTCONV")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Server defaults
	v.SetDefault("server.port", ":8080")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "120s")
	v.SetDefault("server.environment", "development")

	// DB defaults
	v.SetDefault("db.driver", "pgx")
	v.SetDefault("db.host", "localhost")
	v.SetDefault("db.port", 5432)
	v.SetDefault("db.user", "smartconv")
	v.SetDefault("db.password", "smartconv_secret")
	v.SetDefault("db.name", "smartconv_db")
	v.SetDefault("db.sslmode", "disable")
	v.SetDefault("db.sqlite_path", "smart_converter.db")
	v.SetDefault("db.max_open", 25)
	v.SetDefault("db.max_idle", 10)
	v.SetDefault("db.auto_migrate", false)

	// File defaults
	v.SetDefault("files.upload_dir", "static/uploads")
	v.SetDefault("files.processed_dir", "static/processed")
	v.SetDefault("files.max_upload_mb", 16)

	// Tool defaults
	v.SetDefault("tools.soffice_path", "soffice")
	v.SetDefault("tools.gs_path", "gs")
	v.SetDefault("tools.tesseract_path", "tesseract")
	v.SetDefault("tools.timeout_secs", 60)

	v.SetDefault("compress.strategies", "ghostscript,rasterize")
	v.SetDefault("pdf.image_dpi", 200)

	// OCR defaults
	v.SetDefault("ocr.provider", "vision")
	v.SetDefault("ocr.credentials_file", "")
	v.SetDefault("ocr.project_id", "")
	v.SetDefault("ocr.region", "us-central1")
	v.SetDefault("ocr.model", "gemini-1.5-pro")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.dpi", 200)
	v.SetDefault("ocr.timeout_secs", 60)

	// Storage defaults
	v.SetDefault("storage.provider", "none")
	v.SetDefault("storage.bucket", "smartconv-uploads")
	v.SetDefault("storage.region", "us-east-1")
	v.SetDefault("storage.endpoint", "")
	v.SetDefault("storage.use_ssl", true)
	v.SetDefault("storage.presign_expiry", 3600)

	// Download link defaults
	v.SetDefault("download.secret", "change-me-in-production")
	v.SetDefault("download.expiry", "1h")
	v.SetDefault("download.issuer", "smartconv")

	// Log defaults
	v.SetDefault("log.level", "debug")
	v.SetDefault("log.format", "console")

	// CORS defaults (localhost origins for development)
	v.SetDefault("cors.allowed_origins", "http://localhost:3000,http://127.0.0.1:3000,http://localhost:5000,http://127.0.0.1:5000")

	// Bind environment variables explicitly for nested keys
	envBindings := map[string]string{
		"server.port":              "SMARTCONV_SERVER_PORT",
		"server.read_timeout":      "SMARTCONV_SERVER_READ_TIMEOUT",
		"server.write_timeout":     "SMARTCONV_SERVER_WRITE_TIMEOUT",
		"server.environment":       "SMARTCONV_SERVER_ENVIRONMENT",
		"db.driver":                "SMARTCONV_DB_DRIVER",
		"db.host":                  "SMARTCONV_DB_HOST",
		"db.port":                  "SMARTCONV_DB_PORT",
		"db.user":                  "SMARTCONV_DB_USER",
		"db.password":              "SMARTCONV_DB_PASSWORD",
		"db.name":                  "SMARTCONV_DB_NAME",
		"db.sslmode":               "SMARTCONV_DB_SSLMODE",
		"db.sqlite_path":           "SMARTCONV_DB_SQLITE_PATH",
		"db.max_open":              "SMARTCONV_DB_MAX_OPEN",
		"db.max_idle":              "SMARTCONV_DB_MAX_IDLE",
		"db.auto_migrate":          "SMARTCONV_DB_AUTO_MIGRATE",
		"files.upload_dir":         "SMARTCONV_FILES_UPLOAD_DIR",
		"files.processed_dir":      "SMARTCONV_FILES_PROCESSED_DIR",
		"files.max_upload_mb":      "SMARTCONV_FILES_MAX_UPLOAD_MB",
		"tools.soffice_path":       "SMARTCONV_TOOLS_SOFFICE_PATH",
		"tools.gs_path":            "SMARTCONV_TOOLS_GS_PATH",
		"tools.tesseract_path":     "SMARTCONV_TOOLS_TESSERACT_PATH",
		"tools.timeout_secs":       "SMARTCONV_TOOLS_TIMEOUT_SECS",
		"compress.strategies":      "SMARTCONV_COMPRESS_STRATEGIES",
		"pdf.image_dpi":            "SMARTCONV_PDF_IMAGE_DPI",
		"ocr.provider":             "SMARTCONV_OCR_PROVIDER",
		"ocr.credentials_file":     "SMARTCONV_OCR_CREDENTIALS_FILE",
		"ocr.project_id":           "SMARTCONV_OCR_PROJECT_ID",
		"ocr.region":               "SMARTCONV_OCR_REGION",
		"ocr.model":                "SMARTCONV_OCR_MODEL",
		"ocr.language":             "SMARTCONV_OCR_LANGUAGE",
		"ocr.dpi":                  "SMARTCONV_OCR_DPI",
		"ocr.timeout_secs":         "SMARTCONV_OCR_TIMEOUT_SECS",
		"storage.provider":         "SMARTCONV_STORAGE_PROVIDER",
		"storage.bucket":           "SMARTCONV_STORAGE_BUCKET",
		"storage.region":           "SMARTCONV_STORAGE_REGION",
		"storage.endpoint":         "SMARTCONV_STORAGE_ENDPOINT",
		"storage.access_key":       "SMARTCONV_STORAGE_ACCESS_KEY",
		"storage.secret_key":       "SMARTCONV_STORAGE_SECRET_KEY",
		"storage.use_ssl":          "SMARTCONV_STORAGE_USE_SSL",
		"storage.project_id":       "SMARTCONV_STORAGE_PROJECT_ID",
		"storage.credentials_file": "SMARTCONV_STORAGE_CREDENTIALS_FILE",
		"storage.presign_expiry":   "SMARTCONV_STORAGE_PRESIGN_EXPIRY",
		"download.secret":          "SMARTCONV_DOWNLOAD_SECRET",
		"download.expiry":          "SMARTCONV_DOWNLOAD_EXPIRY",
		"download.issuer":          "SMARTCONV_DOWNLOAD_ISSUER",
		"log.level":                "SMARTCONV_LOG_LEVEL",
		"log.format":               "SMARTCONV_LOG_FORMAT",
		"cors.allowed_origins":     "SMARTCONV_CORS_ALLOWED_ORIGINS",
	}
	for key, env := range envBindings {
		_ = v.BindEnv(key, env)
	}

	cfg := &Config{}

	// Railway/Heroku/Render set a PORT env var. Use it if SMARTCONV_SERVER_PORT is not explicitly set.
	serverPort := v.GetString("server.port")
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SMARTCONV_SERVER_PORT") == "" {
		serverPort = ":" + port
	}

	cfg.Server = ServerConfig{
		Port:         serverPort,
		ReadTimeout:  v.GetDuration("server.read_timeout"),
		WriteTimeout: v.GetDuration("server.write_timeout"),
		Environment:  v.GetString("server.environment"),
	}
	cfg.DB = DBConfig{
		Driver:      v.GetString("db.driver"),
		Host:        v.GetString("db.host"),
		Port:        v.GetInt("db.port"),
		User:        v.GetString("db.user"),
		Password:    v.GetString("db.password"),
		Name:        v.GetString("db.name"),
		SSLMode:     v.GetString("db.sslmode"),
		SQLitePath:  v.GetString("db.sqlite_path"),
		MaxOpen:     v.GetInt("db.max_open"),
		MaxIdle:     v.GetInt("db.max_idle"),
		AutoMigrate: v.GetBool("db.auto_migrate"),
	}
	cfg.Files = FilesConfig{
		UploadDir:    v.GetString("files.upload_dir"),
		ProcessedDir: v.GetString("files.processed_dir"),
		MaxUploadMB:  v.GetInt64("files.max_upload_mb"),
	}
	cfg.Tools = ToolsConfig{
		SofficePath:     v.GetString("tools.soffice_path"),
		GhostscriptPath: v.GetString("tools.gs_path"),
		TesseractPath:   v.GetString("tools.tesseract_path"),
		TimeoutSecs:     v.GetInt("tools.timeout_secs"),
	}
	cfg.Compress = CompressConfig{
		Strategies: v.GetString("compress.strategies"),
	}
	cfg.PDF = PDFConfig{
		ImageDPI: v.GetInt("pdf.image_dpi"),
	}
	cfg.OCR = OCRConfig{
		Provider:        v.GetString("ocr.provider"),
		CredentialsFile: v.GetString("ocr.credentials_file"),
		ProjectID:       v.GetString("ocr.project_id"),
		Region:          v.GetString("ocr.region"),
		Model:           v.GetString("ocr.model"),
		Language:        v.GetString("ocr.language"),
		DPI:             v.GetInt("ocr.dpi"),
		TimeoutSecs:     v.GetInt("ocr.timeout_secs"),
	}
	cfg.Storage = StorageConfig{
		Provider:        v.GetString("storage.provider"),
		Bucket:          v.GetString("storage.bucket"),
		Region:          v.GetString("storage.region"),
		Endpoint:        v.GetString("storage.endpoint"),
		AccessKey:       v.GetString("storage.access_key"),
		SecretKey:       v.GetString("storage.secret_key"),
		UseSSL:          v.GetBool("storage.use_ssl"),
		ProjectID:       v.GetString("storage.project_id"),
		CredentialsFile: v.GetString("storage.credentials_file"),
		PresignExpiry:   v.GetInt64("storage.presign_expiry"),
	}
	cfg.Download = DownloadConfig{
		Secret: v.GetString("download.secret"),
		Expiry: v.GetDuration("download.expiry"),
		Issuer: v.GetString("download.issuer"),
	}
	cfg.Log = LogConfig{
		Level:  v.GetString("log.level"),
		Format: v.GetString("log.format"),
	}
	// Parse CORS allowed origins from comma-separated string
	var corsOrigins []string
	for _, o := range strings.Split(v.GetString("cors.allowed_origins"), ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			corsOrigins = append(corsOrigins, o)
		}
	}
	cfg.CORS = CORSConfig{
		AllowedOrigins: corsOrigins,
	}

	return cfg, nil
}
