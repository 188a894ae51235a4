package port

import "context"

// CompressionTier is a named quality preset derived from a compression level.
type CompressionTier struct {
	Name        string
	GSPreset    string
	DPI         int
	JPEGQuality int
}

// CompressInput describes one compression attempt.
type CompressInput struct {
	InputPath  string
	OutputPath string
	Tier       CompressionTier
}

// Compressor is one PDF compression strategy.
type Compressor interface {
	Compress(ctx context.Context, input CompressInput) error
	Name() string
}
