package port

import "context"

// DocumentConverter turns a document into another format inside outDir and
// returns the produced path.
type DocumentConverter interface {
	Convert(ctx context.Context, inputPath, targetFormat, outDir string) (string, error)
}
