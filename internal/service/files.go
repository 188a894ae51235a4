package service

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"

	"smartconv/internal/domain"
)

// FileInput is one uploaded file handed to a service.
type FileInput struct {
	Filename string
	Size     int64
	Content  io.Reader
}

var unsafeFilenameChars = regexp.MustCompile(`[^A-Za-z0-9_.-]+`)

// SanitizeFilename reduces name to a safe single path element. It never
// returns an empty string.
func SanitizeFilename(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Join(strings.Fields(name), "_")
	name = unsafeFilenameChars.ReplaceAllString(name, "")
	name = strings.TrimLeft(name, "._")
	if name == "" {
		return "file"
	}
	return name
}

// storedName prefixes a sanitised name with a random identifier.
func storedName(original string) string {
	return uuid.New().String() + "_" + SanitizeFilename(original)
}

// shortID returns 8 random hex characters for generated artifact names.
func shortID() string {
	return strings.ReplaceAll(uuid.New().String(), "-", "")[:8]
}

func baseName(name string) string {
	return strings.TrimSuffix(SanitizeFilename(name), filepath.Ext(SanitizeFilename(name)))
}

// requireExt rejects inputs whose extension is not in allowed.
func requireExt(name string, allowed map[string]domain.FileType) (string, error) {
	if name == "" {
		return "", domain.ErrMissingFile
	}
	ext := domain.Ext(name)
	if _, ok := allowed[ext]; !ok {
		return "", fmt.Errorf("%w: .%s", domain.ErrUnsupportedFileType, ext)
	}
	return ext, nil
}

// workspace is a per-request scratch directory. Callers defer cleanup.
type workspace struct {
	dir string
}

func newWorkspace(root string) (*workspace, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating %s: %w", root, err)
	}
	dir, err := os.MkdirTemp(root, "work-*")
	if err != nil {
		return nil, fmt.Errorf("creating workspace: %w", err)
	}
	return &workspace{dir: dir}, nil
}

// save copies an upload into the workspace. The index prefix keeps inputs
// with identical names apart and preserves their order.
func (w *workspace) save(index int, in FileInput) (string, error) {
	return writeFile(filepath.Join(w.dir, fmt.Sprintf("%03d_%s", index, SanitizeFilename(in.Filename))), in.Content)
}

func (w *workspace) path(elem ...string) string {
	return filepath.Join(append([]string{w.dir}, elem...)...)
}

func (w *workspace) cleanup() {
	_ = os.RemoveAll(w.dir)
}

func writeFile(path string, r io.Reader) (string, error) {
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("closing %s: %w", filepath.Base(path), err)
	}
	return path, nil
}

func fileSize(path string) int64 {
	info, err := os.Stat(path)
	if err != nil {
		return 0
	}
	return info.Size()
}

func inputNames(files []FileInput) string {
	names := make([]string, len(files))
	for i, f := range files {
		names[i] = f.Filename
	}
	return strings.Join(names, ", ")
}
