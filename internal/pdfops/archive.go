package pdfops

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
)

// ZipEntry maps a file on disk to its name inside an archive.
type ZipEntry struct {
	Name string
	Path string
}

// WriteZip creates dst containing entries in the given order. A partially
// written archive is removed on error.
func WriteZip(dst string, entries []ZipEntry) (err error) {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("pdfops.WriteZip: %w", err)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(dst)
		}
	}()

	zw := zip.NewWriter(f)
	for _, e := range entries {
		if err = addToZip(zw, e); err != nil {
			zw.Close()
			f.Close()
			return fmt.Errorf("pdfops.WriteZip: %s: %w", e.Name, err)
		}
	}
	if err = zw.Close(); err != nil {
		f.Close()
		return fmt.Errorf("pdfops.WriteZip: %w", err)
	}
	if err = f.Close(); err != nil {
		return fmt.Errorf("pdfops.WriteZip: %w", err)
	}
	return nil
}

func addToZip(zw *zip.Writer, e ZipEntry) error {
	src, err := os.Open(e.Path)
	if err != nil {
		return err
	}
	defer src.Close()

	w, err := zw.CreateHeader(&zip.FileHeader{Name: e.Name, Method: zip.Deflate})
	if err != nil {
		return err
	}
	_, err = io.Copy(w, src)
	return err
}
