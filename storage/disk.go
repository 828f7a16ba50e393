package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// DiskStorage writes files into a local directory that the HTTP server
// exposes under /uploads.
type DiskStorage struct {
	dir     string
	baseURL string
}

// NewDiskStorage creates dir if needed. baseURL is the server's public
// origin, files resolve to baseURL + "/uploads/" + name.
func NewDiskStorage(dir, baseURL string) (*DiskStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &DiskStorage{dir: dir, baseURL: baseURL}, nil
}

// Dir returns the directory files are written to.
func (d *DiskStorage) Dir() string {
	return d.dir
}

func (d *DiskStorage) Save(ctx context.Context, name, _ string, body io.ReadSeeker, _ int64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if name != filepath.Base(name) {
		return "", fmt.Errorf("invalid object name %q", name)
	}

	path := filepath.Join(d.dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return d.baseURL + "/uploads/" + name, nil
}
