// Package storage stores uploaded report photos and returns the URL they
// are served from.
package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Storage saves an object of size bytes under name and returns its public
// URL. body must be positioned at its start.
type Storage interface {
	Save(ctx context.Context, name, contentType string, body io.ReadSeeker, size int64) (string, error)
}

// ObjectName builds a collision-free name that keeps the original
// extension, e.g. 1718000000000_3f0c...e1.jpg.
func ObjectName(originalName string, now time.Time) string {
	ext := strings.ToLower(filepath.Ext(originalName))
	return fmt.Sprintf("%d_%s%s", now.UnixMilli(), uuid.New().String(), ext)
}
