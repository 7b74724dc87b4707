package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ExportStore keeps generated export files and hands out temporary download links
type ExportStore interface {
	Put(ctx context.Context, key string, data io.Reader, size int64, contentType string) error
	DownloadURL(ctx context.Context, key string, expiry time.Duration) (string, error)
}

// ExportKey builds the object key for an export file of an owner
func ExportKey(ownerID uuid.UUID, createdAt time.Time, ext string) string {
	name := fmt.Sprintf("%s_%s%s", createdAt.UTC().Format("20060102T150405"), uuid.New().String()[:8], ext)
	return path.Join("exports", ownerID.String(), name)
}
