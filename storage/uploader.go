package storage

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

const (
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	exportKeyPrefix = "exports/standings"
)

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// FileUploader puts generated files where clients can download them.
type FileUploader interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)
	Delete(ctx context.Context, key string) error
	GetPublicURL(key string) string
}

// ExportKey builds a unique object key for a tournament's standings workbook.
func ExportKey(tournamentID int, at time.Time) string {
	return fmt.Sprintf("%s/%d/%s-%s.xlsx", exportKeyPrefix, tournamentID, at.UTC().Format("20060102T150405Z"), uuid.NewString())
}
