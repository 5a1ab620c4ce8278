package storage

import (
	"context"
	"io"
)

// ObjectStore is the slice of the bucket API the pipeline needs: pull a
// source object down to a staging file and push derived artifacts back up.
type ObjectStore interface {
	DownloadToFile(ctx context.Context, bucket, object, dest string) error
	UploadFile(ctx context.Context, bucket, object, contentType, src string) error
	Upload(ctx context.Context, bucket, object, contentType string, r io.Reader) error
}
