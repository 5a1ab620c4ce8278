package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"

	gcs "cloud.google.com/go/storage"
	"google.golang.org/api/option"
)

// GCS implements ObjectStore on Google Cloud Storage. Credentials come from
// application default credentials unless overridden via opts.
type GCS struct {
	client *gcs.Client
}

func NewGCS(ctx context.Context, opts ...option.ClientOption) (*GCS, error) {
	c, err := gcs.NewClient(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &GCS{client: c}, nil
}

func (s *GCS) Close() error { return s.client.Close() }

func (s *GCS) DownloadToFile(ctx context.Context, bucket, object, dest string) error {
	r, err := s.client.Bucket(bucket).Object(object).NewReader(ctx)
	if err != nil {
		return err
	}
	defer r.Close()

	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return err
	}
	f, err := os.Create(dest)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(dest)
		return err
	}
	return f.Close()
}

func (s *GCS) UploadFile(ctx context.Context, bucket, object, contentType, src string) error {
	f, err := os.Open(src)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.Upload(ctx, bucket, object, contentType, f)
}

func (s *GCS) Upload(ctx context.Context, bucket, object, contentType string, r io.Reader) error {
	w := s.client.Bucket(bucket).Object(object).NewWriter(ctx)
	w.ContentType = contentType

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}
