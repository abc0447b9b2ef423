package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"cloud.google.com/go/storage"
	"google.golang.org/api/googleapi"
)

// GCSConfig configures the Google Cloud Storage video store.
type GCSConfig struct {
	Bucket     string
	PublicRead bool
}

// GCSStore stores videos in a single bucket. Credentials come from ADC.
type GCSStore struct {
	client *storage.Client
	bucket string
	public bool
}

var _ VideoStore = (*GCSStore)(nil)

func NewGCSStore(ctx context.Context, cfg GCSConfig) (*GCSStore, error) {
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("gcs bucket is required")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCS client: %w", err)
	}

	return &GCSStore{
		client: client,
		bucket: cfg.Bucket,
		public: cfg.PublicRead,
	}, nil
}

// Upload writes the object and returns its URL. The write carries a
// DoesNotExist precondition so an existing object is never replaced.
func (s *GCSStore) Upload(ctx context.Context, key string, data []byte, contentType string) (string, error) {
	obj := s.client.Bucket(s.bucket).Object(key).If(storage.Conditions{DoesNotExist: true})
	w := obj.NewWriter(ctx)
	w.ContentType = contentType
	w.CacheControl = "private, max-age=0"
	if s.public {
		w.PredefinedACL = "publicRead"
	}

	if _, err := w.Write(data); err != nil {
		_ = w.Close()
		return "", uploadError("write", key, err)
	}
	if err := w.Close(); err != nil {
		return "", uploadError("close", key, err)
	}

	return objectURL(s.bucket, key, s.public), nil
}

// Ping checks that the bucket is reachable.
func (s *GCSStore) Ping(ctx context.Context) error {
	if _, err := s.client.Bucket(s.bucket).Attrs(ctx); err != nil {
		return fmt.Errorf("gcs bucket %s: %w", s.bucket, err)
	}
	return nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

func uploadError(op, key string, err error) error {
	if isPreconditionFailed(err) {
		return fmt.Errorf("gcs %s %s: %w", op, key, ErrObjectExists)
	}
	return fmt.Errorf("gcs %s %s: %w", op, key, err)
}

func isPreconditionFailed(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusPreconditionFailed
}

func objectURL(bucket, key string, public bool) string {
	if !public {
		return fmt.Sprintf("gs://%s/%s", bucket, key)
	}
	u := url.URL{Scheme: "https", Host: "storage.googleapis.com", Path: "/" + bucket + "/" + key}
	return u.String()
}
