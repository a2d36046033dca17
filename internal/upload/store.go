package upload

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/labcollective/memberhub/config"
	"google.golang.org/api/option"
)

// Store persists uploaded objects and returns the URL they are served from.
type Store interface {
	Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error)
}

// LocalStore writes objects below a directory that the router serves statically.
type LocalStore struct {
	dir     string
	baseURL string
}

func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{dir: dir, baseURL: strings.TrimRight(baseURL, "/")}
}

func (s *LocalStore) Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	target := filepath.Join(s.dir, filepath.FromSlash(path))
	if !strings.HasPrefix(target, filepath.Clean(s.dir)+string(os.PathSeparator)) {
		return "", fmt.Errorf("object path %q escapes the upload directory", path)
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("create upload directory: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return "", fmt.Errorf("create upload file: %w", err)
	}
	if _, err := io.Copy(f, r); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return "", fmt.Errorf("write upload file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("close upload file: %w", err)
	}
	return s.baseURL + "/" + path, nil
}

// GCSStore writes objects to a Google Cloud Storage bucket.
type GCSStore struct {
	client *storage.Client
	bucket *storage.BucketHandle
	name   string
}

func NewGCSStore(ctx context.Context, bucket, credentialsFile string) (*GCSStore, error) {
	if bucket == "" {
		return nil, errors.New("gcs upload store: bucket not set")
	}
	opts := []option.ClientOption{storage.WithDisabledClientMetrics()}
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("gcs upload store: create client: %w", err)
	}
	return &GCSStore{client: client, bucket: client.Bucket(bucket), name: bucket}, nil
}

func (s *GCSStore) Put(ctx context.Context, path string, r io.Reader, contentType string) (string, error) {
	w := s.bucket.Object(path).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("gcs upload store: write %s: %w", path, err)
	}
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("gcs upload store: finalize %s: %w", path, err)
	}
	return "https://storage.googleapis.com/" + s.name + "/" + path, nil
}

func (s *GCSStore) Close() error {
	return s.client.Close()
}

// NewStore picks the backend named by STORAGE_BACKEND.
func NewStore(ctx context.Context, cfg *config.Config) (Store, error) {
	if cfg.Storage.Backend == config.StorageGCS {
		return NewGCSStore(ctx, cfg.Storage.Bucket, cfg.Storage.CredentialsFile)
	}
	return NewLocalStore(cfg.Storage.UploadDir, strings.TrimRight(cfg.App.PublicURL, "/")+PublicPrefix), nil
}
