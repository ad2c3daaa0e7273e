package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"radhe_backend/pkg/config"
)

// BillStore persists uploaded payment bills and returns the stored location
type BillStore interface {
	Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error)
}

// NewBillStore builds the store selected by STORAGE_DRIVER
func NewBillStore(ctx context.Context, cfg *config.Config) (BillStore, error) {
	switch cfg.StorageDriver {
	case "gcs":
		return NewGCSBillStore(ctx, cfg.GCPBucketName)
	case "s3":
		return NewS3BillStore(ctx, cfg.AWSRegion, cfg.AWSS3Bucket, cfg.AWSAccessKeyID, cfg.AWSSecretKey)
	default:
		return NewLocalBillStore(cfg.UploadDir)
	}
}

// billObjectName prefixes the sanitized file name with a millisecond timestamp
func billObjectName(now time.Time, filename string) string {
	base := filepath.Base(filename)
	base = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, base)
	if base == "" || base == "." || base == "_" {
		base = "bill"
	}
	return fmt.Sprintf("%d-%s", now.UnixMilli(), base)
}

// LocalBillStore writes bills under a directory on disk
type LocalBillStore struct {
	Dir string
	now func() time.Time
}

// NewLocalBillStore creates the upload directory if needed
func NewLocalBillStore(dir string) (*LocalBillStore, error) {
	if dir == "" {
		dir = "uploads"
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &LocalBillStore{Dir: dir, now: time.Now}, nil
}

func (s *LocalBillStore) Save(ctx context.Context, filename, _ string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	path := filepath.Join(s.Dir, billObjectName(s.now(), filename))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create bill file: %w", err)
	}

	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		os.Remove(path)
		return "", fmt.Errorf("failed to write bill file: %w", err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close bill file: %w", err)
	}
	return filepath.ToSlash(path), nil
}
