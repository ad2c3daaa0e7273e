package services

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
)

// GCSBillStore uploads bills to a Google Cloud Storage bucket
type GCSBillStore struct {
	client *storage.Client
	bucket string
}

// NewGCSBillStore initializes the GCP Storage client using application default credentials
func NewGCSBillStore(ctx context.Context, bucket string) (*GCSBillStore, error) {
	if bucket == "" {
		return nil, fmt.Errorf("GCP_BUCKET_NAME not set")
	}

	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCP storage client: %w", err)
	}

	return &GCSBillStore{client: client, bucket: bucket}, nil
}

// Save uploads the bill and returns its public URL
func (s *GCSBillStore) Save(ctx context.Context, filename, contentType string, r io.Reader) (string, error) {
	objectName := "bills/" + billObjectName(time.Now(), filename)

	writer := s.client.Bucket(s.bucket).Object(objectName).NewWriter(ctx)
	if contentType != "" {
		writer.ContentType = contentType
	}

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return "", fmt.Errorf("GCS upload failed: %w", err)
	}

	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("GCS upload finalization failed: %w", err)
	}

	return fmt.Sprintf("https://storage.googleapis.com/%s/%s", s.bucket, objectName), nil
}

// Close releases the storage client
func (s *GCSBillStore) Close() error {
	return s.client.Close()
}
