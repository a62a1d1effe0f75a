// Package storage uploads product images to S3-compatible object storage.
package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Uploader stores a file and returns its public URL.
type Uploader interface {
	UploadImage(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error)
}

// MinioConfig holds object storage connection settings.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioUploader uploads files to a MinIO bucket.
type MinioUploader struct {
	client *minio.Client
	config MinioConfig
}

// NewMinioUploader connects to the object store and ensures the
// configured bucket exists.
func NewMinioUploader(ctx context.Context, config MinioConfig) (*MinioUploader, error) {
	client, err := minio.New(config.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(config.AccessKey, config.SecretKey, ""),
		Secure: config.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to object storage: %w", err)
	}

	exists, err := client.BucketExists(ctx, config.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", config.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, config.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", config.Bucket, err)
		}
	}

	return &MinioUploader{client: client, config: config}, nil
}

// UploadImage stores the file under a random object name derived from the
// original and returns its URL.
func (u *MinioUploader) UploadImage(ctx context.Context, name string, r io.Reader, size int64, contentType string) (string, error) {
	objectName := fmt.Sprintf("%s-%s", uuid.NewString(), name)

	_, err := u.client.PutObject(ctx, u.config.Bucket, objectName, r, size,
		minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", name, err)
	}

	scheme := "http"
	if u.config.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, u.config.Endpoint, u.config.Bucket, objectName), nil
}
