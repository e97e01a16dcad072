package storage

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/tcgbay/marketplace/internal/app/config"
	"github.com/tcgbay/marketplace/internal/platform/logger"
)

// PhotoStorage stores listing photos in a MinIO/S3 bucket.
type PhotoStorage struct {
	client *minio.Client
	bucket string
	log    logger.Logger
}

func NewPhotoStorage(ctx context.Context, cfg config.MinIOConfig, log logger.Logger) (*PhotoStorage, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client for %s: %w", cfg.Endpoint, err)
	}

	if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
		exists, errExists := client.BucketExists(ctx, cfg.Bucket)
		if errExists != nil || !exists {
			return nil, fmt.Errorf("failed to make/verify bucket %s: %w", cfg.Bucket, err)
		}
	}

	return &PhotoStorage{client: client, bucket: cfg.Bucket, log: log}, nil
}

// Upload writes the photo under a generated object name and returns its URL.
func (s *PhotoStorage) Upload(ctx context.Context, fileName string, data []byte, contentType string) (string, error) {
	objectName := uuid.NewString() + strings.ToLower(filepath.Ext(fileName))

	_, err := s.client.PutObject(ctx, s.bucket, objectName,
		bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: contentType},
	)
	if err != nil {
		s.log.Errorf("failed to upload photo %s: %v", objectName, err)
		return "", fmt.Errorf("failed to upload photo: %w", err)
	}

	url := fmt.Sprintf("%s/%s/%s", s.client.EndpointURL().String(), s.bucket, objectName)
	s.log.Debugf("uploaded photo %s (%d bytes)", objectName, len(data))
	return url, nil
}

// Remove deletes a photo by its URL; unknown URLs are ignored.
func (s *PhotoStorage) Remove(ctx context.Context, photoURL string) error {
	idx := strings.LastIndex(photoURL, "/")
	if idx < 0 {
		return nil
	}
	objectName := photoURL[idx+1:]
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		return fmt.Errorf("failed to remove photo %s: %w", objectName, err)
	}
	return nil
}
