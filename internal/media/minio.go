package media

import (
	"context"
	"fmt"
	"mime"
	"path/filepath"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"vidtube/internal/config"
)

// MinioStore stores media on a MinIO deployment.
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// NewMinioStore creates a MinIO client and makes sure the bucket exists.
func NewMinioStore(ctx context.Context, cfg config.MediaConfig) (*MinioStore, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("minio storage: bucket is required")
	}
	if strings.TrimSpace(cfg.Endpoint) == "" {
		return nil, fmt.Errorf("minio storage: endpoint is required")
	}

	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("minio storage: create client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("minio storage: check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{Region: cfg.Region}); err != nil {
			return nil, fmt.Errorf("minio storage: create bucket %s: %w", cfg.Bucket, err)
		}
	}

	baseURL := strings.TrimSuffix(cfg.PublicBaseURL, "/")
	if baseURL == "" {
		baseURL = fmt.Sprintf("%s/%s", strings.TrimSuffix(client.EndpointURL().String(), "/"), cfg.Bucket)
	}

	return &MinioStore{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

// Upload copies the local file into the bucket under a fresh key.
func (m *MinioStore) Upload(ctx context.Context, localPath string) (*Asset, error) {
	key := ObjectKey(localPath)
	opts := minio.PutObjectOptions{ContentType: mime.TypeByExtension(filepath.Ext(localPath))}

	if _, err := m.client.FPutObject(ctx, m.bucket, key, localPath, opts); err != nil {
		return nil, fmt.Errorf("minio storage upload %s: %w", key, err)
	}
	return &Asset{URL: m.baseURL + "/" + key, PublicID: key}, nil
}

// Delete removes the object identified by publicID.
func (m *MinioStore) Delete(ctx context.Context, publicID string) (bool, error) {
	if err := m.client.RemoveObject(ctx, m.bucket, publicID, minio.RemoveObjectOptions{}); err != nil {
		return false, fmt.Errorf("minio storage delete %s: %w", publicID, err)
	}
	return true, nil
}
