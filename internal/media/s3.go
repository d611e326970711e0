package media

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"vidtube/internal/config"
)

// S3Store stores media on an S3-compatible service.
type S3Store struct {
	client   *s3.Client
	uploader *manager.Uploader
	bucket   string
	baseURL  string
}

// NewS3Store configures a client and uploader for the configured bucket.
func NewS3Store(ctx context.Context, cfg config.MediaConfig) (*S3Store, error) {
	if strings.TrimSpace(cfg.Bucket) == "" {
		return nil, fmt.Errorf("s3 storage: bucket is required")
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRegion(cfg.Region),
	}
	if cfg.AccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if strings.TrimSpace(cfg.Endpoint) != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 10 * 1024 * 1024
		u.LeavePartsOnError = false
	})

	return &S3Store{
		client:   client,
		uploader: uploader,
		bucket:   cfg.Bucket,
		baseURL:  strings.TrimSuffix(cfg.PublicBaseURL, "/"),
	}, nil
}

// Upload streams the local file to the bucket under a fresh key.
func (s *S3Store) Upload(ctx context.Context, localPath string) (*Asset, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("s3 storage open %s: %w", localPath, err)
	}
	defer f.Close()

	key := ObjectKey(localPath)
	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   f,
		ACL:    s3types.ObjectCannedACLPublicRead,
	}
	if ct := mime.TypeByExtension(filepath.Ext(localPath)); ct != "" {
		input.ContentType = aws.String(ct)
	}

	if _, err := s.uploader.Upload(ctx, input); err != nil {
		return nil, fmt.Errorf("s3 storage upload %s: %w", key, err)
	}

	return &Asset{URL: s.publicURL(key), PublicID: key}, nil
}

// Delete removes the object identified by publicID.
func (s *S3Store) Delete(ctx context.Context, publicID string) (bool, error) {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(publicID),
	})
	if err != nil {
		return false, fmt.Errorf("s3 storage delete %s: %w", publicID, err)
	}
	return true, nil
}

func (s *S3Store) publicURL(key string) string {
	if s.baseURL == "" {
		return key
	}
	return fmt.Sprintf("%s/%s", s.baseURL, key)
}
