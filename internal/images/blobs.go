package images

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/bilgisen/skypost/internal/models"
)

// BlobSource resolves an asset's path into its raw bytes.
type BlobSource interface {
	Fetch(ctx context.Context, asset models.ImageAsset) ([]byte, error)
}

// LocalSource reads image blobs from a directory on disk.
type LocalSource struct {
	baseDir string
}

func NewLocalSource(baseDir string) *LocalSource {
	return &LocalSource{baseDir: baseDir}
}

func (l *LocalSource) Fetch(ctx context.Context, asset models.ImageAsset) ([]byte, error) {
	path := asset.Path
	if !filepath.IsAbs(path) {
		path = filepath.Join(l.baseDir, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read image %s: %w", path, err)
	}
	return data, nil
}

// S3Source reads image blobs from an S3-compatible bucket (Cloudflare R2).
type S3Source struct {
	client *s3.Client
	bucket string
}

// NewS3Source builds a client for the configured R2 endpoint using static
// credentials.
func NewS3Source(ctx context.Context, endpoint, accessKey, secretKey, bucket string) (*S3Source, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("auto"),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load S3 config: %w", err)
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	return &S3Source{client: client, bucket: bucket}, nil
}

func (s *S3Source) Fetch(ctx context.Context, asset models.ImageAsset) ([]byte, error) {
	key := strings.TrimPrefix(asset.Path, "/")
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch s3://%s/%s: %w", s.bucket, key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s body: %w", s.bucket, key, err)
	}
	return data, nil
}
