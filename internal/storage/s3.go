package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"marketplace-service/internal/config"
)

// MediaStore stores uploaded listing media and returns where it can be fetched.
type MediaStore interface {
	Upload(ctx context.Context, in UploadInput) (UploadOutput, error)
}

// UploadInput describes one uploaded file.
type UploadInput struct {
	Reader      io.Reader
	ContentType string
	Size        int64
	Filename    string
	Prefix      string
}

type UploadOutput struct {
	Key        string
	URL        string
	Size       int64
	UploadedAt time.Time
}

// S3Storage is a MediaStore on an S3-compatible bucket (AWS or MinIO).
type S3Storage struct {
	client    *s3.Client
	bucket    string
	publicURL string
	now       func() time.Time
}

var _ MediaStore = (*S3Storage)(nil)

func NewS3Storage(cfg config.S3) *S3Storage {
	client := s3.New(s3.Options{
		Region:       cfg.Region,
		BaseEndpoint: aws.String(cfg.Endpoint),
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID,
			cfg.SecretAccessKey,
			"",
		),
		UsePathStyle: true,
	})

	return &S3Storage{
		client:    client,
		bucket:    cfg.Bucket,
		publicURL: strings.TrimRight(cfg.PublicURL, "/"),
		now:       time.Now,
	}
}

// Upload writes the file under a fresh key and returns its public URL.
func (s *S3Storage) Upload(ctx context.Context, in UploadInput) (UploadOutput, error) {
	key := objectKey(in.Prefix, s.now(), uuid.NewString(), fileExtension(in.Filename, in.ContentType))

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          in.Reader,
		ContentType:   aws.String(in.ContentType),
		ContentLength: aws.Int64(in.Size),
	})
	if err != nil {
		return UploadOutput{}, fmt.Errorf("uploading to s3: %w", err)
	}

	return UploadOutput{
		Key:        key,
		URL:        s.publicURL + "/" + key,
		Size:       in.Size,
		UploadedAt: s.now(),
	}, nil
}

// Delete removes an object by key.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("deleting from s3: %w", err)
	}
	return nil
}

func objectKey(prefix string, at time.Time, id, ext string) string {
	key := at.UTC().Format("2006/01/02") + "/" + id + ext
	if prefix == "" {
		return key
	}
	return strings.Trim(prefix, "/") + "/" + key
}

func fileExtension(filename, contentType string) string {
	if ext := strings.ToLower(path.Ext(filename)); ext != "" {
		return ext
	}
	switch contentType {
	case "image/jpeg":
		return ".jpg"
	case "image/png":
		return ".png"
	case "image/gif":
		return ".gif"
	case "image/webp":
		return ".webp"
	case "video/mp4":
		return ".mp4"
	case "video/quicktime":
		return ".mov"
	default:
		return ""
	}
}
