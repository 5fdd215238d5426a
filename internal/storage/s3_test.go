package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"marketplace-service/internal/config"
)

func TestFileExtension(t *testing.T) {
	assert.Equal(t, ".png", fileExtension("photo.PNG", "image/jpeg"))
	assert.Equal(t, ".jpg", fileExtension("blob", "image/jpeg"))
	assert.Equal(t, ".mov", fileExtension("", "video/quicktime"))
	assert.Equal(t, "", fileExtension("", "application/octet-stream"))
}

func TestObjectKey(t *testing.T) {
	at := time.Date(2024, 3, 9, 23, 0, 0, 0, time.UTC)

	assert.Equal(t, "2024/03/09/abc.jpg", objectKey("", at, "abc", ".jpg"))
	assert.Equal(t, "listings/2024/03/09/abc.jpg", objectKey("/listings/", at, "abc", ".jpg"))
}

func TestNewS3StorageTrimsPublicURL(t *testing.T) {
	s := NewS3Storage(config.S3{
		Endpoint:  "http://localhost:9000",
		Bucket:    "uploads",
		Region:    "us-east-1",
		PublicURL: "http://localhost:9000/uploads/",
	})

	assert.Equal(t, "http://localhost:9000/uploads", s.publicURL)
	assert.Equal(t, "uploads", s.bucket)
}
