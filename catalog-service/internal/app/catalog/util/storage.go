package util

import (
	"context"
	"fmt"
	"strings"

	"umsshop/catalog-service/internal/app/catalog/entity"
	"umsshop/pkg/logger"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3API часть клиента S3, нужная для загрузки изображений
type S3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Storage кладет изображения категорий в бакет
type S3Storage struct {
	client  S3API
	bucket  string
	baseURL string
}

// NewS3Storage baseURL может быть пустым, тогда URL строится по бакету и региону
func NewS3Storage(client S3API, bucket, region, baseURL string) *S3Storage {
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", bucket, region)
	}
	return &S3Storage{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

func (s *S3Storage) Upload(ctx context.Context, key string, image entity.CategoryImage) (string, error) {
	contentType := image.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        image.Body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload image: %w", err)
	}

	logger.Debug().
		Str("bucket", s.bucket).
		Str("key", key).
		Msg("Category image uploaded")

	return s.baseURL + "/" + key, nil
}
