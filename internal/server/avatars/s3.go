// Package avatars stores user avatar images in an S3-compatible bucket.
package avatars

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	sc "github.com/sangvinij/user-management-micro-service/internal/server/config"
)

// Storage persists avatar images and hands out short-lived read URLs.
type Storage interface {
	Upload(ctx context.Context, body io.Reader, contentType string) (string, error)
	PresignGet(ctx context.Context, key string) (string, error)
}

// S3Storage implements Storage on top of an S3-compatible backend
// (AWS S3, MinIO, localstack).
type S3Storage struct {
	client  *s3.Client
	presign *s3.PresignClient
	bucket  string
}

// NewS3Storage builds the S3 client from static credentials and an optional
// custom endpoint.
func NewS3Storage(ctx context.Context, cfg *sc.Config) (*S3Storage, error) {
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
		}
		o.UsePathStyle = true
	})

	return &S3Storage{
		client:  client,
		presign: s3.NewPresignClient(client),
		bucket:  cfg.S3Bucket,
	}, nil
}

// randomStorageKey places objects under a date-sharded prefix so buckets
// stay browsable.
func randomStorageKey() string {
	d := time.Now()
	return fmt.Sprintf("users/%d/%d/%d/%v", d.Year(), d.Month(), d.Day(), uuid.New())
}

// Upload writes the image to the bucket and returns the object key stored
// on the user record.
func (s *S3Storage) Upload(ctx context.Context, body io.Reader, contentType string) (string, error) {
	key := randomStorageKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("avatar upload: %w", err)
	}

	return key, nil
}

// PresignGet returns a presigned GET URL for a stored avatar.
func (s *S3Storage) PresignGet(ctx context.Context, key string) (string, error) {
	req, err := s.presign.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return "", fmt.Errorf("avatar presign: %w", err)
	}

	return req.URL, nil
}
