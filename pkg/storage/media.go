// Package storage uploads product and event images to S3 and stores only the
// resulting public URLs on the owning entities.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/tourhub-uz/tourhub/pkg/configuration"
)

type MediaStorage struct {
	client        *s3.Client
	bucket        string
	publicBaseURL string
}

func NewMediaStorage(ctx context.Context) (*MediaStorage, error) {
	conf := configuration.Use()
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(conf.Storage.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load aws config: %w", err)
	}
	base := conf.Storage.PublicBaseURL
	if base == "" {
		base = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", conf.Storage.Bucket, conf.Storage.Region)
	}
	return &MediaStorage{
		client:        s3.NewFromConfig(cfg),
		bucket:        conf.Storage.Bucket,
		publicBaseURL: strings.TrimRight(base, "/"),
	}, nil
}

// Upload stores body under a generated key (random UUID plus the original
// extension) and returns the public URL to persist on the entity.
func (m *MediaStorage) Upload(ctx context.Context, originalName, contentType string, body io.Reader) (string, error) {
	key := uuid.NewString() + strings.ToLower(path.Ext(originalName))
	_, err := m.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(m.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("failed to upload media object: %w", err)
	}
	return m.publicBaseURL + "/" + key, nil
}

// Delete removes the object behind a previously stored public URL. The key is
// recovered by parsing the URL path.
func (m *MediaStorage) Delete(ctx context.Context, publicURL string) error {
	parsed, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("failed to parse media url: %w", err)
	}
	key := strings.TrimPrefix(parsed.Path, "/")
	if key == "" {
		return fmt.Errorf("media url has no object key: %s", publicURL)
	}
	_, err = m.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(m.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("failed to delete media object: %w", err)
	}
	return nil
}
