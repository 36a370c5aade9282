// SPDX-License-Identifier: Apache-2.0

package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/aether-drive/vault-core/internal/logger"
)

// S3Config configures an S3-compatible remote bucket. The source prototype
// targeted Storj DCS's S3-compatible gateway; any S3-compatible endpoint
// (Storj, MinIO, AWS S3 itself) works with this same client by supplying a
// different Endpoint.
type S3Config struct {
	AccessKeyID     string
	SecretAccessKey string
	Endpoint        string
	BucketName      string
	// Region defaults to "us-east-1" when empty — the conventional default
	// for S3-compatible gateways that do not meaningfully partition by
	// region.
	Region string
}

// S3Store is an objectstore.Store backed by an S3-compatible bucket via
// aws-sdk-go-v2, with path-style addressing forced on since most
// S3-compatible gateways (not AWS itself) require it.
type S3Store struct {
	client *s3.Client
	bucket string
	logger *logger.Logger
}

// NewS3Store constructs an S3Store from cfg. It does not perform any
// network call itself; connectivity is verified lazily on first use.
func NewS3Store(cfg S3Config, log *logger.Logger) (*S3Store, error) {
	if cfg.BucketName == "" {
		return nil, errors.New("objectstore: bucket name is required")
	}
	region := cfg.Region
	if region == "" {
		region = "us-east-1"
	}

	opts := s3.Options{
		Region: region,
		Credentials: credentials.NewStaticCredentialsProvider(
			cfg.AccessKeyID, cfg.SecretAccessKey, "",
		),
		UsePathStyle: true,
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
	}
	client := s3.New(opts)

	return &S3Store{client: client, bucket: cfg.BucketName, logger: log}, nil
}

func (s *S3Store) Put(ctx context.Context, key string, body []byte) error {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   newReadSeeker(body),
	})
	if err != nil {
		s.logger.Err(err).Str("func", "S3Store.Put").Str("key", key).Msg("object upload failed")
		return fmt.Errorf("objectstore: put %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) Get(ctx context.Context, key string) ([]byte, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		var notFound *s3types.NoSuchKey
		if errors.As(err, &notFound) {
			return nil, fmt.Errorf("objectstore: object %q not found: %w", key, err)
		}
		s.logger.Err(err).Str("func", "S3Store.Get").Str("key", key).Msg("object download failed")
		return nil, fmt.Errorf("objectstore: get %q: %w", key, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("objectstore: read body of %q: %w", key, err)
	}
	return data, nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		s.logger.Err(err).Str("func", "S3Store.Delete").Str("key", key).Msg("object delete failed")
		return fmt.Errorf("objectstore: delete %q: %w", key, err)
	}
	return nil
}

func (s *S3Store) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
		Prefix: aws.String(prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("objectstore: list prefix %q: %w", prefix, err)
		}
		for _, obj := range page.Contents {
			keys = append(keys, aws.ToString(obj.Key))
		}
	}
	return keys, nil
}
