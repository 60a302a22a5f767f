package archive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/justapithecus/lode/lode"
	lodes3 "github.com/justapithecus/lode/lode/s3"
)

// S3Config holds configuration for the S3 storage backend.
type S3Config struct {
	// Bucket is the S3 bucket name (required).
	Bucket string
	// Prefix is the key prefix within the bucket.
	Prefix string
	// Region is the AWS region. Empty uses the default chain.
	Region string
	// Profile is a shared config profile. Empty uses the default chain.
	Profile string
	// Endpoint is a custom endpoint for S3-compatible stores (MinIO, R2).
	Endpoint string
	// UsePathStyle forces path-style addressing; most S3-compatible stores
	// need it.
	UsePathStyle bool
}

// Validate checks that required S3 configuration is present.
func (c *S3Config) Validate() error {
	if c.Bucket == "" {
		return errors.New("S3 bucket is required")
	}
	return nil
}

// ParseS3URI splits "s3://bucket/prefix" (or "bucket/prefix") into bucket
// and prefix.
func ParseS3URI(uri string) (bucket, prefix string, err error) {
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, prefix, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("invalid S3 location %q: missing bucket", uri)
	}
	return bucket, strings.Trim(prefix, "/"), nil
}

// IsS3URI reports whether s names an S3 location.
func IsS3URI(s string) bool {
	return strings.HasPrefix(s, "s3://")
}

// NewS3Client creates an S3 client using the AWS default credential chain
// with the configured overrides.
func NewS3Client(ctx context.Context, c S3Config) (*s3.Client, error) {
	var opts []func(*config.LoadOptions) error
	if c.Region != "" {
		opts = append(opts, config.WithRegion(c.Region))
	}
	if c.Profile != "" {
		opts = append(opts, config.WithSharedConfigProfile(c.Profile))
	}

	awsConfig, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return s3.NewFromConfig(awsConfig, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
		}
		o.UsePathStyle = c.UsePathStyle
	}), nil
}

// NewS3 creates an archive in an S3 bucket.
func NewS3(ctx context.Context, dataset string, c S3Config, opts ...Option) (*Archive, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	client, err := NewS3Client(ctx, c)
	if err != nil {
		return nil, wrap("init", dataset, err)
	}

	factory := func() (lode.Store, error) {
		return lodes3.New(client, lodes3.Config{
			Bucket: c.Bucket,
			Prefix: c.Prefix,
		})
	}
	return New(dataset, BackendS3, factory, opts...)
}
