// Package storage keeps archived PDF renderings in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/tradedocs/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultRegion  = "us-east-1"
	pdfContentType = "application/pdf"
)

var errEmptyKey = errors.New("storage key is required")

// S3Archive writes renderings to one bucket of AWS S3 or a compatible server
// such as MinIO. Keys are placed under the configured prefix.
type S3Archive struct {
	client *s3.Client
	bucket string
	prefix string
	logger *zap.Logger
}

type S3ArchiveOption func(*S3Archive)

func WithLogger(logger *zap.Logger) S3ArchiveOption {
	return func(a *S3Archive) { a.logger = logger }
}

// NewS3Archive builds the client. Static keys are optional; without them the
// default AWS credential chain applies.
func NewS3Archive(ctx context.Context, cfg *config.S3Config, opts ...S3ArchiveOption) (*S3Archive, error) {
	if cfg == nil {
		return nil, errors.New("s3 configuration is required")
	}
	if cfg.Bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}
	if (cfg.AccessKeyID == "") != (cfg.SecretAccessKey == "") {
		return nil, errors.New("s3 access key and secret key must be set together")
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, loadOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	endpoint := normalizeEndpoint(cfg.Endpoint)
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.UsePathStyle = cfg.UsePathStyle
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
		}
	})

	a := &S3Archive{
		client: client,
		bucket: cfg.Bucket,
		prefix: strings.Trim(cfg.Prefix, "/"),
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

func loadOptions(cfg *config.S3Config) []func(*awsconfig.LoadOptions) error {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if cfg.AccessKeyID != "" {
		creds := credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")
		opts = append(opts, awsconfig.WithCredentialsProvider(creds))
	}
	return opts
}

// normalizeEndpoint defaults a bare host:port to https.
func normalizeEndpoint(endpoint string) string {
	if endpoint == "" || strings.Contains(endpoint, "://") {
		return endpoint
	}
	return "https://" + endpoint
}

func (a *S3Archive) Backend() string { return config.StorageS3 }

func (a *S3Archive) Bucket() string { return a.bucket }

func (a *S3Archive) objectKey(key string) string {
	if a.prefix == "" {
		return key
	}
	return path.Join(a.prefix, key)
}

func (a *S3Archive) Put(ctx context.Context, key string, pdf []byte) error {
	if key == "" {
		return errEmptyKey
	}
	if len(pdf) == 0 {
		return errors.New("refusing to archive an empty PDF")
	}
	object := a.objectKey(key)
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(a.bucket),
		Key:           aws.String(object),
		Body:          bytes.NewReader(pdf),
		ContentLength: aws.Int64(int64(len(pdf))),
		ContentType:   aws.String(pdfContentType),
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", a.bucket, object, err)
	}
	a.logger.Debug("PDF archived", zap.String("bucket", a.bucket), zap.String("key", object), zap.Int("bytes", len(pdf)))
	return nil
}

// Open streams an archived PDF. The caller closes the reader.
func (a *S3Archive) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	if key == "" {
		return nil, errEmptyKey
	}
	object := a.objectKey(key)
	out, err := a.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(a.bucket),
		Key:    aws.String(object),
	})
	if err != nil {
		return nil, fmt.Errorf("get s3://%s/%s: %w", a.bucket, object, err)
	}
	return out.Body, nil
}

// EnsureBucket creates the bucket on first start. A bucket that already
// exists, owned by us, is fine.
func (a *S3Archive) EnsureBucket(ctx context.Context) error {
	_, err := a.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(a.bucket)})
	if err == nil {
		return nil
	}
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	if !errors.As(err, &notFound) && !errors.As(err, &noSuchBucket) {
		return fmt.Errorf("head bucket %s: %w", a.bucket, err)
	}

	a.logger.Info("Creating archive bucket", zap.String("bucket", a.bucket))
	_, err = a.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(a.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", a.bucket, err)
	}
	return nil
}
