// Package storage issues presigned upload URLs for storefront images.
package storage

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	storefrontapp "github.com/levelshop/backend/internal/application/storefront"
	"github.com/levelshop/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

const (
	defaultEndpoint     = "http://localhost:9000"
	defaultRegion       = "us-east-1"
	defaultUploadExpiry = 15 * time.Minute
)

var errEmptyKey = errors.New("storage key is required")

var _ storefrontapp.ImageStorage = (*S3ImageStorage)(nil)

// S3ImageStorage hands out presigned PUT URLs on an S3-compatible bucket
// (AWS S3, MinIO, R2)
type S3ImageStorage struct {
	client     *s3.Client
	presigner  *s3.PresignClient
	bucket     string
	publicBase string
	expiry     time.Duration
	logger     *zap.Logger
}

// S3Option configures an S3ImageStorage
type S3Option func(*S3ImageStorage)

// WithLogger sets the logger used for bucket provisioning
func WithLogger(logger *zap.Logger) S3Option {
	return func(s *S3ImageStorage) {
		s.logger = logger
	}
}

// NewS3ImageStorage builds the client for cfg. No request is made.
func NewS3ImageStorage(ctx context.Context, cfg config.StorageConfig, opts ...S3Option) (*S3ImageStorage, error) {
	if err := checkCredentials(cfg); err != nil {
		return nil, err
	}
	endpoint, err := resolveEndpoint(cfg.Endpoint, cfg.UseSSL)
	if err != nil {
		return nil, err
	}

	client, err := newS3Client(ctx, cfg, endpoint)
	if err != nil {
		return nil, err
	}

	s := &S3ImageStorage{
		client:     client,
		presigner:  s3.NewPresignClient(client),
		bucket:     cfg.Bucket,
		publicBase: publicBaseFor(cfg, endpoint),
		expiry:     cfg.PresignExpiration,
		logger:     zap.NewNop(),
	}
	if s.expiry <= 0 {
		s.expiry = defaultUploadExpiry
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func checkCredentials(cfg config.StorageConfig) error {
	var missing []string
	if cfg.Bucket == "" {
		missing = append(missing, "bucket")
	}
	if cfg.AccessKey == "" {
		missing = append(missing, "access key")
	}
	if cfg.SecretKey == "" {
		missing = append(missing, "secret key")
	}
	if len(missing) > 0 {
		return fmt.Errorf("s3 storage: missing %s", strings.Join(missing, ", "))
	}
	return nil
}

// resolveEndpoint adds a scheme to bare hosts
func resolveEndpoint(endpoint string, useSSL bool) (string, error) {
	if endpoint == "" {
		return defaultEndpoint, nil
	}
	if !strings.Contains(endpoint, "://") {
		scheme := "http://"
		if useSSL {
			scheme = "https://"
		}
		endpoint = scheme + endpoint
	}
	u, err := url.Parse(endpoint)
	if err != nil {
		return "", fmt.Errorf("s3 storage: invalid endpoint: %w", err)
	}
	if u.Host == "" {
		return "", fmt.Errorf("s3 storage: endpoint %q has no host", endpoint)
	}
	return strings.TrimRight(endpoint, "/"), nil
}

func publicBaseFor(cfg config.StorageConfig, endpoint string) string {
	if base := strings.TrimRight(cfg.PublicBaseURL, "/"); base != "" {
		return base
	}
	return endpoint + "/" + cfg.Bucket
}

func newS3Client(ctx context.Context, cfg config.StorageConfig, endpoint string) (*s3.Client, error) {
	region := cfg.Region
	if region == "" {
		region = defaultRegion
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(region),
		awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("s3 storage: load aws config: %w", err)
	}
	return s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = cfg.UsePathStyle
	}), nil
}

// Bucket returns the bucket uploads go to
func (s *S3ImageStorage) Bucket() string {
	return s.bucket
}

// EnsureBucket creates the bucket when HeadBucket reports it missing
func (s *S3ImageStorage) EnsureBucket(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	switch {
	case err == nil:
		return nil
	case !bucketMissing(err):
		return fmt.Errorf("head bucket %s: %w", s.bucket, err)
	}

	_, err = s.client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(s.bucket)})
	var owned *types.BucketAlreadyOwnedByYou
	if err != nil && !errors.As(err, &owned) {
		return fmt.Errorf("create bucket %s: %w", s.bucket, err)
	}
	s.logger.Info("Image bucket provisioned", zap.String("bucket", s.bucket))
	return nil
}

func bucketMissing(err error) bool {
	var notFound *types.NotFound
	var noSuchBucket *types.NoSuchBucket
	return errors.As(err, &notFound) || errors.As(err, &noSuchBucket)
}

// GenerateUploadURL presigns a PUT of contentType at key. Zero or negative
// expiresIn falls back to the configured expiry.
func (s *S3ImageStorage) GenerateUploadURL(
	ctx context.Context,
	key, contentType string,
	expiresIn time.Duration,
) (string, time.Time, error) {
	if key == "" {
		return "", time.Time{}, errEmptyKey
	}
	if expiresIn <= 0 {
		expiresIn = s.expiry
	}

	issued := time.Now()
	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(expiresIn))
	if err != nil {
		return "", time.Time{}, fmt.Errorf("presign upload of %s: %w", key, err)
	}
	return req.URL, issued.Add(expiresIn), nil
}

// PublicURL returns where the object at key is served from
func (s *S3ImageStorage) PublicURL(key string) string {
	return s.publicBase + "/" + strings.TrimLeft(key, "/")
}
