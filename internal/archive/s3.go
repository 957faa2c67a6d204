package archive

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/hashicorp/go-hclog"
)

// S3Config contains configuration for the S3 archive.
type S3Config struct {
	Bucket    string `hcl:"bucket"`              // S3 bucket name
	Region    string `hcl:"region"`              // AWS region (e.g., "us-east-1")
	Endpoint  string `hcl:"endpoint,optional"`   // Custom endpoint for MinIO or other S3-compatible services
	Prefix    string `hcl:"prefix,optional"`     // Optional key prefix (e.g., "envelopes/")
	AccessKey string `hcl:"access_key,optional"` // Access key ID; the default AWS chain is used when empty
	SecretKey string `hcl:"secret_key,optional"` // Secret access key

	ContentType string `hcl:"content_type,optional"` // Default: "application/pdf"
}

// Validate checks if the configuration is valid
func (c *S3Config) Validate() error {
	return validation.ValidateStruct(c,
		validation.Field(&c.Bucket, validation.Required),
		validation.Field(&c.Region, validation.Required),
		validation.Field(&c.SecretKey, validation.When(c.AccessKey != "", validation.Required)),
	)
}

// SetDefaults sets default values for optional configuration fields
func (c *S3Config) SetDefaults() {
	if c.ContentType == "" {
		c.ContentType = "application/pdf"
	}
}

// s3API is the subset of the S3 client the sink uses.
type s3API interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads documents to an S3 bucket.
type S3Sink struct {
	client s3API
	cfg    *S3Config
	logger hclog.Logger
}

var _ Sink = (*S3Sink)(nil)

// NewS3Sink creates an S3 sink.
func NewS3Sink(ctx context.Context, cfg *S3Config, logger hclog.Logger) (*S3Sink, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid S3 configuration: %w", err)
	}

	awsCfg, err := createAWSConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			// Path-style addressing for MinIO and friends.
			o.UsePathStyle = true
		}
	})

	return newS3Sink(client, cfg, logger), nil
}

func newS3Sink(client s3API, cfg *S3Config, logger hclog.Logger) *S3Sink {
	cfg.SetDefaults()
	if logger == nil {
		logger = hclog.NewNullLogger()
	}
	return &S3Sink{
		client: client,
		cfg:    cfg,
		logger: logger.Named("s3-archive"),
	}
}

// createAWSConfig creates AWS SDK configuration from the sink config
func createAWSConfig(ctx context.Context, cfg *S3Config) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(cfg.Region),
	}

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	return config.LoadDefaultConfig(ctx, opts...)
}

// Put uploads data under prefix/name and returns its s3:// location.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte) (string, error) {
	if err := validateName(name); err != nil {
		return "", err
	}

	key := path.Join(strings.TrimSuffix(s.cfg.Prefix, "/"), name)
	key = strings.TrimPrefix(key, "/")

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.cfg.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentType:   aws.String(s.cfg.ContentType),
		ContentLength: aws.Int64(int64(len(data))),
	})
	if err != nil {
		return "", fmt.Errorf("failed to put object to S3: %w", err)
	}

	location := fmt.Sprintf("s3://%s/%s", s.cfg.Bucket, key)
	s.logger.Debug("document archived", "location", location, "bytes", len(data))
	return location, nil
}
