package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/sakashimaa/shop-api/pkg/config"
	"github.com/sakashimaa/shop-api/pkg/mylogger"
	"github.com/sakashimaa/shop-api/pkg/utils"
	"github.com/sony/gobreaker"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// S3Client is the part of the S3 API uploads need.
type S3Client interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type s3Storage struct {
	client  S3Client
	bucket  string
	folder  string
	baseURL string
	breaker *gobreaker.CircuitBreaker
	logger  *zap.Logger
	tracer  trace.Tracer
}

func NewS3StorageFromConfig(ctx context.Context, cfg config.Upload, logger *zap.Logger) (Storage, error) {
	if cfg.S3Bucket == "" {
		return nil, fmt.Errorf("s3 bucket is not configured")
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.S3Region)}
	if cfg.S3AccessKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3Endpoint)
			o.UsePathStyle = true
		}
	})

	baseURL := cfg.PublicBaseURL
	if baseURL == "" {
		if cfg.S3Endpoint != "" {
			baseURL = strings.TrimRight(cfg.S3Endpoint, "/") + "/" + cfg.S3Bucket
		} else {
			baseURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.S3Region)
		}
	}

	return NewS3Storage(client, cfg.S3Bucket, cfg.S3Folder, baseURL, logger), nil
}

func NewS3Storage(client S3Client, bucket, folder, baseURL string, logger *zap.Logger) Storage {
	return &s3Storage{
		client:  client,
		bucket:  bucket,
		folder:  strings.Trim(folder, "/"),
		baseURL: strings.TrimRight(baseURL, "/"),
		breaker: utils.NewBreaker("s3", logger),
		logger:  logger,
		tracer:  otel.Tracer("storage/s3"),
	}
}

func (s *s3Storage) Save(ctx context.Context, name, contentType string, body io.Reader) (string, error) {
	ctx, span := s.tracer.Start(ctx, "S3Storage.Save")
	defer span.End()

	key := path.Join(s.folder, path.Base(name))
	span.SetAttributes(
		attribute.String("bucket", s.bucket),
		attribute.String("key", key),
	)

	input := &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   body,
	}
	if contentType != "" {
		input.ContentType = aws.String(contentType)
	}

	_, err := utils.ExecuteWithBreaker(s.breaker, func() (*s3.PutObjectOutput, error) {
		return s.client.PutObject(ctx, input)
	})
	if err != nil {
		span.RecordError(err)
		mylogger.Error(ctx, s.logger, "Error uploading object", zap.String("key", key), zap.Error(err))

		return "", fmt.Errorf("error uploading to s3: %w", err)
	}

	return s.baseURL + "/" + key, nil
}
