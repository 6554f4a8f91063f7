package storage

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awshttp "github.com/aws/aws-sdk-go-v2/aws/transport/http"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Compile-time check that S3Backend implements Backend.
var _ Backend = (*S3Backend)(nil)

// ErrBucketRequired is returned when no bucket name is configured.
var ErrBucketRequired = errors.New("storage: S3 bucket is required")

// S3Config holds the configuration for S3 storage.
type S3Config struct {
	Bucket          string
	Region          string
	Endpoint        string // Optional: for custom S3-compatible endpoints (MinIO)
	AccessKeyID     string // Optional: AWS access key ID
	SecretAccessKey string // Optional: AWS secret access key
	MaxAttempts     int    // Optional: SDK retry attempts, 0 keeps the SDK default
}

// S3Backend stores media as objects in a single bucket.
// The bucket is discovered, and created if missing, on the first Create call.
// The result is cached for the lifetime of the backend and never invalidated.
type S3Backend struct {
	client *s3.Client
	bucket string
	region string

	mu          sync.Mutex
	bucketReady bool
}

// NewS3Backend creates a new S3Backend from cfg.
func NewS3Backend(cfg S3Config) (*S3Backend, error) {
	if cfg.Bucket == "" {
		return nil, ErrBucketRequired
	}

	var configOpts []func(*config.LoadOptions) error
	configOpts = append(configOpts, config.WithRegion(cfg.Region))

	// Use static credentials if provided
	if cfg.AccessKeyID != "" && cfg.SecretAccessKey != "" {
		configOpts = append(configOpts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, ""),
		))
	}
	if cfg.MaxAttempts > 0 {
		configOpts = append(configOpts, config.WithRetryMaxAttempts(cfg.MaxAttempts))
	}

	awsCfg, err := config.LoadDefaultConfig(context.Background(), configOpts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}

	var clientOpts []func(*s3.Options)
	if cfg.Endpoint != "" {
		clientOpts = append(clientOpts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	return &S3Backend{
		client: s3.NewFromConfig(awsCfg, clientOpts...),
		bucket: cfg.Bucket,
		region: cfg.Region,
	}, nil
}

// Bucket returns the bucket name.
func (b *S3Backend) Bucket() string {
	return b.bucket
}

// key converts a validated path into an object key.
func key(p Path) string {
	return strings.TrimPrefix(string(p), "/")
}

// PathExists reports whether an object exists at p.
func (b *S3Backend) PathExists(ctx context.Context, p Path) bool {
	if err := p.Validate(); err != nil {
		return false
	}

	_, err := b.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key(p)),
	})
	return err == nil
}

// Unlink deletes the object at p.
func (b *S3Backend) Unlink(ctx context.Context, p Path) error {
	if err := p.Validate(); err != nil {
		return err
	}

	if !b.PathExists(ctx, p) {
		return fmt.Errorf("unlink %s: %w", p, ErrNotFound)
	}

	_, err := b.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(b.bucket),
		Key:    aws.String(key(p)),
	})
	if err != nil {
		return &BackendError{Op: "unlink", Path: p, Err: err}
	}
	return nil
}

// Create uploads the file at src to dst and removes src afterwards.
func (b *S3Backend) Create(ctx context.Context, src string, dst Path) error {
	if err := dst.Validate(); err != nil {
		return err
	}

	if err := b.ensureBucket(ctx); err != nil {
		return &BackendError{Op: "bucket", Path: dst, Err: err}
	}

	if b.PathExists(ctx, dst) {
		return fmt.Errorf("create %s: %w", dst, ErrAlreadyExists)
	}

	f, err := os.Open(src) // #nosec G304 - src is a staged upload owned by this process
	if err != nil {
		return &BackendError{Op: "create", Path: dst, Err: err}
	}

	_, err = b.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(b.bucket),
		Key:         aws.String(key(dst)),
		Body:        f,
		ContentType: aws.String("video/x-matroska"),
	})
	_ = f.Close()
	if err != nil {
		return &BackendError{Op: "create", Path: dst, Err: fmt.Errorf("upload to S3: %w", err)}
	}

	if err := os.Remove(src); err != nil {
		return &BackendError{Op: "create", Path: dst, Err: fmt.Errorf("remove source: %w", err)}
	}
	return nil
}

// ensureBucket makes sure the bucket exists, creating it when missing.
func (b *S3Backend) ensureBucket(ctx context.Context) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.bucketReady {
		return nil
	}

	_, err := b.client.HeadBucket(ctx, &s3.HeadBucketInput{
		Bucket: aws.String(b.bucket),
	})
	if err != nil {
		if !isNotFound(err) {
			return fmt.Errorf("head bucket: %w", err)
		}

		input := &s3.CreateBucketInput{Bucket: aws.String(b.bucket)}
		if b.region != "" && b.region != "us-east-1" {
			input.CreateBucketConfiguration = &types.CreateBucketConfiguration{
				LocationConstraint: types.BucketLocationConstraint(b.region),
			}
		}
		if _, err := b.client.CreateBucket(ctx, input); err != nil {
			return fmt.Errorf("create bucket: %w", err)
		}
	}

	b.bucketReady = true
	return nil
}

// isNotFound reports whether err is a 404 from S3.
func isNotFound(err error) bool {
	var nf *types.NotFound
	if errors.As(err, &nf) {
		return true
	}
	var nsb *types.NoSuchBucket
	if errors.As(err, &nsb) {
		return true
	}
	var re *awshttp.ResponseError
	return errors.As(err, &re) && re.HTTPStatusCode() == http.StatusNotFound
}
