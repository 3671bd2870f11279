package file

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// S3Config selects an S3 or S3-compatible bucket (MinIO, R2). Images fall
// back to the local disk when Bucket is empty.
type S3Config struct {
	Bucket         string `env:"S3_BUCKET"`
	Region         string `env:"S3_REGION" envDefault:"us-east-1"`
	AccessKeyID    string `env:"S3_ACCESS_KEY_ID"`
	SecretKey      string `env:"S3_SECRET_ACCESS_KEY"`
	Endpoint       string `env:"S3_ENDPOINT"`
	PublicURL      string `env:"S3_PUBLIC_URL"`
	ForcePathStyle bool   `env:"S3_FORCE_PATH_STYLE"`
}

func (c S3Config) Enabled() bool {
	return c.Bucket != ""
}

// publicURL is where objects are served from when PublicURL is unset.
func (c S3Config) publicURL() string {
	switch {
	case c.PublicURL != "":
		return withSlash(c.PublicURL)
	case c.Endpoint != "":
		return strings.TrimSuffix(c.Endpoint, "/") + "/" + c.Bucket + "/"
	default:
		return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/", c.Bucket, c.Region)
	}
}

// S3API is the subset of *s3.Client used by S3Storage.
type S3API interface {
	s3.ListObjectsV2APIClient
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	DeleteObject(ctx context.Context, params *s3.DeleteObjectInput, optFns ...func(*s3.Options)) (*s3.DeleteObjectOutput, error)
}

// S3Storage stores objects in one bucket. It is safe for concurrent use.
type S3Storage struct {
	api     S3API
	bucket  string
	baseURL string
}

type S3Option func(*s3Settings)

type s3Settings struct {
	api        S3API
	httpClient *http.Client
}

// WithS3API replaces the SDK client, mainly for tests.
func WithS3API(api S3API) S3Option {
	return func(o *s3Settings) { o.api = api }
}

func WithS3HTTPClient(c *http.Client) S3Option {
	return func(o *s3Settings) { o.httpClient = c }
}

// NewS3Storage builds an SDK client from cfg. Static credentials are used
// when both keys are set, otherwise the default AWS credential chain.
func NewS3Storage(ctx context.Context, cfg S3Config, opts ...S3Option) (*S3Storage, error) {
	if cfg.Bucket == "" || cfg.Region == "" {
		return nil, fmt.Errorf("%w: bucket and region are required", ErrInvalidConfig)
	}

	var set s3Settings
	for _, opt := range opts {
		opt(&set)
	}

	if set.api == nil {
		loaders := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
		if cfg.AccessKeyID != "" && cfg.SecretKey != "" {
			loaders = append(loaders, config.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretKey, "")))
		}
		if set.httpClient != nil {
			loaders = append(loaders, config.WithHTTPClient(set.httpClient))
		}
		awsCfg, err := config.LoadDefaultConfig(ctx, loaders...)
		if err != nil {
			return nil, errors.Join(ErrInvalidConfig, err)
		}
		set.api = s3.NewFromConfig(awsCfg, func(o *s3.Options) {
			if cfg.Endpoint != "" {
				o.BaseEndpoint = aws.String(cfg.Endpoint)
			}
			o.UsePathStyle = cfg.ForcePathStyle
		})
	}

	return &S3Storage{api: set.api, bucket: cfg.Bucket, baseURL: cfg.publicURL()}, nil
}

func (s *S3Storage) Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	in := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        body,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		in.ContentLength = aws.Int64(size)
	}
	if _, err := s.api.PutObject(ctx, in); err != nil {
		return s3Error("put "+key, err)
	}
	return nil
}

// Delete checks the key first because DeleteObject succeeds on missing keys.
func (s *S3Storage) Delete(ctx context.Context, key string) error {
	key, err := cleanKey(key)
	if err != nil {
		return err
	}
	if _, err := s.api.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return s3Error("head "+key, err)
	}
	if _, err := s.api.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	}); err != nil {
		return s3Error("delete "+key, err)
	}
	return nil
}

// List walks every page under prefix, skipping nested "directories".
func (s *S3Storage) List(ctx context.Context, prefix string) ([]Object, error) {
	prefix = strings.Trim(prefix, "/")
	if prefix != "" {
		var err error
		if prefix, err = cleanKey(prefix); err != nil {
			return nil, err
		}
		prefix += "/"
	}

	pages := s3.NewListObjectsV2Paginator(s.api, &s3.ListObjectsV2Input{
		Bucket:    aws.String(s.bucket),
		Prefix:    aws.String(prefix),
		Delimiter: aws.String("/"),
	})

	objects := []Object{}
	for pages.HasMorePages() {
		page, err := pages.NextPage(ctx)
		if err != nil {
			return nil, s3Error("list "+prefix, err)
		}
		for _, obj := range page.Contents {
			key := aws.ToString(obj.Key)
			if key == prefix || strings.HasSuffix(key, "/") {
				continue
			}
			objects = append(objects, Object{
				Key:     key,
				Size:    aws.ToInt64(obj.Size),
				ModTime: aws.ToTime(obj.LastModified),
			})
		}
	}
	return objects, nil
}

func (s *S3Storage) URL(key string) string {
	return s.baseURL + strings.TrimPrefix(key, "/")
}

// s3Error folds SDK errors into the package errors, keeping the cause.
func s3Error(op string, err error) error {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	var (
		noKey    *types.NoSuchKey
		notFound *types.NotFound
		noBucket *types.NoSuchBucket
	)
	switch {
	case errors.As(err, &noKey), errors.As(err, &notFound):
		return fmt.Errorf("%w: %s: %w", ErrFileNotFound, op, err)
	case errors.As(err, &noBucket):
		return fmt.Errorf("%w: %s: %w", ErrBucketNotFound, op, err)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if kind, ok := s3Codes[apiErr.ErrorCode()]; ok {
			return fmt.Errorf("%w: %s: %w", kind, op, err)
		}
	}
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}

var s3Codes = map[string]error{
	"NoSuchKey":          ErrFileNotFound,
	"NotFound":           ErrFileNotFound,
	"NoSuchBucket":       ErrBucketNotFound,
	"AccessDenied":       ErrAccessDenied,
	"Forbidden":          ErrAccessDenied,
	"SlowDown":           ErrUnavailable,
	"ServiceUnavailable": ErrUnavailable,
	"RequestTimeout":     ErrUnavailable,
	"InternalError":      ErrUnavailable,
}
