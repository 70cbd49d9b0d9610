// Package storage uploads compiled documents to S3 and hands out time-limited download links.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"

	"github.com/maheshdila/cv-gen-BE/internal/logging"
)

const (
	// DefaultBucket receives generated documents
	DefaultBucket = "cv-bucket-protfolio-app"
	// DefaultRegion is the bucket region
	DefaultRegion = "ap-southeast-1"
	// DefaultPresignTTL is the lifetime of download links
	DefaultPresignTTL = time.Hour
	// ContentTypePDF is set on uploads and on presigned responses
	ContentTypePDF = "application/pdf"
)

// ObjectStore uploads local files and presigns downloads.
type ObjectStore interface {
	Upload(ctx context.Context, localPath, bucket, key string) error
	PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error)
}

type putObjectAPI interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

type presignGetAPI interface {
	PresignGetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error)
}

// S3Options configures NewS3Store. Static keys are optional; without them the default
// credential chain (environment, shared config, instance role) is used.
type S3Options struct {
	Region          string
	AccessKeyID     string
	SecretAccessKey string
	SessionToken    string
	Endpoint        string
}

// S3Store is an ObjectStore backed by Amazon S3.
type S3Store struct {
	client      putObjectAPI
	presigner   presignGetAPI
	credentials aws.CredentialsProvider
}

var _ ObjectStore = (*S3Store)(nil)

// NewS3Store loads AWS configuration and builds an S3 client.
func NewS3Store(ctx context.Context, opts S3Options) (*S3Store, error) {
	region := opts.Region
	if region == "" {
		region = DefaultRegion
	}

	loadOpts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(region)}
	if opts.AccessKeyID != "" && opts.SecretAccessKey != "" {
		loadOpts = append(loadOpts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, opts.SessionToken),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		return nil, &CredentialsError{Message: "failed to load AWS configuration", Cause: err}
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Store{
		client:      client,
		presigner:   s3.NewPresignClient(client),
		credentials: cfg.Credentials,
	}, nil
}

// Upload puts the file at localPath under bucket/key with a PDF content type.
func (s *S3Store) Upload(ctx context.Context, localPath, bucket, key string) error {
	f, err := os.Open(localPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &FileNotFoundError{Path: localPath, Cause: err}
		}
		return &UploadError{Message: "failed to open local file", Bucket: bucket, Key: key, Cause: err}
	}
	defer func() { _ = f.Close() }()

	if err := s.checkCredentials(ctx); err != nil {
		return err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		Body:        f,
		ContentType: aws.String(ContentTypePDF),
	})
	if err != nil {
		return classifyError(err, "failed to upload object", bucket, key)
	}

	logging.FromContext(ctx).Info("uploaded object", "bucket", bucket, "key", key)
	return nil
}

// PresignGet returns a GET URL for bucket/key that renders inline as a PDF and expires after ttl.
func (s *S3Store) PresignGet(ctx context.Context, bucket, key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = DefaultPresignTTL
	}
	if err := s.checkCredentials(ctx); err != nil {
		return "", err
	}

	req, err := s.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket:                     aws.String(bucket),
		Key:                        aws.String(key),
		ResponseContentType:        aws.String(ContentTypePDF),
		ResponseContentDisposition: aws.String("inline"),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", classifyError(err, "failed to presign download URL", bucket, key)
	}
	return req.URL, nil
}

func (s *S3Store) checkCredentials(ctx context.Context) error {
	if s.credentials == nil {
		return &CredentialsError{Message: "no credential provider configured"}
	}
	creds, err := s.credentials.Retrieve(ctx)
	if err != nil {
		return &CredentialsError{Message: "failed to retrieve AWS credentials", Cause: err}
	}
	if !creds.HasKeys() {
		return &CredentialsError{Message: "AWS credentials are empty"}
	}
	return nil
}

var credentialErrorCodes = map[string]bool{
	"InvalidAccessKeyId":    true,
	"SignatureDoesNotMatch": true,
	"ExpiredToken":          true,
	"InvalidToken":          true,
}

func classifyError(err error, message, bucket, key string) error {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		if credentialErrorCodes[apiErr.ErrorCode()] {
			return &CredentialsError{Message: fmt.Sprintf("%s: %s", message, apiErr.ErrorMessage()), Cause: err}
		}
		return &UploadError{Message: message, Bucket: bucket, Key: key, Code: apiErr.ErrorCode(), Cause: err}
	}
	return &UploadError{Message: message, Bucket: bucket, Key: key, Cause: err}
}
