package messages

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
)

// maxObjectSize caps the size of a message document read from S3.
const maxObjectSize = 4 << 20

// S3Config configures an S3-compatible message source.
type S3Config struct {
	Bucket    string `env:"MESSAGES_S3_BUCKET"`
	Prefix    string `env:"MESSAGES_S3_PREFIX" envDefault:"messages"`
	AccessKey string `env:"MESSAGES_S3_ACCESS_KEY"`
	SecretKey string `env:"MESSAGES_S3_SECRET_KEY"`
	Endpoint  string `env:"MESSAGES_S3_ENDPOINT"`
	Region    string `env:"MESSAGES_S3_REGION" envDefault:"us-east-1"`
	PathStyle bool   `env:"MESSAGES_S3_PATH_STYLE"`
}

// ObjectGetter is the subset of the S3 client used by S3Source.
type ObjectGetter interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3Source reads "{prefix}/{locale}/{namespace}{ext}" objects from a bucket.
type S3Source struct {
	client  ObjectGetter
	bucket  string
	prefix  string
	formats []Format
}

// NewS3Source creates an S3 client from cfg and wraps it in a source.
func NewS3Source(cfg S3Config, formats ...Format) (*S3Source, error) {
	if cfg.Bucket == "" {
		return nil, ErrMissingBucket
	}
	if cfg.Region == "" {
		cfg.Region = "us-east-1"
	}

	client := s3.New(s3.Options{}, func(o *s3.Options) {
		o.Region = cfg.Region
		if cfg.AccessKey != "" {
			o.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
		}
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return NewS3SourceWithClient(client, cfg.Bucket, cfg.Prefix, formats...), nil
}

// NewS3SourceWithClient wraps an existing client.
func NewS3SourceWithClient(client ObjectGetter, bucket, prefix string, formats ...Format) *S3Source {
	if len(formats) == 0 {
		formats = DefaultFormats
	}
	return &S3Source{
		client:  client,
		bucket:  bucket,
		prefix:  strings.Trim(prefix, "/"),
		formats: formats,
	}
}

// Load fetches the first existing object for (locale, namespace).
func (s *S3Source) Load(ctx context.Context, locale, namespace string) (*Document, error) {
	if locale == "" {
		return nil, ErrEmptyLocale
	}
	if namespace == "" {
		return nil, ErrEmptyNamespace
	}

	for _, f := range s.formats {
		key := s.key(locale, namespace+f.Ext)

		out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(s.bucket),
			Key:    aws.String(key),
		})
		if err != nil {
			if isNoSuchKey(err) {
				continue
			}
			return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.bucket, key, err)
		}

		data, err := readObject(out.Body)
		if err != nil {
			return nil, fmt.Errorf("reading s3://%s/%s: %w", s.bucket, key, err)
		}

		doc, err := f.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("parsing s3://%s/%s: %w", s.bucket, key, err)
		}
		return doc, nil
	}

	return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, locale, namespace)
}

func (s *S3Source) key(locale, file string) string {
	if s.prefix == "" {
		return locale + "/" + file
	}
	return s.prefix + "/" + locale + "/" + file
}

func readObject(body io.ReadCloser) ([]byte, error) {
	if body == nil {
		return nil, ErrInvalidDocument
	}
	defer body.Close()

	data, err := io.ReadAll(io.LimitReader(body, maxObjectSize+1))
	if err != nil {
		return nil, err
	}
	if len(data) > maxObjectSize {
		return nil, fmt.Errorf("%w: object exceeds %d bytes", ErrInvalidDocument, maxObjectSize)
	}
	return data, nil
}

func isNoSuchKey(err error) bool {
	var noSuchKey *types.NoSuchKey
	if errors.As(err, &noSuchKey) {
		return true
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound":
			return true
		}
	}
	return false
}

var _ Source = (*S3Source)(nil)
