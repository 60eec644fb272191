package catalog

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/lehigh-university-libraries/partsdesk/internal/config"
)

// S3Source reads catalog files from an S3-compatible bucket.
type S3Source struct {
	client  *s3.Client
	bucket  string
	prefix  string
	timeout time.Duration
}

// NewS3Source parses an s3://bucket/prefix URL and builds a client from cfg.
// Static credentials are used when both key variables are set; otherwise the
// default AWS credential chain applies.
func NewS3Source(ctx context.Context, rawURL string, cfg config.S3Config) (*S3Source, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid catalog url: %w", err)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return nil, fmt.Errorf("expected s3://bucket/prefix, got %s", rawURL)
	}

	opts := []func(*awsconfig.LoadOptions) error{awsconfig.WithRegion(cfg.Region)}
	keyID, secret := os.Getenv(cfg.AccessKeyIDEnv), os.Getenv(cfg.SecretKeyEnv)
	if keyID != "" && secret != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(keyID, secret, ""),
		))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		}
		o.UsePathStyle = cfg.UsePathStyle
	})

	timeout := time.Duration(cfg.TimeoutSecs) * time.Second
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &S3Source{
		client:  client,
		bucket:  u.Host,
		prefix:  strings.Trim(u.Path, "/"),
		timeout: timeout,
	}, nil
}

func (s *S3Source) Name() string {
	return "s3://" + path.Join(s.bucket, s.prefix)
}

// Open downloads the whole object so the request deadline does not outlive the read.
func (s *S3Source) Open(ctx context.Context, file string) (io.ReadCloser, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(path.Join(s.prefix, file)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, fmt.Errorf("%s: %w", file, fs.ErrNotExist)
		}
		return nil, fmt.Errorf("failed to get %s: %w", file, err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}
