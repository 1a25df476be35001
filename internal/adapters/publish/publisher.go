// Package publish uploads packaged toolchains to S3-compatible object storage.
package publish

import (
	"context"
	"errors"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.trai.ch/xtc/internal/adapters/archive"
	"go.trai.ch/xtc/internal/core/domain"
	"go.trai.ch/xtc/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Publisher = (*Publisher)(nil)

// Credentials configures the S3 client. Empty keys use the AWS default
// credential chain; an empty endpoint means AWS itself.
type Credentials struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
}

// ObjectPutter is the subset of *s3.Client the publisher uses.
type ObjectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Publisher implements ports.Publisher. The client is created on first use,
// after settings have been read.
type Publisher struct {
	credentials func() Credentials

	once   sync.Once
	client ObjectPutter
	err    error
}

// NewPublisher creates a Publisher that reads its credentials lazily.
func NewPublisher(credentials func() Credentials) *Publisher {
	return &Publisher{credentials: credentials}
}

// Publish uploads the archive and its checksum sidecar below dest
// (s3://bucket/prefix) and returns the archive's object URL.
func (p *Publisher) Publish(ctx context.Context, artifact domain.Artifact, dest string) (string, error) {
	bucket, prefix, err := ParseDestination(dest)
	if err != nil {
		return "", err
	}

	client, err := p.getClient(ctx)
	if err != nil {
		return "", err
	}

	key := path.Join(prefix, filepath.Base(artifact.Path))
	if err := upload(ctx, client, bucket, key, artifact.Path); err != nil {
		return "", err
	}
	if err := upload(ctx, client, bucket, key+archive.ChecksumExtension, artifact.Path+archive.ChecksumExtension); err != nil {
		return "", err
	}
	return "s3://" + bucket + "/" + key, nil
}

func (p *Publisher) getClient(ctx context.Context) (ObjectPutter, error) {
	p.once.Do(func() {
		if p.client != nil {
			return
		}
		p.client, p.err = newClient(ctx, p.credentials())
	})
	return p.client, p.err
}

func newClient(ctx context.Context, c Credentials) (*s3.Client, error) {
	var options []func(*awsconfig.LoadOptions) error
	if c.Region != "" {
		options = append(options, awsconfig.WithRegion(c.Region))
	}
	if c.AccessKey != "" && c.SecretKey != "" {
		options = append(options, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(c.AccessKey, c.SecretKey, ""),
		))
	}

	cfg, err := awsconfig.LoadDefaultConfig(ctx, options...)
	if err != nil {
		return nil, zerr.Wrap(errors.Join(domain.ErrPublishFailed, err), "failed to load S3 configuration")
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if c.Endpoint != "" {
			o.BaseEndpoint = aws.String(c.Endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

func upload(ctx context.Context, client ObjectPutter, bucket, key, file string) error {
	f, err := os.Open(file) //nolint:gosec // Path is produced by the archiver
	if err != nil {
		return failed(err, bucket, key)
	}
	defer f.Close() //nolint:errcheck // Read-only file

	stat, err := f.Stat()
	if err != nil {
		return failed(err, bucket, key)
	}

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          f,
		ContentLength: aws.Int64(stat.Size()),
		ContentType:   aws.String(contentType(key)),
	})
	if err != nil {
		return failed(err, bucket, key)
	}
	return nil
}

// ParseDestination splits s3://bucket/prefix.
func ParseDestination(dest string) (bucket, prefix string, err error) {
	u, err := url.Parse(dest)
	if err != nil || u.Scheme != "s3" || u.Host == "" {
		return "", "", zerr.With(zerr.Wrap(domain.ErrInvalidPublishURL, "expected s3://bucket/prefix"), "destination", dest)
	}
	return u.Host, strings.Trim(u.Path, "/"), nil
}

func contentType(key string) string {
	switch {
	case strings.HasSuffix(key, ".xz"):
		return "application/x-xz"
	case strings.HasSuffix(key, ".zst"):
		return "application/zstd"
	case strings.HasSuffix(key, ".gz"):
		return "application/gzip"
	case strings.HasSuffix(key, archive.ChecksumExtension):
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

func failed(err error, bucket, key string) error {
	return zerr.With(zerr.With(errors.Join(domain.ErrPublishFailed, err), "bucket", bucket), "key", key)
}
