package s3

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"github.com/tendant/share-resolver/pkg/shareresolver"
)

// DisplayNameMetadataKey is the user metadata key consulted for display names
const DisplayNameMetadataKey = "display-name"

// Config options for the S3 provider
type Config struct {
	Region          string   // AWS region
	AccessKeyID     string   // AWS access key ID
	SecretAccessKey string   // AWS secret access key
	Endpoint        string   // Optional custom endpoint for S3-compatible services
	UsePathStyle    bool     // Use path-style addressing (default: false)
	Buckets         []string // Buckets that may be read; empty allows any
	PartSize        int64    // Downloader part size in bytes (default: manager default)
	Concurrency     int      // Downloader concurrency (default: manager default)
}

// Client is the subset of the S3 API the provider uses
type Client interface {
	HeadObject(ctx context.Context, params *s3.HeadObjectInput, optFns ...func(*s3.Options)) (*s3.HeadObjectOutput, error)
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// Provider resolves content://<bucket>/<key> URIs against S3
type Provider struct {
	client     Client
	downloader *manager.Downloader
	buckets    map[string]struct{}
}

// New creates a new S3-compatible content provider
func New(config Config) (*Provider, error) {
	if config.Region == "" {
		config.Region = "us-east-1"
	}

	var awsCfg aws.Config
	var err error

	if config.AccessKeyID != "" && config.SecretAccessKey != "" {
		// Use provided credentials
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
			awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
				config.AccessKeyID,
				config.SecretAccessKey,
				"",
			)),
		)
	} else {
		// Use default credential chain
		awsCfg, err = awsconfig.LoadDefaultConfig(context.Background(),
			awsconfig.WithRegion(config.Region),
		)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	var s3Options []func(*s3.Options)
	if config.Endpoint != "" {
		s3Options = append(s3Options, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(config.Endpoint)
			o.UsePathStyle = config.UsePathStyle
		})
	}

	return NewWithClient(s3.NewFromConfig(awsCfg, s3Options...), config), nil
}

// NewWithClient creates a provider around an existing client
func NewWithClient(client Client, config Config) *Provider {
	downloader := manager.NewDownloader(client, func(d *manager.Downloader) {
		if config.PartSize > 0 {
			d.PartSize = config.PartSize
		}
		if config.Concurrency > 0 {
			d.Concurrency = config.Concurrency
		}
	})

	var buckets map[string]struct{}
	if len(config.Buckets) > 0 {
		buckets = make(map[string]struct{}, len(config.Buckets))
		for _, b := range config.Buckets {
			buckets[b] = struct{}{}
		}
	}

	return &Provider{
		client:     client,
		downloader: downloader,
		buckets:    buckets,
	}
}

func (p *Provider) locate(uri string) (string, string, error) {
	bucket, key, err := shareresolver.ParseContentURI(uri)
	if err != nil {
		return "", "", err
	}
	if p.buckets != nil {
		if _, ok := p.buckets[bucket]; !ok {
			return "", "", fmt.Errorf("bucket %q not allowed: %w", bucket, shareresolver.ErrContentNotFound)
		}
	}
	return bucket, key, nil
}

// DisplayName prefers the Content-Disposition filename, then the
// display-name user metadata, then the key's base name.
func (p *Provider) DisplayName(ctx context.Context, uri string) (string, error) {
	bucket, key, err := p.locate(uri)
	if err != nil {
		return "", err
	}

	head, err := p.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", mapError("head object", err)
	}

	if cd := aws.ToString(head.ContentDisposition); cd != "" {
		if _, params, err := mime.ParseMediaType(cd); err == nil && params["filename"] != "" {
			return params["filename"], nil
		}
	}
	if name := head.Metadata[DisplayNameMetadataKey]; name != "" {
		return name, nil
	}
	return path.Base(key), nil
}

// Open streams the object body
func (p *Provider) Open(ctx context.Context, uri string) (io.ReadCloser, error) {
	bucket, key, err := p.locate(uri)
	if err != nil {
		return nil, err
	}

	out, err := p.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, mapError("get object", err)
	}
	return out.Body, nil
}

// CopyToFile downloads the object into dst with ranged, concurrent requests
func (p *Provider) CopyToFile(ctx context.Context, uri string, dst io.WriterAt) (int64, error) {
	bucket, key, err := p.locate(uri)
	if err != nil {
		return 0, err
	}

	n, err := p.downloader.Download(ctx, dst, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return n, mapError("download object", err)
	}
	return n, nil
}

func mapError(op string, err error) error {
	var noSuchKey *types.NoSuchKey
	var notFound *types.NotFound
	if errors.As(err, &noSuchKey) || errors.As(err, &notFound) {
		return fmt.Errorf("%s: %w", op, shareresolver.ErrContentNotFound)
	}

	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NoSuchKey", "NotFound", "NoSuchBucket":
			return fmt.Errorf("%s: %w", op, shareresolver.ErrContentNotFound)
		}
		return fmt.Errorf("%s failed (%s): %w", op, apiErr.ErrorCode(), err)
	}
	return fmt.Errorf("%s failed: %w", op, err)
}
