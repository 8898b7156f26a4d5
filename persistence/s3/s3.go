// Package s3 provides an S3-compatible object storage backend for RDF
// graphs. Objects are stored under <name>.<suffix> keys; the bucket is
// created lazily, in the configured region, on the first write that
// fails because it does not exist yet.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/persistence"
)

// Config holds the connection settings bound at construction time.
type Config struct {
	// Endpoint is the S3 API host (default: s3.amazonaws.com).
	Endpoint string

	// Bucket is the target bucket name.
	Bucket string

	// AccessKey and SecretKey are the static credentials.
	AccessKey string
	SecretKey string

	// Region is used for lazy bucket creation.
	Region string

	// Insecure disables TLS; intended for local MinIO deployments.
	Insecure bool
}

// Validate checks the configuration before any I/O happens.
func (c Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: s3 backend requires a bucket", persistence.ErrInvalidConfiguration)
	}
	if strings.Contains(c.Bucket, "://") {
		return fmt.Errorf("%w: bucket %q must be a bare name, not a URL", persistence.ErrInvalidConfiguration, c.Bucket)
	}
	if c.AccessKey == "" || c.SecretKey == "" {
		return fmt.Errorf("%w: s3 backend requires access and secret keys", persistence.ErrInvalidConfiguration)
	}
	return nil
}

// Backend persists graphs to one S3 bucket.
type Backend struct {
	cfg    Config
	client *minio.Client
}

// New constructs a backend from the given configuration.
func New(cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	endpoint := cfg.Endpoint
	if endpoint == "" {
		endpoint = "s3.amazonaws.com"
	}
	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: !cfg.Insecure,
		Region: cfg.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3 client for %q: %v", persistence.ErrInvalidConfiguration, endpoint, err)
	}
	return &Backend{cfg: cfg, client: client}, nil
}

var _ persistence.Backend = (*Backend)(nil)

// Write uploads the encoded graph under <name>.<suffix>. When the
// bucket is missing it is created in the configured region and the
// upload retried exactly once; any further failure propagates.
func (b *Backend) Write(ctx context.Context, g *graph.Graph, name string, format graph.Format, comments []string) (string, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return "", fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}
	doc, err := persistence.EncodeDocument(g, f, comments)
	if err != nil {
		return "", err
	}

	key := name + "." + f.Suffix()
	err = b.put(ctx, key, f, doc)
	if isBucketMissing(err) {
		if mkErr := b.client.MakeBucket(ctx, b.cfg.Bucket, minio.MakeBucketOptions{Region: b.cfg.Region}); mkErr != nil {
			persistence.Observe("s3", "write", mkErr)
			return "", fmt.Errorf("%w: create bucket %q: %v", persistence.ErrRemote, b.cfg.Bucket, mkErr)
		}
		err = b.put(ctx, key, f, doc)
	}
	persistence.Observe("s3", "write", err)
	if err != nil {
		return "", fmt.Errorf("%w: upload %q to bucket %q: %v", persistence.ErrRemote, key, b.cfg.Bucket, err)
	}
	return key, nil
}

func (b *Backend) put(ctx context.Context, key string, f graph.Format, doc string) error {
	_, err := b.client.PutObject(ctx, b.cfg.Bucket, key,
		bytes.NewReader([]byte(doc)), int64(len(doc)),
		minio.PutObjectOptions{ContentType: f.MIMEType()})
	return err
}

// Read downloads and decodes an object. The format is caller-supplied;
// nothing is auto-detected remotely.
func (b *Backend) Read(ctx context.Context, name string, format graph.Format) ([]string, *graph.Graph, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}

	obj, err := b.client.GetObject(ctx, b.cfg.Bucket, name, minio.GetObjectOptions{})
	if err != nil {
		persistence.Observe("s3", "read", err)
		return nil, nil, fmt.Errorf("%w: get %q from bucket %q: %v", persistence.ErrRemote, name, b.cfg.Bucket, err)
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		persistence.Observe("s3", "read", err)
		if isAbsence(err) {
			return nil, nil, fmt.Errorf("%w: object %q in bucket %q", persistence.ErrNotFound, name, b.cfg.Bucket)
		}
		return nil, nil, fmt.Errorf("%w: get %q from bucket %q: %v", persistence.ErrRemote, name, b.cfg.Bucket, err)
	}

	comments, g, err := persistence.DecodeDocument(string(raw), f)
	persistence.Observe("s3", "read", err)
	return comments, g, err
}

// AssetExists performs a metadata probe without downloading the body.
// Absence-class errors report false; other transport errors propagate.
func (b *Backend) AssetExists(ctx context.Context, name string) (bool, error) {
	_, err := b.client.StatObject(ctx, b.cfg.Bucket, name, minio.StatObjectOptions{})
	if err == nil {
		return true, nil
	}
	if isAbsence(err) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat %q in bucket %q: %v", persistence.ErrRemote, name, b.cfg.Bucket, err)
}

// isBucketMissing identifies the "bucket not found" error class that
// triggers lazy bucket creation.
func isBucketMissing(err error) bool {
	if err == nil {
		return false
	}
	return minio.ToErrorResponse(err).Code == "NoSuchBucket"
}

// isAbsence identifies object and bucket absence responses.
func isAbsence(err error) bool {
	if err == nil {
		return false
	}
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket", "NotFound":
		return true
	}
	return false
}
