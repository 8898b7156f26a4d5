// Package natsobject provides a NATS JetStream ObjectStore backend
// for RDF graphs, behind the same contract as the S3 backend. It
// suits deployments that already run NATS and want graph snapshots
// next to their streams instead of in a cloud bucket.
package natsobject

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/persistence"
)

// Config holds the connection settings bound at construction time.
type Config struct {
	// URL is the NATS server URL (default: nats.DefaultURL).
	URL string

	// Bucket is the ObjectStore bucket name.
	Bucket string
}

// Validate checks the configuration before any I/O happens.
func (c Config) Validate() error {
	if c.Bucket == "" {
		return fmt.Errorf("%w: nats backend requires a bucket", persistence.ErrInvalidConfiguration)
	}
	return nil
}

// Backend persists graphs to one JetStream ObjectStore bucket.
type Backend struct {
	cfg Config
	nc  *nats.Conn
	js  nats.JetStreamContext
}

// New connects to NATS and binds the backend to its bucket. The bucket
// itself is created lazily on the first write that needs it.
func New(cfg Config) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	url := cfg.URL
	if url == "" {
		url = nats.DefaultURL
	}
	nc, err := nats.Connect(url, nats.Name("rdfx"))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to %q: %v", persistence.ErrRemote, url, err)
	}
	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("%w: jetstream context: %v", persistence.ErrRemote, err)
	}
	return &Backend{cfg: cfg, nc: nc, js: js}, nil
}

// Close drains the underlying connection.
func (b *Backend) Close() error {
	return b.nc.Drain()
}

var _ persistence.Backend = (*Backend)(nil)

// Write uploads the encoded graph under <name>.<suffix>, creating the
// bucket on first use and retrying the upload exactly once.
func (b *Backend) Write(_ context.Context, g *graph.Graph, name string, format graph.Format, comments []string) (string, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return "", fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}
	doc, err := persistence.EncodeDocument(g, f, comments)
	if err != nil {
		return "", err
	}
	key := name + "." + f.Suffix()

	store, err := b.js.ObjectStore(b.cfg.Bucket)
	if err != nil {
		store, err = b.js.CreateObjectStore(&nats.ObjectStoreConfig{
			Bucket:      b.cfg.Bucket,
			Description: "rdfx graph storage",
		})
		if err != nil {
			persistence.Observe("nats", "write", err)
			return "", fmt.Errorf("%w: create bucket %q: %v", persistence.ErrRemote, b.cfg.Bucket, err)
		}
	}

	_, err = store.PutBytes(key, []byte(doc))
	persistence.Observe("nats", "write", err)
	if err != nil {
		return "", fmt.Errorf("%w: put %q in bucket %q: %v", persistence.ErrRemote, key, b.cfg.Bucket, err)
	}
	return key, nil
}

// Read downloads and decodes an object with the caller-supplied format.
func (b *Backend) Read(_ context.Context, name string, format graph.Format) ([]string, *graph.Graph, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}
	store, err := b.js.ObjectStore(b.cfg.Bucket)
	if err != nil {
		persistence.Observe("nats", "read", err)
		return nil, nil, fmt.Errorf("%w: bucket %q", persistence.ErrNotFound, b.cfg.Bucket)
	}
	raw, err := store.GetBytes(name)
	if err != nil {
		persistence.Observe("nats", "read", err)
		if errors.Is(err, nats.ErrObjectNotFound) {
			return nil, nil, fmt.Errorf("%w: object %q in bucket %q", persistence.ErrNotFound, name, b.cfg.Bucket)
		}
		return nil, nil, fmt.Errorf("%w: get %q from bucket %q: %v", persistence.ErrRemote, name, b.cfg.Bucket, err)
	}
	comments, g, err := persistence.DecodeDocument(string(raw), f)
	persistence.Observe("nats", "read", err)
	return comments, g, err
}

// AssetExists probes object metadata without fetching the body. A
// missing bucket or object reports false.
func (b *Backend) AssetExists(_ context.Context, name string) (bool, error) {
	store, err := b.js.ObjectStore(b.cfg.Bucket)
	if err != nil {
		return false, nil
	}
	_, err = store.GetInfo(name)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, nats.ErrObjectNotFound) {
		return false, nil
	}
	return false, fmt.Errorf("%w: stat %q in bucket %q: %v", persistence.ErrRemote, name, b.cfg.Bucket, err)
}
