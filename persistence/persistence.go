package persistence

import (
	"context"

	"github.com/surroundaustralia/rdfx/graph"
)

// Backend is the shared contract every persistence target satisfies.
//
// Write is idempotent at the storage level: re-running a write with the
// same name overwrites, never appends. AssetExists never fails for
// plain absence; it only fails on transport or auth problems.
type Backend interface {
	// Read fetches and decodes the named resource. The format may be
	// empty where the backend can detect it (file extension); remote
	// backends require it. Returns the leading comments and the graph.
	Read(ctx context.Context, name string, format graph.Format) (comments []string, g *graph.Graph, err error)

	// Write encodes and persists the graph under the given name,
	// returning a location descriptor (path, object key, URN or the
	// encoded document itself, depending on the backend).
	Write(ctx context.Context, g *graph.Graph, name string, format graph.Format, comments []string) (string, error)

	// AssetExists reports whether the named resource is present.
	AssetExists(ctx context.Context, name string) (bool, error)
}

// normalizeFormat resolves a format token to its canonical form,
// wrapping table misses as configuration errors.
func normalizeFormat(format graph.Format) (graph.Format, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return "", invalidConfigf("%v", err)
	}
	return f, nil
}
