// Package graphstore fixes the configuration contract for
// SPARQL-over-HTTP graph stores (GraphDB and Fuseki flavors). The read
// side speaks the SPARQL 1.1 Graph Store Protocol; the write path is
// intentionally unimplemented upstream and stays that way here, so the
// contract is ready for a future SPARQL Update implementation without
// an interface change.
package graphstore

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/persistence"
)

// Flavor selects the store's endpoint layout.
type Flavor string

const (
	// FlavorGraphDB uses Ontotext GraphDB repository paths.
	FlavorGraphDB Flavor = "graphdb"

	// FlavorFuseki uses Apache Jena Fuseki dataset paths.
	FlavorFuseki Flavor = "fuseki"
)

// Config holds the store coordinates bound at construction time.
type Config struct {
	// SystemIRI is the store base, e.g. http://localhost:7200
	// (no trailing slash).
	SystemIRI string

	// RepositoryID names the repository (GraphDB) or dataset (Fuseki).
	RepositoryID string

	// GraphIRI optionally scopes operations to one named graph;
	// empty means the default graph.
	GraphIRI string

	// Username and Password enable basic auth when non-empty.
	Username string
	Password string

	// Timeout bounds each HTTP call (default 30s).
	Timeout time.Duration
}

// Validate checks the coordinates before any I/O happens.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.SystemIRI, "http://") && !strings.HasPrefix(c.SystemIRI, "https://") {
		return fmt.Errorf("%w: system IRI %q must start with http:// or https://", persistence.ErrInvalidConfiguration, c.SystemIRI)
	}
	if c.RepositoryID == "" {
		return fmt.Errorf("%w: repository ID is required", persistence.ErrInvalidConfiguration)
	}
	if c.GraphIRI != "" && !strings.HasPrefix(c.GraphIRI, "http") && !strings.HasPrefix(c.GraphIRI, "urn") {
		return fmt.Errorf("%w: graph IRI %q must start with http or urn", persistence.ErrInvalidConfiguration, c.GraphIRI)
	}
	return nil
}

// Backend talks to one repository on one graph store.
type Backend struct {
	cfg    Config
	flavor Flavor
	client *http.Client
}

// NewGraphDB constructs a backend against a GraphDB repository.
func NewGraphDB(cfg Config) (*Backend, error) {
	return newBackend(cfg, FlavorGraphDB)
}

// NewFuseki constructs a backend against a Fuseki dataset.
func NewFuseki(cfg Config) (*Backend, error) {
	return newBackend(cfg, FlavorFuseki)
}

func newBackend(cfg Config, flavor Flavor) (*Backend, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Backend{
		cfg:    cfg,
		flavor: flavor,
		client: &http.Client{Timeout: timeout},
	}, nil
}

var _ persistence.Backend = (*Backend)(nil)

// Write is intentionally unimplemented, matching the upstream design.
func (b *Backend) Write(context.Context, *graph.Graph, string, graph.Format, []string) (string, error) {
	return "", fmt.Errorf("%w: %s write support is not available; the configuration contract is fixed for a future SPARQL update implementation", persistence.ErrNotImplemented, b.flavor)
}

// Read exports the configured graph via the Graph Store Protocol. The
// name argument overrides the configured graph IRI when non-empty.
func (b *Backend) Read(ctx context.Context, name string, format graph.Format) ([]string, *graph.Graph, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}

	endpoint := b.dataEndpoint()
	q := url.Values{}
	if iri := b.graphIRI(name); iri != "" {
		q.Set("graph", iri)
	} else {
		q.Set("default", "")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	req.Header.Set("Accept", f.MIMEType())
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		persistence.Observe(string(b.flavor), "read", err)
		return nil, nil, fmt.Errorf("%w: GET %s: %v", persistence.ErrRemote, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		persistence.Observe(string(b.flavor), "read", err)
		return nil, nil, fmt.Errorf("%w: read response from %s: %v", persistence.ErrRemote, endpoint, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		persistence.Observe(string(b.flavor), "read", persistence.ErrNotFound)
		return nil, nil, fmt.Errorf("%w: graph %q in repository %q", persistence.ErrNotFound, b.graphIRI(name), b.cfg.RepositoryID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("%w: GET %s returned %s: %s", persistence.ErrRemote, endpoint, resp.Status, strings.TrimSpace(string(body)))
		persistence.Observe(string(b.flavor), "read", err)
		return nil, nil, err
	}

	comments, g, err := persistence.DecodeDocument(string(body), f)
	persistence.Observe(string(b.flavor), "read", err)
	return comments, g, err
}

// AssetExists issues a SPARQL ASK scoped to the named graph.
func (b *Backend) AssetExists(ctx context.Context, name string) (bool, error) {
	iri := b.graphIRI(name)
	var query string
	if iri != "" {
		query = fmt.Sprintf("ASK WHERE { GRAPH <%s> { ?s ?p ?o } }", iri)
	} else {
		query = "ASK WHERE { ?s ?p ?o }"
	}

	form := url.Values{"query": []string{query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, b.queryEndpoint(), strings.NewReader(form.Encode()))
	if err != nil {
		return false, fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/sparql-results+json")
	b.authorize(req)

	resp, err := b.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: ASK against %s: %v", persistence.ErrRemote, b.queryEndpoint(), err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return false, fmt.Errorf("%w: read ASK response: %v", persistence.ErrRemote, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return false, fmt.Errorf("%w: ASK returned %s: %s", persistence.ErrRemote, resp.Status, strings.TrimSpace(string(body)))
	}

	var result struct {
		Boolean *bool `json:"boolean"`
	}
	if err := json.Unmarshal(body, &result); err != nil || result.Boolean == nil {
		return false, fmt.Errorf("%w: non-boolean ASK response: %s", persistence.ErrRemote, strings.TrimSpace(string(body)))
	}
	return *result.Boolean, nil
}

func (b *Backend) graphIRI(name string) string {
	if name != "" {
		return name
	}
	return b.cfg.GraphIRI
}

func (b *Backend) dataEndpoint() string {
	if b.flavor == FlavorFuseki {
		return fmt.Sprintf("%s/%s/data", b.cfg.SystemIRI, b.cfg.RepositoryID)
	}
	return fmt.Sprintf("%s/repositories/%s/rdf-graphs/service", b.cfg.SystemIRI, b.cfg.RepositoryID)
}

func (b *Backend) queryEndpoint() string {
	if b.flavor == FlavorFuseki {
		return fmt.Sprintf("%s/%s/query", b.cfg.SystemIRI, b.cfg.RepositoryID)
	}
	return fmt.Sprintf("%s/repositories/%s", b.cfg.SystemIRI, b.cfg.RepositoryID)
}

func (b *Backend) authorize(req *http.Request) {
	if b.cfg.Username != "" {
		req.SetBasicAuth(b.cfg.Username, b.cfg.Password)
	}
}
