package sop

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/surroundaustralia/rdfx/graph"
	"github.com/surroundaustralia/rdfx/persistence"
)

// Service view identifiers for the /swp dispatch endpoint.
const (
	viewCreateProject = "createProjectService"
	viewAddTag        = "addTagService"

	projectTypeDatagraph = "datagraph"
	projectTypeManifest  = "manifest"
)

var _ persistence.Backend = (*Client)(nil)

// masterURNPattern extracts the authoritative identifier from a
// creation response. The platform may silently rename on collision, so
// whatever comes back wins over the requested name.
var masterURNPattern = regexp.MustCompile(`urn:x-evn-master:[A-Za-z0-9_.-]+`)

// AssetExists reports whether the named graph holds any statements.
// For a workflow URN the parent datagraph is checked first: a workflow
// cannot exist if its master does not, and in that case the tag-level
// query is never issued.
func (c *Client) AssetExists(ctx context.Context, urn string) (bool, error) {
	if urn == "" {
		return false, fmt.Errorf("%w: asset URN is required", persistence.ErrInvalidConfiguration)
	}

	if IsTagURN(urn) {
		master, err := MasterFromTag(urn)
		if err != nil {
			return false, err
		}
		masterExists, err := c.AssetExists(ctx, master)
		if err != nil {
			return false, err
		}
		if !masterExists {
			return false, nil
		}
	}

	body, err := c.postForm(ctx, sparqlPath, url.Values{
		"query": []string{fmt.Sprintf("ASK WHERE { GRAPH <%s> { ?s ?p ?o } }", urn)},
	}, "application/sparql-results+json")
	persistence.Observe("sop", "exists", err)
	if err != nil {
		return false, err
	}

	var result struct {
		Boolean *bool `json:"boolean"`
	}
	if err := json.Unmarshal([]byte(body), &result); err != nil || result.Boolean == nil {
		return false, fmt.Errorf("%w: non-boolean ASK response for %q: %s", persistence.ErrRemote, urn, strings.TrimSpace(body))
	}
	return *result.Boolean, nil
}

// CreateOptions name a new datagraph or manifest asset. Every field is
// optional; defaults are synthesized.
type CreateOptions struct {
	// Name is the requested asset name. The platform may rename on
	// collision; the returned identifier is authoritative.
	Name string

	// Namespace is the default namespace; derived from the
	// organization and name when empty.
	Namespace string

	// Description and SubjectArea annotate the asset.
	Description string
	SubjectArea string
}

// CreateDatagraph creates a top-level datagraph project, returning the
// MasterURN the platform actually assigned.
func (c *Client) CreateDatagraph(ctx context.Context, opts CreateOptions) (string, error) {
	return c.createProject(ctx, opts, projectTypeDatagraph, "data")
}

// CreateManifest creates a manifest project. Structurally identical to
// CreateDatagraph apart from the project type and namespace segment.
func (c *Client) CreateManifest(ctx context.Context, opts CreateOptions) (string, error) {
	return c.createProject(ctx, opts, projectTypeManifest, "manifest")
}

func (c *Client) createProject(ctx context.Context, opts CreateOptions, projectType, nsSegment string) (string, error) {
	name := opts.Name
	if name == "" {
		name = fmt.Sprintf("%s_%s", c.user, time.Now().Format("20060102T150405"))
	}
	namespace := opts.Namespace
	if namespace == "" {
		namespace = fmt.Sprintf("https://%s/%s/%s#", c.org, nsSegment, strings.ReplaceAll(name, " ", "_"))
	}

	form := url.Values{
		"_viewClass":       []string{viewCreateProject},
		"projectType":      []string{projectType},
		"name":             []string{name},
		"defaultNamespace": []string{namespace},
	}
	if opts.Description != "" {
		form.Set("description", opts.Description)
	}
	if opts.SubjectArea != "" {
		form.Set("subjectArea", opts.SubjectArea)
	}

	body, err := c.postForm(ctx, servicePath, form, "")
	persistence.Observe("sop", "create_"+projectType, err)
	if err != nil {
		// "already exists" is the sole recoverable creation outcome:
		// the existing asset is in effect reused.
		if strings.Contains(strings.ToLower(body), "already exists") {
			c.logger.Debug("asset already exists, reusing", "name", name)
			return masterPrefix + strings.ReplaceAll(name, " ", "_"), nil
		}
		return "", err
	}

	// The identifier in the response, not the requested name, is
	// authoritative - the platform's collision policy is its own.
	if urn := masterURNPattern.FindString(body); urn != "" {
		return urn, nil
	}
	return "", fmt.Errorf("%w: create %s response contained no asset URN: %s", persistence.ErrRemote, projectType, strings.TrimSpace(body))
}

// CreateWorkflow adds a workflow (tag) graph to a master graph. An
// empty name gets a synthesized one. The resulting TagURN is assembled
// locally from the master URN, workflow name and session user. A
// "working copy already exists" response is accepted: the existing tag
// is reused.
func (c *Client) CreateWorkflow(ctx context.Context, masterURN, name string) (string, error) {
	if !IsMasterURN(masterURN) {
		return "", fmt.Errorf("%w: %q is not a master URN (expected %s prefix)", persistence.ErrInvalidConfiguration, masterURN, masterPrefix)
	}
	if name == "" {
		name = "workflow_" + strings.ReplaceAll(uuid.NewString(), "-", "_")
	}

	form := url.Values{
		"_viewClass":   []string{viewAddTag},
		"projectGraph": []string{masterURN},
		"name":         []string{name},
	}
	body, err := c.postForm(ctx, servicePath, form, "")
	persistence.Observe("sop", "create_workflow", err)
	if err != nil && !strings.Contains(strings.ToLower(body), "working copy already exists") {
		return "", err
	}

	return buildTagURN(masterURN, name, c.user), nil
}

// Write encodes the graph as Turtle and imports it into the asset
// named by targetURN via the platform's file-upload service. When the
// target is a workflow URN the import is scoped to its master graph
// with the tag named in the form payload. Returns the platform's
// confirmation message.
func (c *Client) Write(ctx context.Context, g *graph.Graph, targetURN string, format graph.Format, comments []string) (string, error) {
	if format != "" {
		f, err := graph.ParseFormat(string(format))
		if err != nil {
			return "", fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
		}
		if f != graph.FormatTurtle {
			return "", fmt.Errorf("%w: the platform import accepts turtle only, got %q", persistence.ErrInvalidConfiguration, f)
		}
	}

	master := targetURN
	tag := ""
	if IsTagURN(targetURN) {
		var err error
		if master, err = MasterFromTag(targetURN); err != nil {
			return "", err
		}
		if _, workflow, _, err := splitTag(targetURN); err == nil {
			tag = workflow
		}
	} else if !IsMasterURN(targetURN) {
		return "", fmt.Errorf("%w: %q is neither a master nor a workflow URN", persistence.ErrInvalidConfiguration, targetURN)
	}

	doc, err := persistence.EncodeDocument(g, graph.FormatTurtle, comments)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fields := map[string]string{
		"projectGraph": master,
		"_base":        master,
		"format":       "ttl",
	}
	if tag != "" {
		fields["tag"] = tag
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			return "", fmt.Errorf("build import form: %w", err)
		}
	}
	part, err := mw.CreateFormFile("file", "rdfx_import.ttl")
	if err != nil {
		return "", fmt.Errorf("build import form: %w", err)
	}
	if _, err := part.Write([]byte(doc)); err != nil {
		return "", fmt.Errorf("build import form: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("build import form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+importPath, &buf)
	if err != nil {
		return "", fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())

	resp, err := c.do(ctx, req)
	persistence.Observe("sop", "write", err)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read import response: %v", persistence.ErrRemote, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("%w: import into %q returned %s: %s", persistence.ErrRemote, master, resp.Status, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

// Read exports the named graph and parses it. Master assets export by
// id; workflow assets use the tag+master composite path segment.
func (c *Client) Read(ctx context.Context, urn string, format graph.Format) ([]string, *graph.Graph, error) {
	f, err := graph.ParseFormat(string(format))
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrInvalidConfiguration, err)
	}

	var segment string
	switch {
	case IsMasterURN(urn):
		segment = strings.TrimPrefix(urn, masterPrefix)
	case IsTagURN(urn):
		id, workflow, _, err := splitTag(urn)
		if err != nil {
			return nil, nil, err
		}
		segment = id + "." + workflow
	default:
		return nil, nil, fmt.Errorf("%w: %q is neither a master nor a workflow URN", persistence.ErrInvalidConfiguration, urn)
	}

	endpoint := c.base + fmt.Sprintf(exportPath, segment) + "?format=" + url.QueryEscape(f.Suffix())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}

	resp, err := c.do(ctx, req)
	persistence.Observe("sop", "read", err)
	if err != nil {
		return nil, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: read export response: %v", persistence.ErrRemote, err)
	}
	if resp.StatusCode == http.StatusNotFound {
		return nil, nil, fmt.Errorf("%w: asset %q", persistence.ErrNotFound, urn)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, nil, fmt.Errorf("%w: export of %q returned %s: %s", persistence.ErrRemote, urn, resp.Status, strings.TrimSpace(string(body)))
	}

	return persistence.DecodeDocument(string(body), f)
}

// Query POSTs a read-only SPARQL query scoped to the named graph and
// returns the raw response body for the caller to interpret.
func (c *Client) Query(ctx context.Context, sparql, urn, accept string) ([]byte, error) {
	if accept == "" {
		accept = "application/sparql-results+json"
	}
	form := url.Values{"query": []string{sparql}}
	if urn != "" {
		form.Set("default-graph-uri", urn)
	}
	body, err := c.postForm(ctx, sparqlPath, form, accept)
	persistence.Observe("sop", "query", err)
	if err != nil {
		return nil, err
	}
	return []byte(body), nil
}

// AssetCollectionSize counts the statements in the named graph.
func (c *Client) AssetCollectionSize(ctx context.Context, urn string) (int, error) {
	query := fmt.Sprintf("SELECT (COUNT(*) AS ?count) WHERE { GRAPH <%s> { ?s ?p ?o } }", urn)
	body, err := c.Query(ctx, query, urn, "application/sparql-results+json")
	if err != nil {
		return 0, err
	}

	var result struct {
		Results struct {
			Bindings []map[string]struct {
				Value string `json:"value"`
			} `json:"bindings"`
		} `json:"results"`
	}
	if err := json.Unmarshal(body, &result); err != nil || len(result.Results.Bindings) == 0 {
		return 0, fmt.Errorf("%w: malformed COUNT response for %q: %s", persistence.ErrRemote, urn, strings.TrimSpace(string(body)))
	}
	count, ok := result.Results.Bindings[0]["count"]
	if !ok {
		return 0, fmt.Errorf("%w: COUNT response for %q lacks a count binding", persistence.ErrRemote, urn)
	}
	n, err := strconv.Atoi(count.Value)
	if err != nil {
		return 0, fmt.Errorf("%w: COUNT value %q is not an integer", persistence.ErrRemote, count.Value)
	}
	return n, nil
}
