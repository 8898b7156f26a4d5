// Package sop implements the SURROUND Ontology Platform client: a
// session-carrying HTTP client over the platform's asset model of
// master graphs, workflow ("tag") graphs and manifests.
//
// The session is a mutable cookie jar established lazily by the first
// operation that needs the network; it is not safe for concurrent use.
// Construct one Client per concurrent unit of work.
package sop

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/cookiejar"
	"net/url"
	"strings"
	"time"

	"github.com/surroundaustralia/rdfx/persistence"
)

// Fixed service paths under the platform base.
const (
	loginPath   = "/tbl/j_security_check"
	sparqlPath  = "/tbl/sparql"
	servicePath = "/tbl/swp"
	importPath  = "/tbl/importFileUpload"
	exportPath  = "/tbl/service/%s/tbs/exportRDFFile"
	logoutPath  = "/tbl/purgeuser?app=edg"
)

// localAdminUser is the fixed identity loopback deployments trust.
const localAdminUser = "Administrator"

// sessionState tracks the client's lifecycle:
// unauthenticated -> established -> closed. Logout moves the client to
// closed; the next data operation re-authenticates transparently.
type sessionState int

const (
	stateUnauthenticated sessionState = iota
	stateEstablished
	stateClosed
)

// Config holds the platform coordinates bound at construction time.
// Credentials are sourced externally by the caller; this package
// defines no environment-variable scheme of its own.
type Config struct {
	// SystemIRI is the platform base, e.g. https://sop.example.com
	// (no trailing slash). Loopback addresses skip the credential
	// exchange entirely.
	SystemIRI string

	// Username and Password authenticate against non-local platforms.
	Username string
	Password string

	// Organization is the host used when deriving default namespaces
	// for new assets (default: the SystemIRI host).
	Organization string

	// Timeout bounds each HTTP call (default 30s).
	Timeout time.Duration
}

// Validate checks the coordinates before any I/O happens.
func (c Config) Validate() error {
	if !strings.HasPrefix(c.SystemIRI, "http://") && !strings.HasPrefix(c.SystemIRI, "https://") {
		return fmt.Errorf("%w: system IRI %q must start with http:// or https://", persistence.ErrInvalidConfiguration, c.SystemIRI)
	}
	return nil
}

// Client is an authenticated connection to one ontology platform.
type Client struct {
	cfg    Config
	base   string
	local  bool
	user   string
	org    string
	client *http.Client
	state  sessionState
	logger *slog.Logger
}

// New constructs a client. No network traffic happens until the first
// data operation establishes the session.
func New(cfg Config) (*Client, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	u, err := url.Parse(cfg.SystemIRI)
	if err != nil {
		return nil, fmt.Errorf("%w: system IRI %q: %v", persistence.ErrInvalidConfiguration, cfg.SystemIRI, err)
	}
	local := isLoopback(u.Hostname())

	base := strings.TrimSuffix(cfg.SystemIRI, "/")
	if !local {
		// Remote deployments serve the platform under the /edg app.
		base += "/edg"
	}

	user := cfg.Username
	if local {
		user = localAdminUser
	}
	if !local && user == "" {
		return nil, fmt.Errorf("%w: remote platform %q requires a username", persistence.ErrInvalidConfiguration, cfg.SystemIRI)
	}

	org := cfg.Organization
	if org == "" {
		org = u.Hostname()
	}

	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("cookie jar: %w", err)
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		cfg:    cfg,
		base:   base,
		local:  local,
		user:   user,
		org:    org,
		client: &http.Client{Jar: jar, Timeout: timeout},
		state:  stateUnauthenticated,
		logger: slog.Default().With("component", "sop", "system", cfg.SystemIRI),
	}, nil
}

// User returns the identity used for workflow URNs.
func (c *Client) User() string {
	return c.user
}

// ensureSession performs the unauthenticated -> established transition
// on first use; a closed client re-enters the same way. Loopback
// deployments trust the caller and skip the
// credential exchange; the fixed Administrator cookie is attached per
// request instead.
func (c *Client) ensureSession(ctx context.Context) error {
	if c.state == stateEstablished {
		return nil
	}
	if c.local {
		c.state = stateEstablished
		return nil
	}

	// Seed cookies with a plain GET against the base.
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: reach %s: %v", persistence.ErrRemote, c.base, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	form := url.Values{
		"j_username": []string{c.cfg.Username},
		"j_password": []string{c.cfg.Password},
	}
	req, err = http.NewRequestWithContext(ctx, http.MethodPost, c.base+loginPath, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err = c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: login POST: %v", persistence.ErrRemote, err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return fmt.Errorf("%w: login response: %v", persistence.ErrRemote, err)
	}

	// The platform answers a successful j_security_check with an empty
	// body; anything else is a rejection page.
	if len(strings.TrimSpace(string(body))) > 0 {
		return fmt.Errorf("%w: platform rejected credentials for user %q", persistence.ErrAuth, c.cfg.Username)
	}

	c.state = stateEstablished
	c.logger.Debug("session established", "user", c.user)
	return nil
}

// Logout invalidates the server-side session and moves the client to
// the closed state; the next data operation re-authenticates.
func (c *Client) Logout(ctx context.Context) error {
	if c.state != stateEstablished {
		c.state = stateClosed
		return nil
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+logoutPath, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	c.decorate(req)
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: logout: %v", persistence.ErrRemote, err)
	}
	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	jar, jarErr := cookiejar.New(nil)
	if jarErr == nil {
		c.client.Jar = jar
	}
	c.state = stateClosed
	c.logger.Debug("session closed")
	return nil
}

// decorate attaches the fixed local-deployment identity cookie.
func (c *Client) decorate(req *http.Request) {
	if c.local {
		req.Header.Set("Cookie", "username="+localAdminUser)
	}
}

// do runs one authenticated request, transparently establishing the
// session first.
func (c *Client) do(ctx context.Context, req *http.Request) (*http.Response, error) {
	if err := c.ensureSession(ctx); err != nil {
		return nil, err
	}
	c.decorate(req)
	return c.client.Do(req)
}

// postForm POSTs url-encoded form data to a platform path and returns
// the response body. Non-2xx responses are fatal remote errors carrying
// the body verbatim.
func (c *Client) postForm(ctx context.Context, path string, form url.Values, accept string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+path, strings.NewReader(form.Encode()))
	if err != nil {
		return "", fmt.Errorf("%w: %v", persistence.ErrRemote, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	if accept != "" {
		req.Header.Set("Accept", accept)
	}

	resp, err := c.do(ctx, req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response from %s: %v", persistence.ErrRemote, path, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return string(body), fmt.Errorf("%w: POST %s returned %s: %s", persistence.ErrRemote, path, resp.Status, strings.TrimSpace(string(body)))
	}
	return string(body), nil
}

func isLoopback(host string) bool {
	return host == "localhost" || host == "::1" || strings.HasPrefix(host, "127.")
}
