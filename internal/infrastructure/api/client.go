// Package api implements the build collection port over the build server's HTTP API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/bnema/buildsel/internal/application/port"
	"github.com/bnema/buildsel/internal/domain/entity"
	"github.com/bnema/buildsel/internal/logging"
)

const (
	// DefaultTimeout bounds every request to the build server.
	DefaultTimeout = 30 * time.Second

	// Maximum response body read (8MB). The build list is the largest payload.
	maxBodySize = 8 * 1024 * 1024

	listBuildsKey = "list"
)

type buildResponse struct {
	BuildHash string `json:"build_hash"`
	Channel   string `json:"channel"`
	IsPatched bool   `json:"is_patched"`
	IsActive  bool   `json:"is_active"`
	BuildDate string `json:"build_date"`
}

type statusResponse struct {
	Status    string `json:"status"`
	Message   string `json:"message"`
	BuildHash string `json:"build_hash,omitempty"`
}

type buildHashRequest struct {
	BuildHash string `json:"build_hash"`
}

type indexScriptsRequest struct {
	IndexScripts []string `json:"index_scripts"`
}

// Client talks to a build server. It is safe for concurrent use.
type Client struct {
	baseURL   *url.URL
	http      *http.Client
	userAgent string
	lists     singleflight.Group
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default http.Client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithTimeout sets the per-request timeout of the default http.Client.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.http.Timeout = d
		}
	}
}

// WithUserAgent sets the User-Agent header sent with every request.
func WithUserAgent(ua string) Option {
	return func(c *Client) {
		c.userAgent = ua
	}
}

// NewClient creates a client for the server at baseURL (scheme and host, optional path prefix).
func NewClient(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server url %q: %w", baseURL, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server url %q: scheme must be http or https", baseURL)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("invalid server url %q: missing host", baseURL)
	}

	c := &Client{
		baseURL:   u,
		http:      &http.Client{Timeout: DefaultTimeout},
		userAgent: "buildsel",
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// BaseURL returns the server root, used to open the client view.
func (c *Client) BaseURL() string {
	return c.baseURL.String() + "/"
}

// ListBuilds fetches the full build collection. Concurrent calls share one request.
func (c *Client) ListBuilds(ctx context.Context) ([]entity.Build, error) {
	v, err, shared := c.lists.Do(listBuildsKey, func() (any, error) {
		return c.listBuilds(ctx)
	})
	if err != nil {
		return nil, err
	}
	builds := v.([]entity.Build)
	out := make([]entity.Build, len(builds))
	copy(out, builds)

	if shared {
		logging.FromContext(ctx).Trace().Msg("list builds request coalesced")
	}
	return out, nil
}

func (c *Client) listBuilds(ctx context.Context) ([]entity.Build, error) {
	status, body, err := c.do(ctx, http.MethodGet, "/api/builds", nil)
	if err != nil {
		return nil, err
	}

	if status < 200 || status > 299 {
		var sr statusResponse
		if json.Unmarshal(body, &sr) == nil && sr.Message != "" {
			return nil, fmt.Errorf("%w: status %d: %s", port.ErrDecode, status, sr.Message)
		}
		return nil, fmt.Errorf("%w: status %d", port.ErrDecode, status)
	}

	var resp []buildResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %w", port.ErrDecode, err)
	}

	builds := make([]entity.Build, 0, len(resp))
	for _, r := range resp {
		b := entity.Build{
			BuildHash: r.BuildHash,
			Channel:   r.Channel,
			IsActive:  r.IsActive,
			IsPatched: r.IsPatched,
		}
		if t, ok := parseBuildDate(r.BuildDate); ok {
			b.BuildDate = t
		} else {
			b.RawDate = r.BuildDate
		}
		builds = append(builds, b)
	}

	logging.FromContext(ctx).Debug().Int("count", len(builds)).Msg("builds listed")
	return builds, nil
}

// FetchCurrent asks the server to fetch the current upstream build.
func (c *Client) FetchCurrent(ctx context.Context) (port.ActionResult, error) {
	return c.action(ctx, http.MethodPost, "/api/builds/fetch-current", nil)
}

// Download asks the server to download and patch a build.
func (c *Client) Download(ctx context.Context, hash string) (port.ActionResult, error) {
	return c.action(ctx, http.MethodPost, "/api/builds/download", buildHashRequest{BuildHash: hash})
}

// Activate selects the build served to clients.
func (c *Client) Activate(ctx context.Context, hash string) (port.ActionResult, error) {
	return c.action(ctx, http.MethodPut, "/api/builds/active", buildHashRequest{BuildHash: hash})
}

// Repatch re-runs the patch pipeline on a build.
func (c *Client) Repatch(ctx context.Context, hash string) (port.ActionResult, error) {
	return c.action(ctx, http.MethodPost, "/api/builds/"+url.PathEscape(hash)+"/repatch", nil)
}

// SetIndexScripts overrides a build's index scripts.
func (c *Client) SetIndexScripts(ctx context.Context, hash string, scripts []string) (port.ActionResult, error) {
	if scripts == nil {
		scripts = []string{}
	}
	return c.action(ctx, http.MethodPut, "/api/builds/"+url.PathEscape(hash)+"/index-scripts",
		indexScriptsRequest{IndexScripts: scripts})
}

// action sends a mutating request. Error statuses carry a JSON body too, so the
// body is decoded whatever the status code.
func (c *Client) action(ctx context.Context, method, path string, payload any) (port.ActionResult, error) {
	status, body, err := c.do(ctx, method, path, payload)
	if err != nil {
		return port.ActionResult{}, err
	}

	var sr statusResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return port.ActionResult{}, fmt.Errorf("%w: status %d: %w", port.ErrDecode, status, err)
	}
	if sr.Status == "" && (status < 200 || status > 299) {
		sr.Status = port.StatusError
	}

	logging.FromContext(ctx).Debug().
		Str("method", method).
		Str("path", path).
		Int("http_status", status).
		Str("status", sr.Status).
		Msg("build action response")

	return port.ActionResult{
		Status:    sr.Status,
		Message:   sr.Message,
		BuildHash: sr.BuildHash,
	}, nil
}

func (c *Client) do(ctx context.Context, method, path string, payload any) (int, []byte, error) {
	var reqBody io.Reader = http.NoBody
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to encode request: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reqBody)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return 0, nil, err
		}
		return 0, nil, fmt.Errorf("%w: %w", port.ErrTransport, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("%w: reading body: %w", port.ErrTransport, err)
	}
	return resp.StatusCode, body, nil
}

var _ port.BuildAPI = (*Client)(nil)
