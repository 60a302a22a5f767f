// Package client consumes the device routes served by package api.
//
// Client implements braket.Registry, so commands can run against a remote
// server the same way they run against the Braket API.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pithecene-io/braket-devices/api"
	"github.com/pithecene-io/braket-devices/braket"
	"github.com/pithecene-io/braket-devices/catalog"
	"github.com/pithecene-io/braket-devices/iox"
	"github.com/pithecene-io/braket-devices/metrics"
	"github.com/pithecene-io/braket-devices/properties"
	"github.com/pithecene-io/braket-devices/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// maxBody bounds the size of a response body.
const maxBody = 32 << 20

// APIError is an error envelope returned by the server, or a response that
// could not be read as one.
type APIError struct {
	// StatusCode is the HTTP status, 0 when no response was received.
	StatusCode int
	Type       braket.Kind
	Message    string
	Details    map[string]any
}

func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (HTTP %d): %s", e.Type, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// Unwrap returns the sentinel matching Type, so braket.KindOf and
// braket.HTTPStatus classify server errors like local ones.
func (e *APIError) Unwrap() error {
	switch e.Type {
	case braket.KindAuth:
		return braket.ErrAuth
	case braket.KindPermission:
		return braket.ErrPermission
	case braket.KindNotFound:
		return braket.ErrNotFound
	case braket.KindValidation:
		return braket.ErrValidation
	case braket.KindNetwork:
		return braket.ErrNetwork
	default:
		if e.StatusCode == http.StatusServiceUnavailable {
			return braket.ErrUnavailable
		}
		return braket.ErrServer
	}
}

// Client talks to a braket-devices server.
type Client struct {
	base *url.URL
	hc   *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.hc = hc }
}

// New creates a client for the server at baseURL. The URL includes the
// server's base path, if any (e.g. "http://localhost:8080/api").
func New(baseURL string, opts ...Option) (*Client, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("invalid server URL: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("invalid server URL %q: scheme must be http or https", baseURL)
	}
	c := &Client{base: u, hc: &http.Client{Timeout: DefaultTimeout}}
	for _, o := range opts {
		o(c)
	}
	return c, nil
}

// ListDevices fetches the device listing with its warnings.
func (c *Client) ListDevices(ctx context.Context) (braket.DeviceList, error) {
	resp, err := c.get(ctx, "devices", nil)
	if err != nil {
		return braket.DeviceList{}, err
	}
	return braket.DeviceList{Devices: resp.Devices, Warnings: resp.Warnings}, nil
}

// GetDevice fetches one device. A success envelope without a device is a
// not_found error.
func (c *Client) GetDevice(ctx context.Context, arn string) (types.DeviceDetail, error) {
	resp, err := c.get(ctx, "devices", url.Values{api.DeviceARNParam: {arn}})
	if err != nil {
		return types.DeviceDetail{}, err
	}
	if resp.Device == nil {
		return types.DeviceDetail{}, &APIError{
			StatusCode: http.StatusOK,
			Type:       braket.KindNotFound,
			Message:    fmt.Sprintf("device %s not found in response", arn),
		}
	}
	return *resp.Device, nil
}

// DeviceStatus fetches one device and returns its status.
func (c *Client) DeviceStatus(ctx context.Context, arn string) (types.DeviceStatus, error) {
	d, err := c.GetDevice(ctx, arn)
	if err != nil {
		return "", err
	}
	return d.DeviceStatus, nil
}

// View fetches the normalized view of one device.
func (c *Client) View(ctx context.Context, arn string) (properties.View, error) {
	resp, err := c.get(ctx, "devices/view", url.Values{api.DeviceARNParam: {arn}})
	if err != nil {
		return properties.View{}, err
	}
	if resp.View == nil {
		return properties.View{}, &APIError{
			StatusCode: http.StatusOK,
			Type:       braket.KindNotFound,
			Message:    fmt.Sprintf("device %s not found in response", arn),
		}
	}
	return *resp.View, nil
}

// Catalog fetches the server's catalog.
func (c *Client) Catalog(ctx context.Context) (*catalog.Catalog, error) {
	resp, err := c.get(ctx, "catalog", nil)
	if err != nil {
		return nil, err
	}
	if resp.Catalog == nil {
		return catalog.Empty(), nil
	}
	return catalog.New(resp.Catalog.Devices)
}

// Metrics fetches the server's counters.
func (c *Client) Metrics(ctx context.Context) (metrics.Snapshot, error) {
	resp, err := c.get(ctx, "metrics", nil)
	if err != nil {
		return metrics.Snapshot{}, err
	}
	if resp.Metrics == nil {
		return metrics.Snapshot{}, nil
	}
	return *resp.Metrics, nil
}

func (c *Client) endpoint(route string, query url.Values) string {
	u := *c.base
	u.Path = c.base.Path + "/" + api.RoutePrefix + "/" + route
	u.RawQuery = query.Encode()
	return u.String()
}

// get performs one request and decodes the envelope. Error envelopes and
// unreadable responses become *APIError.
func (c *Client) get(ctx context.Context, route string, query url.Values) (*api.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint(route, query), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	res, err := c.hc.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, errors.Join(&APIError{Type: braket.KindNetwork, Message: ctxErr.Error()}, ctxErr)
		}
		return nil, &APIError{Type: braket.KindNetwork, Message: err.Error()}
	}
	defer iox.DiscardClose(res.Body)

	body, err := io.ReadAll(io.LimitReader(res.Body, maxBody))
	if err != nil {
		return nil, &APIError{StatusCode: res.StatusCode, Type: braket.KindNetwork, Message: fmt.Sprintf("read response: %v", err)}
	}

	var resp api.Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &APIError{
			StatusCode: res.StatusCode,
			Type:       kindForStatus(res.StatusCode),
			Message:    fmt.Sprintf("unreadable response: %s", snippet(body)),
		}
	}
	if resp.Status == api.StatusError || res.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{
			StatusCode: res.StatusCode,
			Type:       resp.Type,
			Message:    resp.Message,
			Details:    resp.Details,
		}
		if apiErr.Type == "" {
			apiErr.Type = kindForStatus(res.StatusCode)
		}
		if apiErr.Message == "" {
			apiErr.Message = http.StatusText(res.StatusCode)
		}
		return nil, apiErr
	}
	return &resp, nil
}

// kindForStatus guesses an error kind from an HTTP status when the body
// carries none.
func kindForStatus(code int) braket.Kind {
	switch code {
	case http.StatusBadRequest:
		return braket.KindValidation
	case http.StatusUnauthorized:
		return braket.KindAuth
	case http.StatusForbidden:
		return braket.KindPermission
	case http.StatusNotFound:
		return braket.KindNotFound
	case http.StatusBadGateway, http.StatusGatewayTimeout:
		return braket.KindNetwork
	default:
		return braket.KindServer
	}
}

func snippet(b []byte) string {
	const limit = 120
	s := strings.TrimSpace(string(b))
	if len(s) > limit {
		return s[:limit] + "..."
	}
	return s
}

var _ braket.Registry = (*Client)(nil)
