// Package httpremote is a core.RemoteStore that talks to a noteflow-remote
// server over HTTP.
package httpremote

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

	"github.com/NUMNIMx/noteflow/pkg/core"
)

// DocumentsPath is the route prefix of user documents.
const DocumentsPath = "/v1/documents/"

// Error codes carried in ErrorBody.
const (
	CodeDocumentAbsent   = "DOCUMENT_ABSENT"
	CodeNotFound         = "NOT_FOUND"
	CodePermissionDenied = "PERMISSION_DENIED"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeTimeout          = "TIMEOUT"
	CodeRateLimited      = "RATE_LIMITED"
	CodeBadRequest       = "BAD_REQUEST"
	CodeUnknown          = "UNKNOWN"
)

// Document is the wire form of a core.Record.
type Document struct {
	State     string `json:"state_str"`
	UpdatedAt int64  `json:"updated_at"`
}

// ErrorBody is returned by the server on every non-2xx response.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Client implements core.RemoteStore against a server base URL.
type Client struct {
	base  string
	token string
	http  *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the transport.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.http = hc
	}
}

// New creates a client for baseURL that authenticates with a bearer token.
func New(baseURL, token string, opts ...Option) *Client {
	c := &Client{
		base:  strings.TrimRight(baseURL, "/"),
		token: token,
		http:  &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Client) url(key string) string {
	return c.base + DocumentsPath + url.PathEscape(core.UserIDFromKey(key))
}

// Write implements core.RemoteStore.
func (c *Client) Write(ctx context.Context, key string, rec core.Record) error {
	body, err := json.Marshal(Document{State: string(rec.Payload), UpdatedAt: rec.UpdatedAt})
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPut, c.url(key), bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		code, err := decodeError(resp)
		if err == nil {
			err = fmt.Errorf("httpremote: unexpected %s on write", code)
		}
		return err
	}
	return nil
}

// Read implements core.RemoteStore.
func (c *Client) Read(ctx context.Context, key string) (core.Record, bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url(key), nil)
	if err != nil {
		return core.Record{}, false, err
	}
	resp, err := c.do(req)
	if err != nil {
		return core.Record{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		code, err := decodeError(resp)
		if code == CodeDocumentAbsent {
			return core.Record{}, false, nil
		}
		return core.Record{}, false, err
	}

	var doc Document
	if err := json.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return core.Record{}, false, fmt.Errorf("httpremote: decode document: %w", err)
	}
	return core.Record{Payload: []byte(doc.State), UpdatedAt: doc.UpdatedAt}, true, nil
}

func (c *Client) do(req *http.Request) (*http.Response, error) {
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, fmt.Errorf("%w: %v", core.ErrRemoteTimeout, err)
		}
		return nil, fmt.Errorf("httpremote: %s %s: %w", req.Method, req.URL.Path, err)
	}
	return resp, nil
}

// decodeError turns a non-2xx response into its code and a core sentinel error.
func decodeError(resp *http.Response) (string, error) {
	var body ErrorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
	if err := json.Unmarshal(raw, &body); err != nil || body.Code == "" {
		body.Message = strings.TrimSpace(string(raw))
	}
	err := fmt.Errorf("httpremote: %d %s: %s", resp.StatusCode, body.Code, body.Message)

	switch {
	case body.Code == CodeDocumentAbsent:
		return body.Code, nil
	case body.Code == CodeNotFound:
		return body.Code, fmt.Errorf("%w: %v", core.ErrNotProvisioned, err)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return body.Code, fmt.Errorf("%w: %v", core.ErrPermissionDenied, err)
	case resp.StatusCode == http.StatusGatewayTimeout, body.Code == CodeTimeout:
		return body.Code, fmt.Errorf("%w: %v", core.ErrRemoteTimeout, err)
	}
	return body.Code, err
}

var _ core.RemoteStore = (*Client)(nil)
