package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mucalsync/calsync-server/internal/config"
)

// Client is a thin JSON client for the external MUERP backend. It forwards
// requests with the shared API key and hands back status plus raw payload;
// response bodies pass through untouched so the backend's conventional
// {error: string} shape reaches the browser as-is.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// ClientOption modifies a Client instance.
type ClientOption func(*Client)

// WithHTTPClient overrides the underlying HTTP client (primarily for testing)
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func New(cfg config.BackendConfig, options ...ClientOption) *Client {
	c := &Client{
		baseURL:    cfg.GetBackendURL(),
		apiKey:     cfg.GetBackendAPIKey(),
		httpClient: http.DefaultClient,
	}
	for _, opt := range options {
		opt(c)
	}
	return c
}

// Result is a proxied backend response.
type Result struct {
	Status int
	Body   []byte
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader, header http.Header) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.do] NewRequestWithContext")
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-API-Key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.do] %s %s", method, path)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.do] read response body")
	}

	return &Result{Status: resp.StatusCode, Body: payload}, nil
}

// Events fetches all events.
func (c *Client) Events(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodGet, "/api/events", "", nil, nil)
}

// CreateEvent forwards a new event payload.
func (c *Client) CreateEvent(ctx context.Context, body io.Reader) (*Result, error) {
	return c.do(ctx, http.MethodPost, "/api/events", "application/json", body, nil)
}

// UpdateEvent forwards an event update.
func (c *Client) UpdateEvent(ctx context.Context, id string, body io.Reader) (*Result, error) {
	return c.do(ctx, http.MethodPut, "/api/events/"+id, "application/json", body, nil)
}

// DeleteEvent forwards an event deletion.
func (c *Client) DeleteEvent(ctx context.Context, id string) (*Result, error) {
	return c.do(ctx, http.MethodDelete, "/api/events/"+id, "", nil, nil)
}

// UploadTimetable streams a multipart timetable upload through unchanged.
func (c *Client) UploadTimetable(ctx context.Context, contentType string, body io.Reader) (*Result, error) {
	return c.do(ctx, http.MethodPost, "/api/upload-timetable", contentType, body, nil)
}

// DeleteTimetables clears all uploaded timetables.
func (c *Client) DeleteTimetables(ctx context.Context) (*Result, error) {
	return c.do(ctx, http.MethodDelete, "/api/timetable", "", nil, nil)
}

// ERPLoginResponse is the backend's answer to an ERP portal login.
type ERPLoginResponse struct {
	Cookies string `json:"cookies"`
	Detail  string `json:"detail"`
}

// ERPLogin authenticates decrypted student credentials against the ERP
// portal via the backend, passing the backend's own encryption key header.
func (c *Client) ERPLogin(ctx context.Context, credentials []byte, encryptionKey string) (*ERPLoginResponse, int, error) {
	header := http.Header{}
	header.Set("X-Encryption-Key", encryptionKey)

	result, err := c.do(ctx, http.MethodPost, "/api/auth/muerp", "application/json", bytes.NewReader(credentials), header)
	if err != nil {
		return nil, 0, err
	}

	var loginResp ERPLoginResponse
	if err := json.Unmarshal(result.Body, &loginResp); err != nil {
		return nil, result.Status, errors.Wrap(err, "[Client.ERPLogin] decode response")
	}
	return &loginResp, result.Status, nil
}
