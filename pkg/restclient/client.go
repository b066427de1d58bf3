// Package restclient is the one place that talks HTTP to the E-Police
// backend: request shaping, auth, envelope unwrapping, error mapping and
// status normalization all live here so the controllers above stay purely
// about state.
package restclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"epolice/internal/logger"
	"epolice/internal/metrics"
)

type Client struct {
	base   string
	hc     *http.Client
	token  string
	l      *slog.Logger
	Unwrap Unwrapper
}

type Option func(*Client)

// WithHTTPClient shares an existing client; useful for tests and for the
// logging transport.
func WithHTTPClient(hc *http.Client) Option { return func(c *Client) { c.hc = hc } }

// WithToken sets the bearer token attached to every request.
func WithToken(token string) Option { return func(c *Client) { c.token = token } }

func WithLogger(l *slog.Logger) Option { return func(c *Client) { c.l = l } }

// WithUnwrapPaths overrides the envelope probing order.
func WithUnwrapPaths(paths []string) Option {
	return func(c *Client) { c.Unwrap = Unwrapper{Paths: paths} }
}

func New(base string, opts ...Option) *Client {
	c := &Client{
		base: strings.TrimRight(base, "/"),
		l:    logger.L(),
	}
	for _, o := range opts {
		o(c)
	}
	if c.hc == nil {
		c.hc = &http.Client{
			Timeout:   15 * time.Second,
			Transport: logger.Transport(c.l, nil),
		}
	}
	return c
}

// do issues one request and maps non-2xx responses to *APIError. No retries,
// no backoff: failures surface immediately and the caller decides what the
// user sees.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, contentType string, body io.Reader) (json.RawMessage, error) {
	u := c.base + "/" + strings.TrimLeft(path, "/")
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	req, err := http.NewRequestWithContext(ctx, method, u, body)
	if err != nil {
		return nil, err
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	req.Header.Set("X-Request-ID", uuid.NewString())

	t0 := time.Now()
	metrics.APIRequestsTotal.WithLabelValues(method).Inc()
	resp, err := c.hc.Do(req)
	if err != nil {
		metrics.APIFailTotal.WithLabelValues(method).Inc()
		c.l.Error("api_transport_error", "method", method, "path", path, "err", err)
		return nil, err
	}
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.APIFailTotal.WithLabelValues(method).Inc()
		return nil, err
	}
	metrics.APIDurationMs.Observe(float64(time.Since(t0).Milliseconds()))
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.APIFailTotal.WithLabelValues(method).Inc()
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: serverMessage(raw)}
		c.l.Debug("api_error", "method", method, "path", path, "status", resp.StatusCode, "msg", apiErr.Message)
		return nil, apiErr
	}
	return raw, nil
}

func (c *Client) Get(ctx context.Context, path string, query url.Values) (json.RawMessage, error) {
	return c.do(ctx, http.MethodGet, path, query, "", nil)
}

func (c *Client) PostJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPost, path, nil, "application/json", bytes.NewReader(b))
}

func (c *Client) PutJSON(ctx context.Context, path string, payload any) (json.RawMessage, error) {
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return c.do(ctx, http.MethodPut, path, nil, "application/json", bytes.NewReader(b))
}

func (c *Client) Delete(ctx context.Context, path string) (json.RawMessage, error) {
	return c.do(ctx, http.MethodDelete, path, nil, "", nil)
}

// PostMultipart sends stringified scalar fields plus an optional single file
// part, the shape required by the photo-carrying endpoints.
func (c *Client) PostMultipart(ctx context.Context, method, path string, fields map[string]string, fileField, fileName string, file io.Reader) (json.RawMessage, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, err
		}
	}
	if file != nil && fileField != "" {
		part, err := w.CreateFormFile(fileField, fileName)
		if err != nil {
			return nil, err
		}
		if _, err := io.Copy(part, file); err != nil {
			return nil, err
		}
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return c.do(ctx, method, path, nil, w.FormDataContentType(), &buf)
}

// GetBlob fetches a binary body (Excel exports, templates) without envelope
// handling.
func (c *Client) GetBlob(ctx context.Context, path string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, nil, "", nil)
}

// ListQuery builds the collection query string: 1-based page over the wire,
// 0-based page index inside the client.
func ListQuery(pageIndex, pageSize int, search string) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(pageIndex+1))
	q.Set("limit", strconv.Itoa(pageSize))
	if search != "" {
		q.Set("search", search)
	}
	return q
}
