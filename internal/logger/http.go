// Outbound HTTP logging: a RoundTripper wrapper recording the key dimensions
// of every backend call (method, path, status, duration, bytes read).
package logger

import (
	"log/slog"
	"net/http"
	"time"
)

// loggingTransport wraps a RoundTripper to record request outcomes.
// The response body is never read here; Content-Length is reported as sent
// by the server and may be -1 for chunked responses.
type loggingTransport struct {
	next http.RoundTripper
	l    *slog.Logger
}

func (t *loggingTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(r)
	dur := time.Since(start)
	if err != nil {
		t.l.Debug("http_call_error",
			"method", r.Method,
			"path", r.URL.Path,
			"duration_ms", dur.Milliseconds(),
			"err", err,
		)
		return nil, err
	}
	t.l.Debug("http_call",
		"method", r.Method,
		"path", r.URL.Path,
		"status", resp.StatusCode,
		"bytes", resp.ContentLength,
		"duration_ms", dur.Milliseconds(),
	)
	return resp, nil
}

// Transport wraps next with request/response logging on l. A nil next uses
// http.DefaultTransport.
func Transport(l *slog.Logger, next http.RoundTripper) http.RoundTripper {
	if next == nil {
		next = http.DefaultTransport
	}
	return &loggingTransport{next: next, l: l}
}
