package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"
)

// Transport is the external collaborator that performs the actual network
// exchange. The core never implements I/O, TLS, or pooling itself.
type Transport interface {
	Execute(ctx context.Context, req *WireRequest) (*Envelope, error)
}

// TransportFunc adapts a function to the Transport interface.
type TransportFunc func(ctx context.Context, req *WireRequest) (*Envelope, error)

// Execute calls the function.
func (f TransportFunc) Execute(ctx context.Context, req *WireRequest) (*Envelope, error) {
	return f(ctx, req)
}

// TransportError is a failure below the HTTP layer: connection, DNS, or
// timeout. It enters the deciding stage like a response failure and is
// always considered retryable.
type TransportError struct {
	// Err is the underlying error.
	Err error
	// Timeout reports whether the failure was a timeout.
	Timeout bool
}

// Error implements the error interface.
func (e *TransportError) Error() string {
	if e.Timeout {
		return fmt.Sprintf("restkit: transport timeout: %v", e.Err)
	}
	return fmt.Sprintf("restkit: transport: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *TransportError) Unwrap() error { return e.Err }

const defaultHTTPTimeout = 30 * time.Second

// HTTPTransport executes wire requests over net/http.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport wraps an *http.Client. A nil client gets a default with
// a 30s timeout.
func NewHTTPTransport(hc *http.Client) *HTTPTransport {
	if hc == nil {
		hc = &http.Client{Timeout: defaultHTTPTimeout}
	}
	return &HTTPTransport{client: hc}
}

// Execute sends the request and snapshots the response into an Envelope.
func (t *HTTPTransport) Execute(ctx context.Context, req *WireRequest) (*Envelope, error) {
	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, req.Method, req.URL.String(), body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	for k, vs := range req.Header {
		httpReq.Header[k] = vs
	}

	resp, err := t.client.Do(httpReq)
	if err != nil {
		return nil, &TransportError{Err: err, Timeout: isTimeout(err)}
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: fmt.Errorf("read response body: %w", err)}
	}

	return &Envelope{
		Body:          data,
		StatusCode:    resp.StatusCode,
		HasStatus:     true,
		Header:        resp.Header.Clone(),
		URL:           resp.Request.URL,
		MimeType:      mediaType(resp.Header.Get("Content-Type")),
		ContentLength: resp.ContentLength,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
