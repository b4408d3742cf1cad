package client

import (
	"net/http"
	"net/url"
)

// Envelope is a transport-independent snapshot of a response: the raw body
// plus whatever metadata the transport could observe. A response without a
// status code (HasStatus false) is not HTTP-shaped and cannot be resolved.
type Envelope struct {
	// Body is the raw response body.
	Body []byte
	// StatusCode is the HTTP status code. Only meaningful when HasStatus.
	StatusCode int
	// HasStatus reports whether the response carried a status code.
	HasStatus bool
	// Header holds the response headers.
	Header http.Header
	// URL is the final request URL, after any transport-level redirects.
	URL *url.URL
	// MimeType is the response media type with parameters stripped.
	MimeType string
	// ContentLength is the declared body length, -1 when unknown.
	ContentLength int64
}
