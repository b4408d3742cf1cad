package client

import (
	"net/http"
	"net/url"
)

// AuthMode selects how the configured credential is attached to a request.
type AuthMode int

const (
	// AuthNone attaches no credential.
	AuthNone AuthMode = iota
	// AuthBearer sends the credential as an Authorization: Bearer header.
	AuthBearer
	// AuthURLToken sends the credential as a single `token` query parameter.
	AuthURLToken
)

// String returns the auth mode name.
func (m AuthMode) String() string {
	switch m {
	case AuthBearer:
		return "bearer"
	case AuthURLToken:
		return "url"
	default:
		return "none"
	}
}

// Descriptor declares a single logical request. The builder turns it into
// a WireRequest; interceptors may rewrite the built request per attempt.
type Descriptor struct {
	// Method is the HTTP method (GET, POST, ...).
	Method string
	// Path is merged onto the configured base URL path.
	Path string
	// Query holds query items. A nil value renders a name-only item
	// (`?flag`); an absent key is simply omitted.
	Query map[string]*string
	// Headers are request headers. A caller Authorization header replaces
	// any bearer credential the builder applied.
	Headers map[string]string
	// Body is the declared request body, or nil for none.
	Body Body
	// Auth selects how the configured credential is attached.
	Auth AuthMode
}

// QueryValue returns a pointer for use in Descriptor.Query.
func QueryValue(s string) *string { return &s }

// WireRequest is a fully assembled request ready for transport execution.
// It is rebuilt per attempt and may be patched by interceptors on retry.
type WireRequest struct {
	// Method is the HTTP method.
	Method string
	// URL is the assembled request URL.
	URL *url.URL
	// Header holds the request headers.
	Header http.Header
	// Body is the encoded request body, or nil.
	Body []byte
}

// Clone returns a deep copy safe for interceptors to rewrite.
func (r *WireRequest) Clone() *WireRequest {
	if r == nil {
		return nil
	}
	c := &WireRequest{Method: r.Method}
	if r.URL != nil {
		u := *r.URL
		c.URL = &u
	}
	if r.Header != nil {
		c.Header = r.Header.Clone()
	}
	if r.Body != nil {
		c.Body = make([]byte, len(r.Body))
		copy(c.Body, r.Body)
	}
	return c
}
