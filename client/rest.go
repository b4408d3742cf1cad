package client

import (
	"context"
	"net/http"

	"github.com/kbukum/restkit/outcome"
)

// TypedResponse wraps a resolved call with a decoded body of type T.
type TypedResponse[T any] struct {
	// Value is the decoded response body. Zero when NoContent is set.
	Value T
	// NoContent marks a response the outcome table declared body-less.
	NoContent bool
	// Envelope is the raw response.
	Envelope *Envelope
}

// DefaultOutcomes covers plain JSON APIs: 204 is no-content, any other
// 2xx decodes the body.
func DefaultOutcomes() *outcome.Table {
	return outcome.Build(
		outcome.Status(http.StatusNoContent, outcome.NoContent()),
		outcome.Range(200, 299, outcome.Decode()),
	)
}

// RequestOption configures a single request descriptor.
type RequestOption func(*Descriptor)

// WithHeader adds a header to the request.
func WithHeader(key, value string) RequestOption {
	return func(d *Descriptor) {
		if d.Headers == nil {
			d.Headers = make(map[string]string)
		}
		d.Headers[key] = value
	}
}

// WithQuery adds a query parameter to the request.
func WithQuery(key, value string) RequestOption {
	return func(d *Descriptor) {
		if d.Query == nil {
			d.Query = make(map[string]*string)
		}
		d.Query[key] = &value
	}
}

// WithQueryFlag adds a name-only query item (`?flag`).
func WithQueryFlag(key string) RequestOption {
	return func(d *Descriptor) {
		if d.Query == nil {
			d.Query = make(map[string]*string)
		}
		d.Query[key] = nil
	}
}

// WithAuth sets the request's auth mode.
func WithAuth(mode AuthMode) RequestOption {
	return func(d *Descriptor) { d.Auth = mode }
}

// WithBody sets the declared request body.
func WithBody(b Body) RequestOption {
	return func(d *Descriptor) { d.Body = b }
}

// Call executes a descriptor against an outcome table and decodes the body
// into T. A nil table falls back to DefaultOutcomes.
func Call[T any](ctx context.Context, c *Client, desc Descriptor, outcomes *outcome.Table) (*TypedResponse[T], error) {
	if outcomes == nil {
		outcomes = DefaultOutcomes()
	}
	res, err := c.Do(ctx, desc, Operation{Outcomes: outcomes, Target: JSONTarget[T]()})
	if err != nil {
		return nil, err
	}
	tr := &TypedResponse[T]{NoContent: res.NoContent, Envelope: res.Envelope}
	if !res.NoContent {
		tr.Value = *(res.Value.(*T))
	}
	return tr, nil
}

// Get performs a GET and decodes the JSON response into T.
func Get[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, http.MethodGet, path, nil, opts...)
}

// Post performs a POST with a JSON body and decodes the response into T.
func Post[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, http.MethodPost, path, body, opts...)
}

// Put performs a PUT with a JSON body and decodes the response into T.
func Put[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, http.MethodPut, path, body, opts...)
}

// Patch performs a PATCH with a JSON body and decodes the response into T.
func Patch[T any](ctx context.Context, c *Client, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, http.MethodPatch, path, body, opts...)
}

// Delete performs a DELETE and decodes the JSON response into T.
func Delete[T any](ctx context.Context, c *Client, path string, opts ...RequestOption) (*TypedResponse[T], error) {
	return doTyped[T](ctx, c, http.MethodDelete, path, nil, opts...)
}

func doTyped[T any](ctx context.Context, c *Client, method, path string, body any, opts ...RequestOption) (*TypedResponse[T], error) {
	desc := Descriptor{Method: method, Path: path}
	if body != nil {
		desc.Body = JSONBody{Value: body}
	}
	for _, opt := range opts {
		opt(&desc)
	}
	return Call[T](ctx, c, desc, nil)
}
