package client

import (
	"net/url"
	"strings"
)

// Body is a declared request body variant. Variants encode themselves into
// bytes plus an inferred content type; the builder's body stage validates
// the result against any preset Content-Type header.
type Body interface {
	encode(enc Encoder) (data []byte, contentType string, err error)
}

// BytesBody sends raw bytes with an explicit content type.
type BytesBody struct {
	// Data is the raw body.
	Data []byte
	// ContentType is the media type for Data. May be empty when the
	// caller presets a Content-Type header instead.
	ContentType string
}

func (b BytesBody) encode(Encoder) ([]byte, string, error) {
	return b.Data, b.ContentType, nil
}

// TextBody sends a UTF-8 text body.
type TextBody string

func (b TextBody) encode(Encoder) ([]byte, string, error) {
	return []byte(b), "text/plain; charset=utf-8", nil
}

// JSONBody sends a structured body serialized through the configured
// encoder factory.
type JSONBody struct {
	// Value is the value to serialize.
	Value any
}

func (b JSONBody) encode(enc Encoder) ([]byte, string, error) {
	data, err := enc.Encode(b.Value)
	if err != nil {
		return nil, "", err
	}
	return data, enc.ContentType(), nil
}

// FormBody sends url-encoded form fields.
type FormBody url.Values

func (b FormBody) encode(Encoder) ([]byte, string, error) {
	return []byte(url.Values(b).Encode()), "application/x-www-form-urlencoded", nil
}

// encodeBody runs the declared body through the codec.
func encodeBody(body Body, enc Encoder) ([]byte, string, error) {
	if body == nil {
		return nil, "", nil
	}
	return body.encode(enc)
}

// mediaType normalizes a Content-Type value for comparison: parameters
// stripped, lowercased, whitespace trimmed.
func mediaType(v string) string {
	if i := strings.IndexByte(v, ';'); i >= 0 {
		v = v[:i]
	}
	return strings.ToLower(strings.TrimSpace(v))
}
