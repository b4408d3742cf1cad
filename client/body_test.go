package client

import (
	"bytes"
	"net/url"
	"strings"
	"testing"
)

func TestEncodeBody_JSONRoundTrip(t *testing.T) {
	type inner struct {
		Name string `json:"name"`
	}
	type payload struct {
		ID    int    `json:"id"`
		Inner inner  `json:"inner"`
		Note  string `json:"note"`
	}

	tests := []struct {
		name  string
		value any
		check func(t *testing.T, res *Result)
	}{
		{
			name:  "empty object",
			value: map[string]any{},
			check: func(t *testing.T, res *Result) {
				m := *(res.Value.(*map[string]any))
				if len(m) != 0 {
					t.Errorf("expected empty map, got %v", m)
				}
			},
		},
		{
			name:  "nested object",
			value: payload{ID: 7, Inner: inner{Name: "deep"}, Note: "ok"},
			check: nil, // checked below via typed decode
		},
		{
			name:  "top-level array",
			value: []int{1, 2, 3},
			check: nil,
		},
		{
			name:  "multi-byte utf-8 string",
			value: "héllo wörld 日本語",
			check: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, ct, err := encodeBody(JSONBody{Value: tt.value}, JSONEncoder{})
			if err != nil {
				t.Fatalf("unexpected encode error: %v", err)
			}
			if ct != "application/json" {
				t.Errorf("expected application/json, got %s", ct)
			}

			env := &Envelope{Body: data, StatusCode: 200, HasStatus: true}
			switch v := tt.value.(type) {
			case map[string]any:
				res, err := Resolve(env, testDecodeTable(), JSONTarget[map[string]any]())
				if err != nil {
					t.Fatalf("unexpected decode error: %v", err)
				}
				if tt.check != nil {
					tt.check(t, res)
				}
			case payload:
				res, err := Resolve(env, testDecodeTable(), JSONTarget[payload]())
				if err != nil {
					t.Fatalf("unexpected decode error: %v", err)
				}
				got := *(res.Value.(*payload))
				if got != v {
					t.Errorf("round trip mismatch: got %+v want %+v", got, v)
				}
			case []int:
				res, err := Resolve(env, testDecodeTable(), JSONTarget[[]int]())
				if err != nil {
					t.Fatalf("unexpected decode error: %v", err)
				}
				got := *(res.Value.(*[]int))
				if len(got) != len(v) {
					t.Fatalf("round trip length mismatch: got %v want %v", got, v)
				}
				for i := range v {
					if got[i] != v[i] {
						t.Errorf("round trip mismatch at %d: got %d want %d", i, got[i], v[i])
					}
				}
			case string:
				res, err := Resolve(env, testDecodeTable(), JSONTarget[string]())
				if err != nil {
					t.Fatalf("unexpected decode error: %v", err)
				}
				if got := *(res.Value.(*string)); got != v {
					t.Errorf("round trip mismatch: got %q want %q", got, v)
				}
			}
		})
	}
}

func TestEncodeBody_TextRoundTrip(t *testing.T) {
	text := "grüße 世界"
	data, ct, err := encodeBody(TextBody(text), JSONEncoder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mediaType(ct) != "text/plain" {
		t.Errorf("expected text/plain media type, got %s", ct)
	}

	env := &Envelope{Body: data, StatusCode: 200, HasStatus: true}
	res, err := Resolve(env, testDecodeTable(), TextTarget())
	if err != nil {
		t.Fatalf("unexpected decode error: %v", err)
	}
	if res.Text != text {
		t.Errorf("round trip mismatch: got %q want %q", res.Text, text)
	}
}

func TestEncodeBody_Idempotent(t *testing.T) {
	body := JSONBody{Value: map[string]any{"b": 2, "a": 1, "c": []string{"x"}}}

	first, ct1, err := encodeBody(body, JSONEncoder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, ct2, err := encodeBody(body, JSONEncoder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !bytes.Equal(first, second) {
		t.Errorf("encoding the same body twice should be byte-identical:\n%s\n%s", first, second)
	}
	if ct1 != ct2 {
		t.Errorf("content types differ: %s vs %s", ct1, ct2)
	}
}

func TestEncodeBody_Form(t *testing.T) {
	data, ct, err := encodeBody(FormBody{"a": {"1"}, "b": {"two words"}}, JSONEncoder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ct != "application/x-www-form-urlencoded" {
		t.Errorf("unexpected content type %s", ct)
	}
	vals, err := url.ParseQuery(string(data))
	if err != nil {
		t.Fatalf("body is not url-encoded: %v", err)
	}
	if vals.Get("b") != "two words" {
		t.Errorf("expected b=two words, got %q", vals.Get("b"))
	}
}

func TestEncodeBody_Multipart(t *testing.T) {
	body := MultipartBody{
		Fields: map[string]string{"kind": "avatar"},
		Files: []FileField{
			{FieldName: "file", FileName: "a.bin", ContentType: "application/octet-stream", Data: []byte{1, 2, 3}},
		},
	}
	data, ct, err := encodeBody(body, JSONEncoder{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.HasPrefix(ct, "multipart/form-data; boundary=") {
		t.Errorf("unexpected content type %s", ct)
	}
	if !bytes.Contains(data, []byte(`name="kind"`)) || !bytes.Contains(data, []byte(`filename="a.bin"`)) {
		t.Error("multipart body missing expected parts")
	}
}

func TestMediaType(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"application/json", "application/json"},
		{"Application/JSON; charset=utf-8", "application/json"},
		{"  text/plain ; charset=utf-8", "text/plain"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := mediaType(tt.in); got != tt.want {
			t.Errorf("mediaType(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
