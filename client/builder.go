package client

import (
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"

	"github.com/kbukum/restkit/version"
)

// Builder assembles a WireRequest from configuration plus a Descriptor in
// seven stages. Every stage has a default; set the matching field to swap
// a single stage without reimplementing the rest.
type Builder struct {
	// ParseBase parses the configured base URL into components.
	ParseBase func(cfg *Config) (*url.URL, error)
	// MergePath merges the request path onto the base path.
	MergePath func(u *url.URL, path string)
	// MergeQuery merges base, caller, and auth query items.
	MergeQuery func(u *url.URL, desc *Descriptor, cfg *Config) error
	// AssembleURL materializes the final URL from components.
	AssembleURL func(u *url.URL) (*url.URL, error)
	// ApplyMethod sets the HTTP method.
	ApplyMethod func(req *WireRequest, desc *Descriptor)
	// ApplyHeaders applies auth, default, and caller headers.
	ApplyHeaders func(req *WireRequest, desc *Descriptor, cfg *Config) error
	// ApplyBody encodes the declared body and applies it with its
	// content type.
	ApplyBody func(req *WireRequest, desc *Descriptor, cfg *Config) error
}

// Build runs the stages in order and returns the assembled request.
func (b *Builder) Build(cfg *Config, desc *Descriptor) (*WireRequest, error) {
	parseBase := b.ParseBase
	if parseBase == nil {
		parseBase = defaultParseBase
	}
	mergePath := b.MergePath
	if mergePath == nil {
		mergePath = defaultMergePath
	}
	mergeQuery := b.MergeQuery
	if mergeQuery == nil {
		mergeQuery = defaultMergeQuery
	}
	assembleURL := b.AssembleURL
	if assembleURL == nil {
		assembleURL = defaultAssembleURL
	}
	applyMethod := b.ApplyMethod
	if applyMethod == nil {
		applyMethod = defaultApplyMethod
	}
	applyHeaders := b.ApplyHeaders
	if applyHeaders == nil {
		applyHeaders = defaultApplyHeaders
	}
	applyBody := b.ApplyBody
	if applyBody == nil {
		applyBody = defaultApplyBody
	}

	u, err := parseBase(cfg)
	if err != nil {
		return nil, err
	}
	mergePath(u, desc.Path)
	if err := mergeQuery(u, desc, cfg); err != nil {
		return nil, err
	}
	final, err := assembleURL(u)
	if err != nil {
		return nil, err
	}

	req := &WireRequest{URL: final, Header: make(http.Header)}
	applyMethod(req, desc)
	if err := applyHeaders(req, desc, cfg); err != nil {
		return nil, err
	}
	if err := applyBody(req, desc, cfg); err != nil {
		return nil, err
	}
	return req, nil
}

// Stage 1: parse the configured base URL.
func defaultParseBase(cfg *Config) (*url.URL, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil {
		return nil, newConfigurationError(fmt.Errorf("parse base url: %w", err))
	}
	if !u.IsAbs() || u.Host == "" {
		return nil, newConfigurationError(fmt.Errorf("base url %q is not absolute", cfg.BaseURL))
	}
	copied := *u
	return &copied, nil
}

// Stage 2: merge the request path onto the base path.
func defaultMergePath(u *url.URL, path string) {
	if path == "" {
		return
	}
	if u.Path == "" || u.Path == "/" {
		u.Path = "/" + strings.TrimLeft(path, "/")
		return
	}
	u.Path = collapseSlashes(u.Path + "/" + path)
}

func collapseSlashes(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	var prev byte
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch == '/' && prev == '/' {
			continue
		}
		b.WriteByte(ch)
		prev = ch
	}
	return b.String()
}

// queryItem preserves registration order and name-only rendering, which
// url.Values cannot express.
type queryItem struct {
	name  string
	value *string
}

// Stage 3: merge query items. Base items come first, then caller items in
// sorted key order. Under url auth every pre-existing `token` item is
// stripped from both sources and exactly one authoritative token item is
// appended last.
func defaultMergeQuery(u *url.URL, desc *Descriptor, cfg *Config) error {
	items := parseQueryItems(u.RawQuery)

	callerKeys := make([]string, 0, len(desc.Query))
	for k := range desc.Query {
		callerKeys = append(callerKeys, k)
	}
	sort.Strings(callerKeys)
	caller := make([]queryItem, 0, len(callerKeys))
	for _, k := range callerKeys {
		caller = append(caller, queryItem{name: k, value: desc.Query[k]})
	}

	if desc.Auth == AuthURLToken {
		if cfg.Credential == "" {
			return newAuthenticationMissingError(desc.Auth.String())
		}
		items = stripTokenItems(items)
		caller = stripTokenItems(caller)
	}

	items = append(items, caller...)

	if desc.Auth == AuthURLToken {
		cred := cfg.Credential
		items = append(items, queryItem{name: "token", value: &cred})
	}

	u.RawQuery = encodeQueryItems(items)
	return nil
}

func stripTokenItems(items []queryItem) []queryItem {
	kept := items[:0]
	for _, it := range items {
		if strings.EqualFold(it.name, "token") {
			continue
		}
		kept = append(kept, it)
	}
	return kept
}

func parseQueryItems(raw string) []queryItem {
	if raw == "" {
		return nil
	}
	var items []queryItem
	for _, part := range strings.Split(raw, "&") {
		if part == "" {
			continue
		}
		name, value, found := strings.Cut(part, "=")
		n, err := url.QueryUnescape(name)
		if err != nil {
			n = name
		}
		it := queryItem{name: n}
		if found {
			v, err := url.QueryUnescape(value)
			if err != nil {
				v = value
			}
			it.value = &v
		}
		items = append(items, it)
	}
	return items
}

func encodeQueryItems(items []queryItem) string {
	var b strings.Builder
	for i, it := range items {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(url.QueryEscape(it.name))
		if it.value != nil {
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(*it.value))
		}
	}
	return b.String()
}

// Stage 4: materialize the final URL from components.
func defaultAssembleURL(u *url.URL) (*url.URL, error) {
	final, err := url.Parse(u.String())
	if err != nil {
		return nil, newURLAssemblyError(err)
	}
	return final, nil
}

// Stage 5: set the HTTP method.
func defaultApplyMethod(req *WireRequest, desc *Descriptor) {
	method := desc.Method
	if method == "" {
		method = http.MethodGet
	}
	req.Method = method
}

// Stage 6: apply headers. The default User-Agent first, then configured
// defaults, then the bearer credential, then caller headers; a caller
// Authorization header (any case) replaces the bearer value.
func defaultApplyHeaders(req *WireRequest, desc *Descriptor, cfg *Config) error {
	req.Header.Set("User-Agent", version.UserAgent())
	for k, v := range cfg.Headers {
		req.Header.Set(k, v)
	}
	if desc.Auth == AuthBearer {
		if cfg.Credential == "" {
			return newAuthenticationMissingError(desc.Auth.String())
		}
		req.Header.Set("Authorization", "Bearer "+cfg.Credential)
	}
	for k, v := range desc.Headers {
		req.Header.Set(k, v)
	}
	return nil
}

// Stage 7: run the body codec and validate the result against any preset
// Content-Type header.
func defaultApplyBody(req *WireRequest, desc *Descriptor, cfg *Config) error {
	if desc.Body == nil {
		return nil
	}
	data, inferred, err := encodeBody(desc.Body, cfg.encoder())
	if err != nil {
		return newBodyEncodingError(err)
	}

	preset := req.Header.Get("Content-Type")
	switch {
	case len(data) > 0 && inferred == "" && preset == "":
		return newInvalidRequestError("body without content-type")
	case preset != "" && inferred != "":
		if mediaType(preset) != mediaType(inferred) {
			return newInvalidRequestError(fmt.Sprintf(
				"content-type conflict: header %q vs body %q", preset, inferred))
		}
		// The caller's original value stands; it may carry a charset or
		// other parameters the codec did not infer.
	case preset == "" && inferred != "":
		req.Header.Set("Content-Type", inferred)
	}

	req.Body = data
	return nil
}
