package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/kbukum/restkit/outcome"
)

var errNotFound = errors.New("not found")

// testDecodeTable maps every 2xx status to Decode.
func testDecodeTable() *outcome.Table {
	return outcome.Build(outcome.Range(200, 299, outcome.Decode()))
}

func envelopeWith(status int, body []byte) *Envelope {
	return &Envelope{
		Body:       body,
		StatusCode: status,
		HasStatus:  true,
		Header:     http.Header{"Content-Type": []string{"application/json"}},
	}
}

func TestResolve_NoStatus(t *testing.T) {
	env := &Envelope{Body: []byte("raw")}
	_, err := Resolve(env, testDecodeTable(), BytesTarget())
	if !IsResponseError(err, UnknownResponseKind) {
		t.Fatalf("expected UnknownResponseKind, got %v", err)
	}
}

func TestResolve_PredefinedErrorScenario(t *testing.T) {
	table := outcome.Build(
		outcome.Status(200, outcome.Decode()),
		outcome.Status(404, outcome.Err(errNotFound)),
	)

	_, err := Resolve(envelopeWith(404, nil), table, JSONTarget[map[string]any]())
	if !IsResponseError(err, PredefinedError) {
		t.Fatalf("expected PredefinedError, got %v", err)
	}
	if !errors.Is(err, errNotFound) {
		t.Error("predefined value should be reachable through Unwrap")
	}

	var respErr *ResponseError
	errors.As(err, &respErr)
	if code, ok := respErr.StatusCode(); !ok || code != 404 {
		t.Errorf("expected status 404 retained, got %d ok=%v", code, ok)
	}

	_, err = Resolve(envelopeWith(201, nil), table, JSONTarget[map[string]any]())
	if !IsResponseError(err, UnknownOutcomeForStatus) {
		t.Fatalf("expected UnknownOutcomeForStatus for 201, got %v", err)
	}
}

func TestResolve_NoContentDistinctFromEmptyDecode(t *testing.T) {
	table := outcome.Build(
		outcome.Status(204, outcome.NoContent()),
		outcome.Status(200, outcome.Decode()),
	)

	res, err := Resolve(envelopeWith(204, nil), table, BytesTarget())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !res.NoContent {
		t.Error("204 should resolve to the no-content marker")
	}
	if res.Bytes != nil {
		t.Error("no-content result must not carry decoded bytes")
	}

	res, err = Resolve(envelopeWith(200, []byte{}), table, BytesTarget())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NoContent {
		t.Error("a decoded empty byte value is not the no-content marker")
	}
	if res.Bytes == nil || len(res.Bytes) != 0 {
		t.Errorf("expected empty decoded bytes, got %v", res.Bytes)
	}
}

func TestResolve_EmptyBodyFailsForStructuredTarget(t *testing.T) {
	_, err := Resolve(envelopeWith(200, nil), testDecodeTable(), JSONTarget[map[string]any]())
	if !IsResponseError(err, DecodeFailure) {
		t.Fatalf("structured decode of empty body must fail loudly, got %v", err)
	}
}

func TestResolve_TextTarget(t *testing.T) {
	res, err := Resolve(envelopeWith(200, []byte("plain")), testDecodeTable(), TextTarget())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "plain" {
		t.Errorf("text = %q", res.Text)
	}

	_, err = Resolve(envelopeWith(200, []byte{0xff, 0xfe}), testDecodeTable(), TextTarget())
	if !IsResponseError(err, DecodeFailure) {
		t.Fatalf("invalid UTF-8 should fail text decode, got %v", err)
	}
}

type apiFault struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func decodeAPIFault(body []byte) (any, error) {
	var f apiFault
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

func TestResolve_DecodedStructuredError(t *testing.T) {
	table := outcome.Build(
		outcome.Status(200, outcome.Decode()),
		outcome.Range(400, 499, outcome.ErrDecode(decodeAPIFault)),
	)

	body := []byte(`{"code":"quota","message":"limit reached"}`)
	_, err := Resolve(envelopeWith(429, body), table, JSONTarget[map[string]any]())
	if !IsResponseError(err, DecodedStructuredError) {
		t.Fatalf("expected DecodedStructuredError, got %v", err)
	}

	fault, ok := ErrorValueAs[apiFault](err)
	if !ok {
		t.Fatal("typed error value should be retrievable without re-decoding")
	}
	if fault.Code != "quota" {
		t.Errorf("fault = %+v", fault)
	}

	var respErr *ResponseError
	errors.As(err, &respErr)
	if respErr.BodyText() != string(body) {
		t.Error("raw bytes should be retained on the error")
	}
	if !respErr.Retryable() {
		t.Error("429 should classify as retryable")
	}
}

func TestResolve_StructuredErrorDecodeFailure(t *testing.T) {
	table := outcome.Build(outcome.Status(400, outcome.ErrDecode(decodeAPIFault)))

	_, err := Resolve(envelopeWith(400, []byte("not json")), table, BytesTarget())
	if !IsResponseError(err, DecodeFailure) {
		t.Fatalf("a failing error decoder must yield DecodeFailure, got %v", err)
	}
	if IsResponseError(err, DecodedStructuredError) {
		t.Error("decode failure must not take the structured-error path")
	}
}

func TestResolve_CustomResolverOverride(t *testing.T) {
	op := Operation{Resolve: func(env *Envelope) (*Result, error) {
		return &Result{Text: "custom", Envelope: env}, nil
	}}
	c := &Client{}
	res, err := c.resolve(envelopeWith(500, nil), op)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.Text != "custom" {
		t.Errorf("custom resolver ignored, got %+v", res)
	}
}
