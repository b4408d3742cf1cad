package client

import (
	"encoding/json"
	"fmt"
	"unicode/utf8"

	"github.com/kbukum/restkit/outcome"
)

// targetKind identifies the declared decode target.
type targetKind int

const (
	targetBytes targetKind = iota
	targetText
	targetJSON
)

// DecodeTarget declares what a successful Decode outcome produces.
type DecodeTarget struct {
	kind     targetKind
	newValue func() any
}

// BytesTarget decodes into the raw body bytes.
func BytesTarget() DecodeTarget { return DecodeTarget{kind: targetBytes} }

// TextTarget decodes into a UTF-8 string.
func TextTarget() DecodeTarget { return DecodeTarget{kind: targetText} }

// JSONTarget decodes into a value of type T via encoding/json.
func JSONTarget[T any]() DecodeTarget {
	return DecodeTarget{kind: targetJSON, newValue: func() any { return new(T) }}
}

// Result is a resolved success. NoContent is distinct from a decoded empty
// value: when set, no decode was attempted and Text/Bytes/Value are unset.
type Result struct {
	// NoContent marks a response the outcome table declared body-less.
	NoContent bool
	// Text holds the decoded body for TextTarget.
	Text string
	// Bytes holds the decoded body for BytesTarget.
	Bytes []byte
	// Value holds the decoded body for JSONTarget (a *T).
	Value any
	// Envelope is the raw response the result was resolved from.
	Envelope *Envelope
}

// ResolveFunc turns a raw envelope into a result or a failure. An
// Operation may install one to override the default resolver.
type ResolveFunc func(env *Envelope) (*Result, error)

// Resolve applies the outcome table and decode target to a raw envelope.
func Resolve(env *Envelope, table *outcome.Table, target DecodeTarget) (*Result, error) {
	if env == nil || !env.HasStatus {
		return nil, newResponseError(UnknownResponseKind, env)
	}
	if table == nil {
		return nil, newResponseError(UnknownOutcomeForStatus, env)
	}
	o, ok := table.Lookup(env.StatusCode)
	if !ok {
		return nil, newResponseError(UnknownOutcomeForStatus, env)
	}

	switch o.Kind() {
	case outcome.KindNoContent:
		return &Result{NoContent: true, Envelope: env}, nil

	case outcome.KindDecode:
		return decodeTarget(env, target)

	case outcome.KindError:
		e := newResponseError(PredefinedError, env)
		e.Wrapped = o.Predefined()
		return nil, e

	case outcome.KindErrorDecode:
		v, err := o.Decoder()(env.Body)
		if err != nil {
			e := newResponseError(DecodeFailure, env)
			e.Diag = fmt.Errorf("decode error body: %w", err)
			return nil, e
		}
		e := newResponseError(DecodedStructuredError, env)
		e.Value = v
		return nil, e

	default:
		return nil, newResponseError(UnknownOutcomeForStatus, env)
	}
}

func decodeTarget(env *Envelope, target DecodeTarget) (*Result, error) {
	switch target.kind {
	case targetText:
		if !utf8.Valid(env.Body) {
			e := newResponseError(DecodeFailure, env)
			e.Diag = fmt.Errorf("body is not valid UTF-8")
			return nil, e
		}
		return &Result{Text: string(env.Body), Envelope: env}, nil

	case targetJSON:
		v := target.newValue()
		if err := json.Unmarshal(env.Body, v); err != nil {
			e := newResponseError(DecodeFailure, env)
			e.Diag = fmt.Errorf("decode body: %w", err)
			return nil, e
		}
		return &Result{Value: v, Envelope: env}, nil

	default:
		data := make([]byte, len(env.Body))
		copy(data, env.Body)
		return &Result{Bytes: data, Envelope: env}, nil
	}
}
