package client

import (
	"context"
	"time"
)

// Interceptor is a pluggable collaborator in the attempt state machine.
// Adapt runs before every transport execution in registration order and
// may rewrite the outbound request. Decide runs after a failed attempt;
// the first interceptor that answers with a retry decision wins.
type Interceptor interface {
	Adapt(ctx context.Context, req *WireRequest) (*WireRequest, error)
	Decide(ctx context.Context, req *WireRequest, err error, attempt int) Decision
}

type decisionKind int

const (
	decideNoRetry decisionKind = iota
	decideRetry
	decideRetryModified
)

// Decision is an interceptor's answer to a failed attempt.
type Decision struct {
	kind    decisionKind
	delay   time.Duration
	request *WireRequest
}

// DoNotRetry declines to retry.
func DoNotRetry() Decision { return Decision{kind: decideNoRetry} }

// RetryAfter retries the same request after a delay.
func RetryAfter(delay time.Duration) Decision {
	return Decision{kind: decideRetry, delay: delay}
}

// RetryWith retries a modified request after a delay. The next attempt
// skips rebuilding and goes straight to adaptation with req.
func RetryWith(req *WireRequest, delay time.Duration) Decision {
	return Decision{kind: decideRetryModified, delay: delay, request: req}
}

// Retry reports whether the decision asks for another attempt.
func (d Decision) Retry() bool { return d.kind != decideNoRetry }

// Delay returns the requested inter-attempt delay.
func (d Decision) Delay() time.Duration { return d.delay }

// Request returns the modified request for RetryWith decisions, or nil.
func (d Decision) Request() *WireRequest { return d.request }
