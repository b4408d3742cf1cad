package client

import (
	"context"
	"math"
	"math/rand"
	"time"
)

const (
	defaultInitialBackoff = 100 * time.Millisecond
	defaultMaxBackoff     = 10 * time.Second
	defaultBackoffFactor  = 2.0
)

// BackoffInterceptor retries failed attempts with exponential backoff. It
// bounds only its own attempts; the coordinator itself has no ceiling, so
// callers relying on termination must register a bounding interceptor
// such as this one.
type BackoffInterceptor struct {
	// MaxRetries is how many retries this interceptor will grant. With
	// MaxRetries=2 a call makes at most 3 attempts.
	MaxRetries int
	// InitialBackoff is the delay before the first retry. Defaults to 100ms.
	InitialBackoff time.Duration
	// MaxBackoff caps the delay. Defaults to 10s.
	MaxBackoff time.Duration
	// BackoffFactor is the exponential multiplier. Defaults to 2.0.
	BackoffFactor float64
	// Jitter adds +/- Jitter*delay randomness (0.0 to 1.0).
	Jitter float64
	// RetryIf decides whether an error is worth retrying. Defaults to
	// IsRetryable (5xx, 429, and transport failures).
	RetryIf func(error) bool
}

// Adapt passes the request through unchanged.
func (b *BackoffInterceptor) Adapt(_ context.Context, req *WireRequest) (*WireRequest, error) {
	return req, nil
}

// Decide grants a retry while the attempt number is within MaxRetries and
// the error classifies as retryable.
func (b *BackoffInterceptor) Decide(_ context.Context, _ *WireRequest, err error, attempt int) Decision {
	if attempt > b.MaxRetries {
		return DoNotRetry()
	}
	retryIf := b.RetryIf
	if retryIf == nil {
		retryIf = IsRetryable
	}
	if !retryIf(err) {
		return DoNotRetry()
	}
	return RetryAfter(b.backoff(attempt))
}

// backoff computes the delay before the retry following the given attempt:
// initial * factor^(attempt-1), jittered, capped.
func (b *BackoffInterceptor) backoff(attempt int) time.Duration {
	initial := b.InitialBackoff
	if initial <= 0 {
		initial = defaultInitialBackoff
	}
	maxBackoff := b.MaxBackoff
	if maxBackoff <= 0 {
		maxBackoff = defaultMaxBackoff
	}
	factor := b.BackoffFactor
	if factor <= 0 {
		factor = defaultBackoffFactor
	}

	d := float64(initial) * math.Pow(factor, float64(attempt-1))

	if b.Jitter > 0 {
		jitterRange := d * b.Jitter
		d += (rand.Float64()*2 - 1) * jitterRange
	}

	if d > float64(maxBackoff) {
		d = float64(maxBackoff)
	}
	if d < 0 {
		d = float64(initial)
	}
	return time.Duration(d)
}
