package client

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// CredentialSource is the external collaborator that produces a fresh
// credential.
type CredentialSource interface {
	Refresh(ctx context.Context) (string, error)
}

// CredentialSourceFunc adapts a function to the CredentialSource interface.
type CredentialSourceFunc func(ctx context.Context) (string, error)

// Refresh calls the function.
func (f CredentialSourceFunc) Refresh(ctx context.Context) (string, error) { return f(ctx) }

// RefreshCoordinator single-flights credential refreshes: any number of
// concurrent triggers cause exactly one CredentialSource invocation, and
// every waiter observes the same credential or the same failure. A waiter
// whose context is cancelled stops waiting without cancelling the
// in-flight refresh for the others.
type RefreshCoordinator struct {
	source CredentialSource

	group singleflight.Group

	mu      sync.RWMutex
	current string
}

// NewRefreshCoordinator creates a coordinator over the given source.
func NewRefreshCoordinator(source CredentialSource) *RefreshCoordinator {
	return &RefreshCoordinator{source: source}
}

// Credential returns the most recently refreshed credential, or "" before
// the first successful refresh.
func (c *RefreshCoordinator) Credential() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.current
}

// Refresh joins (or starts) the single in-flight refresh and waits for its
// result.
func (c *RefreshCoordinator) Refresh(ctx context.Context) (string, error) {
	ch := c.group.DoChan("credential", func() (any, error) {
		// The refresh outlives any individual waiter's cancellation:
		// other waiters still need its result.
		cred, err := c.source.Refresh(context.WithoutCancel(ctx))
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.current = cred
		c.mu.Unlock()
		return cred, nil
	})

	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(string), nil
	}
}

const defaultRefreshRetryDelay = 50 * time.Millisecond

// AuthRefreshInterceptor reacts to authentication failures (HTTP 401) by
// refreshing the credential through a shared RefreshCoordinator and
// retrying the request with a rewritten Authorization header.
type AuthRefreshInterceptor struct {
	// Coordinator is the shared single-flight refresh coordinator.
	Coordinator *RefreshCoordinator
	// MaxAttempts bounds how many attempts may trigger a refresh.
	// Defaults to 1: one refresh-and-retry per logical request.
	MaxAttempts int
	// Delay is the pause before the retried attempt. Defaults to 50ms.
	Delay time.Duration
}

// Adapt passes the request through unchanged; the rewrite happens on the
// retry decision, once a fresh credential exists.
func (a *AuthRefreshInterceptor) Adapt(_ context.Context, req *WireRequest) (*WireRequest, error) {
	return req, nil
}

// Decide triggers a refresh for 401 responses within the attempt ceiling.
func (a *AuthRefreshInterceptor) Decide(ctx context.Context, req *WireRequest, err error, attempt int) Decision {
	maxAttempts := a.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}
	if attempt > maxAttempts {
		return DoNotRetry()
	}

	var respErr *ResponseError
	if !errors.As(err, &respErr) {
		return DoNotRetry()
	}
	code, ok := respErr.StatusCode()
	if !ok || code != http.StatusUnauthorized {
		return DoNotRetry()
	}

	cred, refreshErr := a.Coordinator.Refresh(ctx)
	if refreshErr != nil {
		return DoNotRetry()
	}

	delay := a.Delay
	if delay <= 0 {
		delay = defaultRefreshRetryDelay
	}
	modified := req.Clone()
	modified.Header.Set("Authorization", "Bearer "+cred)
	return RetryWith(modified, delay)
}
