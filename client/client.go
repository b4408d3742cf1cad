package client

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/kbukum/restkit/logger"
	"github.com/kbukum/restkit/outcome"
)

const tracerName = "github.com/kbukum/restkit/client"

// Operation is the declarative definition an Interface binds to a call:
// the status outcome table, the decode target, and an optional resolver
// override.
type Operation struct {
	// Outcomes maps status codes to declared outcomes.
	Outcomes *outcome.Table
	// Target declares what a Decode outcome produces.
	Target DecodeTarget
	// Resolve, when set, replaces the default resolver entirely.
	Resolve ResolveFunc
}

// Client drives the request execution state machine:
// build -> adapt -> execute -> resolve -> decide -> (retry | terminate).
// One Client may serve many concurrent logical requests; the only shared
// mutable state lives behind interceptors such as the refresh coordinator.
type Client struct {
	config       Config
	transport    Transport
	builder      *Builder
	interceptors []Interceptor
	log          *logger.Logger
	tracer       trace.Tracer
}

// Option configures a Client.
type Option func(*Client)

// WithTransport replaces the default net/http transport.
func WithTransport(t Transport) Option {
	return func(c *Client) { c.transport = t }
}

// WithInterceptors appends interceptors in registration order.
func WithInterceptors(is ...Interceptor) Option {
	return func(c *Client) { c.interceptors = append(c.interceptors, is...) }
}

// WithLogger sets the structured logger. The default discards everything.
func WithLogger(l *logger.Logger) Option {
	return func(c *Client) { c.log = l }
}

// WithBuilder replaces the request builder, e.g. to override single stages.
func WithBuilder(b *Builder) Option {
	return func(c *Client) { c.builder = b }
}

// New creates a client over the given server configuration.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Client{
		config:    cfg,
		transport: NewHTTPTransport(nil),
		builder:   &Builder{},
		log:       logger.Nop(),
		tracer:    otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Config returns the client's server configuration.
func (c *Client) Config() Config { return c.config }

// Do executes one logical request until it succeeds, an attempt fails with
// no interceptor granting a retry, or the context is cancelled. The
// coordinator imposes no retry ceiling of its own: termination under an
// unbounded-retry interceptor is the caller's responsibility.
func (c *Client) Do(ctx context.Context, desc Descriptor, op Operation) (*Result, error) {
	ctx, span := c.tracer.Start(ctx, "restkit.call",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.request.method", desc.Method),
			attribute.String("url.path", desc.Path),
		))
	defer span.End()

	log := c.log.WithFields(map[string]any{
		logger.FieldRequestID: uuid.NewString(),
		logger.FieldMethod:    desc.Method,
		logger.FieldPath:      desc.Path,
	})

	// A retry-modified request skips rebuilding and goes straight to
	// adaptation on the next attempt.
	var pending *WireRequest

	for attempt := 1; ; attempt++ {
		span.AddEvent("attempt", trace.WithAttributes(attribute.Int("restkit.attempt", attempt)))

		wire := pending
		pending = nil
		if wire == nil {
			var err error
			wire, err = c.builder.Build(&c.config, &desc)
			if err != nil {
				// Assembly failures signal a caller or configuration
				// defect; they skip deciding entirely.
				span.RecordError(err)
				span.SetStatus(codes.Error, "request assembly failed")
				log.Debug("request assembly failed", map[string]any{logger.FieldError: err.Error()})
				return nil, err
			}
		}

		adapted, err := c.adapt(ctx, wire)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "interceptor adaptation failed")
			return nil, err
		}

		var attemptErr error
		env, execErr := c.transport.Execute(ctx, adapted)
		if execErr != nil {
			attemptErr = execErr
		} else {
			res, resolveErr := c.resolve(env, op)
			if resolveErr == nil {
				log.Debug("call succeeded", map[string]any{logger.FieldAttempt: attempt})
				span.SetStatus(codes.Ok, "")
				return res, nil
			}
			attemptErr = resolveErr
		}

		decision := c.decide(ctx, adapted, attemptErr, attempt)
		if !decision.Retry() {
			log.Debug("call failed", map[string]any{
				logger.FieldAttempt: attempt,
				logger.FieldError:   attemptErr.Error(),
			})
			span.RecordError(attemptErr)
			span.SetStatus(codes.Error, "attempt failed")
			// The original resolver/transport error propagates unwrapped.
			return nil, attemptErr
		}

		log.Debug("retrying", map[string]any{
			logger.FieldAttempt: attempt,
			logger.FieldDelay:   decision.Delay().String(),
			logger.FieldError:   attemptErr.Error(),
		})
		if err := sleepContext(ctx, decision.Delay()); err != nil {
			span.SetStatus(codes.Error, "cancelled during backoff")
			return nil, err
		}
		pending = decision.Request()
	}
}

// adapt passes the request through every interceptor in registration order.
func (c *Client) adapt(ctx context.Context, req *WireRequest) (*WireRequest, error) {
	for _, ic := range c.interceptors {
		var err error
		req, err = ic.Adapt(ctx, req)
		if err != nil {
			return nil, err
		}
	}
	return req, nil
}

// decide asks each interceptor in order; the first retry decision wins.
func (c *Client) decide(ctx context.Context, req *WireRequest, err error, attempt int) Decision {
	for _, ic := range c.interceptors {
		if d := ic.Decide(ctx, req, err, attempt); d.Retry() {
			return d
		}
	}
	return DoNotRetry()
}

func (c *Client) resolve(env *Envelope, op Operation) (*Result, error) {
	if op.Resolve != nil {
		return op.Resolve(env)
	}
	return Resolve(env, op.Outcomes, op.Target)
}

// sleepContext waits for the given delay or the context, whichever ends
// first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
