// Package client is the request/response execution pipeline of a
// declarative HTTP client: a seven-stage request builder, a body codec, a
// status-outcome-driven response resolver, and an interceptor-driven retry
// state machine with a single-flight credential refresh coordinator.
//
// The actual network exchange is delegated to a Transport collaborator;
// the default wraps net/http.
//
// # Basic usage
//
//	c, err := client.New(client.Config{
//	    BaseURL:    "https://api.example.com",
//	    Credential: "secret",
//	})
//
//	user, err := client.Get[User](ctx, c, "/users/123")
//
// # Declarative outcomes and retry
//
//	table := outcome.Build(
//	    outcome.Status(200, outcome.Decode()),
//	    outcome.Status(404, outcome.Err(ErrNotFound)),
//	    outcome.Range(500, 599, outcome.Decode()),
//	)
//
//	c, err := client.New(cfg,
//	    client.WithInterceptors(&client.BackoffInterceptor{MaxRetries: 2}),
//	)
//	res, err := c.Do(ctx, client.Descriptor{
//	    Method: http.MethodGet,
//	    Path:   "/users/123",
//	    Auth:   client.AuthBearer,
//	}, client.Operation{Outcomes: table, Target: client.JSONTarget[User]()})
package client
