// Package common provides shared types and utilities used across the Slim framework.
package common

import (
	"net/http"
)

// Handler processes a request and produces a response. Unlike http.Handler,
// the response travels back as a value so middleware can inspect or replace
// it on the way out, and failures travel as ordinary errors.
type Handler interface {
	Handle(r *http.Request) (*Response, error)
}

// HandlerFunc adapts a plain function to the Handler interface.
type HandlerFunc func(r *http.Request) (*Response, error)

// Handle calls f(r).
func (f HandlerFunc) Handle(r *http.Request) (*Response, error) {
	return f(r)
}

// Middleware is a function that wraps a Handler.
// It allows for pre-processing and post-processing of requests.
// Middleware can be chained together to create a pipeline of request processing.
type Middleware func(Handler) Handler

// Resolver looks up a middleware by its registered name. It is the capability
// the deferred-resolution adapter uses so that string-referenced middleware is
// only materialized when the pipeline first runs, not at registration time.
type Resolver interface {
	Resolve(name string) (Middleware, error)
}
