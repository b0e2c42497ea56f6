package common

import (
	"context"
	"net/http"
)

// Params holds the named captures extracted from a matched route pattern.
type Params map[string]string

// paramsKey is a private context key type to avoid collisions.
type paramsKey struct{}

// WithParams returns a request whose context carries the given route params.
// The router calls this when a route matches so handlers and middleware can
// read the captures.
func WithParams(r *http.Request, p Params) *http.Request {
	return r.WithContext(context.WithValue(r.Context(), paramsKey{}, p))
}

// GetParams retrieves the route params from the request context.
// Returns nil if the request did not pass through a matched route.
func GetParams(r *http.Request) Params {
	p, _ := r.Context().Value(paramsKey{}).(Params)
	return p
}

// GetParam retrieves a single route param by name.
// It's a convenience function that combines GetParams and a map lookup.
func GetParam(r *http.Request, name string) string {
	return GetParams(r)[name]
}
