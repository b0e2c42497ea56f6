package router

import (
	"fmt"
	"strings"
)

// NotFoundError is returned from dispatch when no registered pattern matches
// the request path. Callers convert it to a 404-style outcome; the core does
// not hard-code an HTTP response for it.
type NotFoundError struct {
	Method string
	Path   string
}

// Error implements the error interface.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no route matches %s %s", e.Method, e.Path)
}

// MethodNotAllowedError is returned from dispatch when at least one pattern
// matches the request path but none with the request method. It carries the
// aggregated set of methods allowed for that path so a caller can emit an
// Allow header.
type MethodNotAllowedError struct {
	Method  string
	Path    string
	Allowed []string
}

// Error implements the error interface.
func (e *MethodNotAllowedError) Error() string {
	return fmt.Sprintf("method %s not allowed for %s (allowed: %s)", e.Method, e.Path, e.AllowHeader())
}

// AllowHeader returns the allowed method set formatted as an Allow header
// value.
func (e *MethodNotAllowedError) AllowHeader() string {
	return strings.Join(e.Allowed, ", ")
}
