// Package chain implements the middleware pipeline: an ordered list of
// middleware composed once into a single nested handler with the router's
// dispatch step innermost.
package chain

import (
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/resolve"
)

// MiddlewareTypeError reports a value passed to Add that is neither a
// recognized middleware value nor a resolvable reference. It is fatal at
// registration time.
type MiddlewareTypeError struct {
	Value any
}

// Error implements the error interface.
func (e *MiddlewareTypeError) Error() string {
	return fmt.Sprintf("value of type %T is not a middleware", e.Value)
}

// Runner holds the ordered middleware stack and composes it lazily into a
// single handler. The first middleware added is the outermost wrapper; the
// terminal handler (the router) is innermost.
//
// The composition happens exactly once, on the first Handle call, guarded so
// concurrent first requests neither build the chain twice nor observe a
// partially built one. Once built the chain is immutable: a later Add fails
// with a ConfigurationError rather than silently doing nothing.
type Runner struct {
	mu       sync.Mutex
	stack    []common.Middleware
	terminal common.Handler
	resolver common.Resolver

	frozen atomic.Bool
	once   sync.Once
	built  common.Handler
}

// New creates a Runner around the given terminal handler. The resolver is
// used to look up string-referenced middleware; it may be nil, in which case
// Add rejects strings.
func New(terminal common.Handler, resolver common.Resolver) *Runner {
	return &Runner{terminal: terminal, resolver: resolver}
}

// Add appends middleware to the stack. It accepts the middleware type
// itself, a bare function of the same shape, a string naming a middleware to
// resolve lazily through the resolver, or any value exposing a Middleware
// method (such as the deferred-resolution adapter). The heterogeneous input
// is normalized here, once, so dispatch never branches on type.
func (r *Runner) Add(v any) error {
	mw, err := r.normalize(v)
	if err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return common.NewConfigurationError("cannot add middleware: pipeline already frozen")
	}
	r.stack = append(r.stack, mw)
	return nil
}

// Use appends already-typed middleware to the stack. It is the fast path
// for callers that do not need Add's normalization.
func (r *Runner) Use(mws ...common.Middleware) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.frozen.Load() {
		return common.NewConfigurationError("cannot add middleware: pipeline already frozen")
	}
	r.stack = append(r.stack, mws...)
	return nil
}

// Handle runs the request through the composed pipeline. The first call
// builds and freezes the chain; every call, first included, then invokes the
// cached chain.
func (r *Runner) Handle(req *http.Request) (*common.Response, error) {
	r.once.Do(r.build)
	return r.built.Handle(req)
}

// Frozen reports whether the chain has been built.
func (r *Runner) Frozen() bool {
	return r.frozen.Load()
}

// Len returns the number of middleware currently in the stack.
func (r *Runner) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.stack)
}

func (r *Runner) build() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen.Store(true)
	r.built = common.NewMiddlewareChain(r.stack...).Then(r.terminal)
}

func (r *Runner) normalize(v any) (common.Middleware, error) {
	switch m := v.(type) {
	case common.Middleware:
		return m, nil
	case func(common.Handler) common.Handler:
		return m, nil
	case string:
		if r.resolver == nil {
			return nil, common.NewConfigurationError("middleware %q: no resolver configured", m)
		}
		return resolve.NewDeferred(m, r.resolver).Middleware(), nil
	case interface{ Middleware() common.Middleware }:
		return m.Middleware(), nil
	default:
		return nil, &MiddlewareTypeError{Value: v}
	}
}
