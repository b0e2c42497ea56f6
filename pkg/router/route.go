package router

import (
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/pattern"
)

// Route binds a method set and a compiled pattern to a handler. Routes are
// created by Router.Map; their pattern and methods are immutable afterwards,
// only a name and additional per-route middleware may be attached.
type Route struct {
	methods   []string
	methodSet map[string]struct{}
	pattern   string
	compiled  *pattern.Compiled
	handler   common.Handler
	name      string

	// groupMiddleware is captured from the enclosing groups at creation
	// time, outermost group first.
	groupMiddleware []common.Middleware
	middleware      []common.Middleware

	frozen    *atomic.Bool
	buildOnce sync.Once
	built     common.Handler
}

// Name attaches a name to the route for reverse URL generation and returns
// the route for further configuration. It panics with a ConfigurationError
// if the pipeline has already been frozen.
func (rt *Route) Name(name string) *Route {
	rt.checkMutable("name route")
	rt.name = name
	return rt
}

// GetName returns the route's name, or an empty string if unnamed.
func (rt *Route) GetName() string {
	return rt.name
}

// Pattern returns the route's full pattern, group prefixes included.
func (rt *Route) Pattern() string {
	return rt.pattern
}

// Methods returns the HTTP methods the route was registered with.
func (rt *Route) Methods() []string {
	return rt.methods
}

// Use attaches per-route middleware, run after any group middleware and
// before the handler. It panics with a ConfigurationError if the pipeline
// has already been frozen.
func (rt *Route) Use(mws ...common.Middleware) *Route {
	rt.checkMutable("add route middleware")
	rt.middleware = append(rt.middleware, mws...)
	return rt
}

// MatchPath tests the request path against the compiled pattern only,
// ignoring the method. The router uses this to distinguish a 404 miss from a
// 405 miss.
func (rt *Route) MatchPath(path string) (common.Params, bool) {
	captures, ok := rt.compiled.Match(path)
	if !ok {
		return nil, false
	}
	return common.Params(captures), true
}

// Allows reports whether the route accepts the given method. A HEAD request
// is accepted by any route that accepts GET, so GET handlers serve HEAD; the
// caller strips the body.
func (rt *Route) Allows(method string) bool {
	if _, ok := rt.methodSet[method]; ok {
		return true
	}
	if method == http.MethodHead {
		_, ok := rt.methodSet[http.MethodGet]
		return ok
	}
	return false
}

// Handle invokes the route's handler with the request, wrapped in the
// route's middleware: outermost-group middleware first, then inner groups,
// then per-route middleware, then the handler. The composed chain is built
// once and reused across requests.
func (rt *Route) Handle(r *http.Request) (*common.Response, error) {
	rt.buildOnce.Do(func() {
		chain := common.NewMiddlewareChain(rt.groupMiddleware...).Append(rt.middleware...)
		rt.built = chain.Then(rt.handler)
	})
	return rt.built.Handle(r)
}

func (rt *Route) checkMutable(op string) {
	if rt.frozen != nil && rt.frozen.Load() {
		panic(common.NewConfigurationError("cannot %s %q: pipeline already frozen", op, rt.pattern))
	}
}
