// Package router provides route registration, group-prefix composition,
// pattern compilation and caching, and dispatch-time matching for the Slim
// framework.
package router

import (
	"net/http"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/pattern"
	"go.uber.org/zap"
)

// Router owns the collection of routes and the active group stack. It
// exposes registration (Map and the method sugar) and dispatch (Match), and
// optionally persists compiled route data to a cache file.
//
// Registration is a single-threaded setup phase; once the pipeline freezes
// (at the first dispatched request) the route table is read-only and safe
// for concurrent dispatch.
type Router struct {
	logger     *zap.Logger
	routes     []*Route
	groupStack []*group

	cacheFile  string
	cached     map[string]pattern.Data
	writeCache bool

	frozen     atomic.Bool
	freezeOnce sync.Once
	freezeErr  error
}

// New creates a Router. A nil logger is replaced with a no-op logger.
func New(logger *zap.Logger) *Router {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Router{logger: logger}
}

// Map registers a route for the given methods and pattern. The effective
// pattern is the concatenation of the open group prefixes and the given
// pattern. The returned route can be configured further (naming, per-route
// middleware). Registration fails with a ConfigurationError if the method
// set is empty, the handler is nil, the pattern does not compile, or the
// pipeline has already been frozen.
func (r *Router) Map(methods []string, pat string, handler common.Handler) (*Route, error) {
	if r.frozen.Load() {
		return nil, common.NewConfigurationError("cannot map %q: pipeline already frozen", pat)
	}
	if len(methods) == 0 {
		return nil, common.NewConfigurationError("cannot map %q: empty method set", pat)
	}
	if handler == nil {
		return nil, common.NewConfigurationError("cannot map %q: nil handler", pat)
	}

	prefix, groupMW := r.scope()
	full := prefix + pat

	compiled, err := r.compile(full)
	if err != nil {
		return nil, &common.ConfigurationError{Msg: "cannot map " + full, Err: err}
	}

	normalized := make([]string, 0, len(methods))
	methodSet := make(map[string]struct{}, len(methods))
	for _, m := range methods {
		m = strings.ToUpper(m)
		if _, dup := methodSet[m]; dup {
			continue
		}
		methodSet[m] = struct{}{}
		normalized = append(normalized, m)
	}

	route := &Route{
		methods:         normalized,
		methodSet:       methodSet,
		pattern:         full,
		compiled:        compiled,
		handler:         handler,
		groupMiddleware: groupMW,
		frozen:          &r.frozen,
	}
	r.routes = append(r.routes, route)

	r.logger.Debug("Route registered",
		zap.Strings("methods", normalized),
		zap.String("pattern", full),
	)
	return route, nil
}

// Get registers a GET route. HEAD requests are served by GET routes with the
// response body stripped.
func (r *Router) Get(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodGet}, pat, h)
}

// Post registers a POST route.
func (r *Router) Post(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodPost}, pat, h)
}

// Put registers a PUT route.
func (r *Router) Put(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodPut}, pat, h)
}

// Patch registers a PATCH route.
func (r *Router) Patch(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodPatch}, pat, h)
}

// Delete registers a DELETE route.
func (r *Router) Delete(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodDelete}, pat, h)
}

// Options registers an OPTIONS route.
func (r *Router) Options(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodOptions}, pat, h)
}

// Head registers a HEAD-only route.
func (r *Router) Head(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{http.MethodHead}, pat, h)
}

// Any registers a route answering every common HTTP method.
func (r *Router) Any(pat string, h common.HandlerFunc) (*Route, error) {
	return r.Map([]string{
		http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch,
		http.MethodDelete, http.MethodOptions, http.MethodHead,
	}, pat, h)
}

// Redirect registers a GET route on from that responds with a redirect to
// target. A zero status defaults to 302 Found.
func (r *Router) Redirect(from, target string, status int) (*Route, error) {
	if status == 0 {
		status = http.StatusFound
	}
	if status < 300 || status > 399 {
		return nil, common.NewConfigurationError("redirect %q: status %d is not a redirect status", from, status)
	}
	return r.Map([]string{http.MethodGet}, from, common.HandlerFunc(func(*http.Request) (*common.Response, error) {
		return common.RedirectResponse(status, target), nil
	}))
}

// Match finds the route for a method and path. Routes are tried in
// registration order; the first whose pattern and method both match wins.
// If at least one pattern matches the path but none with this method, the
// result is a MethodNotAllowedError aggregating the allowed methods of every
// path-matching route. If no pattern matches at all, the result is a
// NotFoundError. The two cases are deliberately distinct: HTTP semantics
// require 405 with an Allow header for the former and 404 for the latter.
func (r *Router) Match(method, path string) (*Route, common.Params, error) {
	method = strings.ToUpper(method)
	allowed := make(map[string]struct{})
	pathMatched := false

	for _, rt := range r.routes {
		params, ok := rt.MatchPath(path)
		if !ok {
			continue
		}
		if rt.Allows(method) {
			return rt, params, nil
		}
		pathMatched = true
		for _, m := range rt.methods {
			allowed[m] = struct{}{}
		}
	}

	if pathMatched {
		methods := make([]string, 0, len(allowed))
		for m := range allowed {
			methods = append(methods, m)
		}
		sort.Strings(methods)
		return nil, nil, &MethodNotAllowedError{Method: method, Path: path, Allowed: methods}
	}
	return nil, nil, &NotFoundError{Method: method, Path: path}
}

// PathFor generates a concrete path for the named route from the given
// arguments, using the route's reverse template.
func (r *Router) PathFor(name string, args map[string]string) (string, error) {
	for _, rt := range r.routes {
		if rt.name == name {
			return rt.compiled.BuildPath(args)
		}
	}
	return "", common.NewConfigurationError("no route named %q", name)
}

// Routes returns the registered routes in registration order.
func (r *Router) Routes() []*Route {
	return r.routes
}

// Dispatcher returns the router's dispatch step as a Handler, suitable as
// the terminal element of a middleware chain. The first invocation freezes
// the pipeline: registration is complete, the route table becomes read-only,
// and the route cache is persisted if configured.
func (r *Router) Dispatcher() common.Handler {
	return common.HandlerFunc(func(req *http.Request) (*common.Response, error) {
		if err := r.Freeze(); err != nil {
			return nil, err
		}

		rt, params, err := r.Match(req.Method, req.URL.Path)
		if err != nil {
			return nil, err
		}
		return rt.Handle(common.WithParams(req, params))
	})
}

// Freeze ends the registration phase. It is idempotent and safe for
// concurrent callers; only the first call does work. Freezing fails if a
// group callback is still open, which indicates dispatch began during setup.
func (r *Router) Freeze() error {
	r.freezeOnce.Do(func() {
		if len(r.groupStack) != 0 {
			r.freezeErr = common.NewConfigurationError("dispatch started with %d group(s) still open", len(r.groupStack))
			return
		}
		r.frozen.Store(true)
		if r.writeCache {
			if err := r.saveCache(); err != nil {
				// A failed cache write costs the next startup a recompile,
				// nothing more.
				r.logger.Error("Failed to write route cache",
					zap.String("file", r.cacheFile),
					zap.Error(err),
				)
			}
		}
	})
	return r.freezeErr
}
