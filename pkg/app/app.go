// Package app wires the Slim core together: a router, a middleware pipeline
// with the router as its terminal element, and the HTTP edge that emits
// response values onto the wire.
package app

import (
	"errors"
	"net/http"

	"github.com/Qwerty0x64/Slim/pkg/chain"
	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/router"
	"go.uber.org/zap"
)

// Config defines the configuration for an App. There is no ambient global
// state; everything the core needs arrives here.
type Config struct {
	Logger         *zap.Logger         // Logger for all framework operations
	RouteCacheFile string              // Optional file for persisting compiled route data
	Middlewares    []common.Middleware // Global middlewares applied to all routes
	Resolver       common.Resolver     // Optional lookup for string-referenced middleware
}

// App is the application entry point. Requests pass through the middleware
// pipeline outer-to-inner, reach the router's dispatch step, and the
// response flows back out through each middleware.
type App struct {
	config Config
	logger *zap.Logger
	router *router.Router
	runner *chain.Runner
}

// New creates an App from the given configuration.
func New(config Config) (*App, error) {
	// Set up the logger
	logger := config.Logger
	if logger == nil {
		// Create a default logger if none is provided
		var err error
		logger, err = zap.NewProduction()
		if err != nil {
			// Fallback to a no-op logger if we can't create a production logger
			logger = zap.NewNop()
		}
	}

	rt := router.New(logger)
	if config.RouteCacheFile != "" {
		if err := rt.SetCacheFile(config.RouteCacheFile); err != nil {
			return nil, err
		}
	}

	runner := chain.New(rt.Dispatcher(), config.Resolver)
	if err := runner.Use(config.Middlewares...); err != nil {
		return nil, err
	}

	return &App{
		config: config,
		logger: logger,
		router: rt,
		runner: runner,
	}, nil
}

// Router returns the underlying router for direct access.
func (a *App) Router() *router.Router {
	return a.router
}

// Use appends middleware to the pipeline. It accepts a common.Middleware, a
// bare function of the same shape, a string naming a middleware resolved
// through the configured resolver when the pipeline first runs, or any value
// with a Middleware method. Adding middleware after the first request has
// been handled fails with a ConfigurationError.
func (a *App) Use(v any) error {
	return a.runner.Add(v)
}

// Map registers a route for the given methods and pattern.
func (a *App) Map(methods []string, pattern string, h common.Handler) (*router.Route, error) {
	return a.router.Map(methods, pattern, h)
}

// Get registers a GET route.
func (a *App) Get(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Get(pattern, h)
}

// Post registers a POST route.
func (a *App) Post(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Post(pattern, h)
}

// Put registers a PUT route.
func (a *App) Put(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Put(pattern, h)
}

// Patch registers a PATCH route.
func (a *App) Patch(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Patch(pattern, h)
}

// Delete registers a DELETE route.
func (a *App) Delete(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Delete(pattern, h)
}

// Options registers an OPTIONS route.
func (a *App) Options(pattern string, h common.HandlerFunc) (*router.Route, error) {
	return a.router.Options(pattern, h)
}

// Group opens a registration scope with a path prefix and optional
// group-level middleware; see Router.Group.
func (a *App) Group(prefix string, fn func(*router.Router), mws ...common.Middleware) error {
	return a.router.Group(prefix, fn, mws...)
}

// Redirect registers a redirecting route; see Router.Redirect.
func (a *App) Redirect(from, target string, status int) (*router.Route, error) {
	return a.router.Redirect(from, target, status)
}

// PathFor generates a path for a named route; see Router.PathFor.
func (a *App) PathFor(name string, args map[string]string) (string, error) {
	return a.router.PathFor(name, args)
}

// Handle runs a request through the pipeline and returns the response. It is
// a pure function of the request and the registered pipeline state, which
// makes it the entry point for tests and embedding code.
//
// For HEAD requests the response body is forced empty regardless of what the
// matched handler produced, since GET handlers are reused for HEAD.
func (a *App) Handle(r *http.Request) (*common.Response, error) {
	res, err := a.runner.Handle(r)
	if err != nil {
		return nil, err
	}
	if r.Method == http.MethodHead {
		res = res.WithBody(nil)
	}
	return res, nil
}

// ServeHTTP implements http.Handler. It calls Handle and emits the outcome:
// the response on success, a 404 for an unmatched path, a 405 with an Allow
// header for a matched path with the wrong method, and a 500 for anything
// else. Applications wanting different error rendering register a middleware
// that converts errors into responses before they reach this edge.
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	res, err := a.Handle(r)
	if err != nil {
		a.emitError(w, r, err)
		return
	}
	if err := res.Write(w); err != nil {
		a.logger.Error("Failed to write response",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
	}
}

func (a *App) emitError(w http.ResponseWriter, r *http.Request, err error) {
	var notFound *router.NotFoundError
	var notAllowed *router.MethodNotAllowedError

	switch {
	case errors.As(err, &notFound):
		a.logger.Debug("Route not found",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
		)
		http.Error(w, "404 Not Found", http.StatusNotFound)
	case errors.As(err, &notAllowed):
		a.logger.Debug("Method not allowed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Strings("allowed", notAllowed.Allowed),
		)
		w.Header().Set("Allow", notAllowed.AllowHeader())
		http.Error(w, "405 Method Not Allowed", http.StatusMethodNotAllowed)
	default:
		a.logger.Error("Request failed",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Error(err),
		)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
	}
}
