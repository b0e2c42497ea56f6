// Package resolve provides name-based middleware lookup: a small service
// container and a deferred-resolution adapter that defers the lookup of a
// string-referenced middleware until the pipeline first runs.
package resolve

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/Qwerty0x64/Slim/pkg/common"
)

// ResolutionError reports a middleware identifier that could not be resolved
// to a concrete middleware. It is a configuration bug, fatal, never a
// per-request recoverable condition.
type ResolutionError struct {
	Name string
}

// Error implements the error interface.
func (e *ResolutionError) Error() string {
	return fmt.Sprintf("cannot resolve middleware %q", e.Name)
}

// Container is a name-keyed middleware registry implementing
// common.Resolver. Lookups prefer a registered instance over a registered
// constructor.
type Container struct {
	mu           sync.RWMutex
	services     map[string]common.Middleware
	constructors map[string]func() common.Middleware
}

// NewContainer creates an empty Container.
func NewContainer() *Container {
	return &Container{
		services:     make(map[string]common.Middleware),
		constructors: make(map[string]func() common.Middleware),
	}
}

// Register binds a middleware instance to a name, replacing any previous
// binding.
func (c *Container) Register(name string, mw common.Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.services[name] = mw
}

// RegisterConstructor binds a zero-argument constructor to a name. The
// constructor runs when the name is first resolved, not at registration.
func (c *Container) RegisterConstructor(name string, fn func() common.Middleware) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.constructors[name] = fn
}

// Resolve implements common.Resolver. A registered instance wins over a
// constructor of the same name; an unknown name is a ResolutionError.
func (c *Container) Resolve(name string) (common.Middleware, error) {
	c.mu.RLock()
	mw, ok := c.services[name]
	fn, ctorOK := c.constructors[name]
	c.mu.RUnlock()

	if ok {
		return mw, nil
	}
	if ctorOK {
		return fn(), nil
	}
	return nil, &ResolutionError{Name: name}
}

// Deferred wraps a string middleware identifier so the concrete middleware
// is looked up from the resolver only when the pipeline is first invoked,
// not at registration time. Resolution happens at most once per adapter;
// both the outcome and the wrapped handler are memoized, so requests reusing
// the built chain never re-resolve.
type Deferred struct {
	name     string
	resolver common.Resolver

	once sync.Once
	mw   common.Middleware
	err  error
}

// NewDeferred creates an adapter for the given identifier and resolver.
func NewDeferred(name string, resolver common.Resolver) *Deferred {
	return &Deferred{name: name, resolver: resolver}
}

// Name returns the wrapped identifier.
func (d *Deferred) Name() string {
	return d.name
}

// Middleware returns the adapter as a middleware usable in a chain. A failed
// resolution surfaces as an error from the handler on every request; it is
// never silently skipped.
func (d *Deferred) Middleware() common.Middleware {
	return func(next common.Handler) common.Handler {
		var (
			wrapOnce sync.Once
			wrapped  common.Handler
		)
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			wrapOnce.Do(func() {
				if mw, err := d.resolve(); err == nil {
					wrapped = mw(next)
				}
			})
			if d.err != nil {
				return nil, d.err
			}
			return wrapped.Handle(r)
		})
	}
}

func (d *Deferred) resolve() (common.Middleware, error) {
	d.once.Do(func() {
		d.mw, d.err = d.resolver.Resolve(d.name)
	})
	return d.mw, d.err
}
