package router

import (
	"github.com/Qwerty0x64/Slim/pkg/common"
)

// group is a transient registration scope. It exists on the router's group
// stack only while its setup callback runs; every route created during that
// window captures the accumulated prefix and middleware of all enclosing
// groups.
type group struct {
	prefix     string
	middleware []common.Middleware
}

// Group pushes a registration scope with the given path prefix, invokes fn
// so nested registrations occur inside it, then pops the scope. Groups nest:
// an inner group's effective prefix is the concatenation of all enclosing
// prefixes. Any middleware given here runs before middleware of inner groups
// and before per-route middleware, for every route registered inside fn.
func (r *Router) Group(prefix string, fn func(*Router), mws ...common.Middleware) error {
	if r.frozen.Load() {
		return common.NewConfigurationError("cannot open group %q: pipeline already frozen", prefix)
	}
	if fn == nil {
		return common.NewConfigurationError("group %q: setup callback is nil", prefix)
	}

	r.groupStack = append(r.groupStack, &group{prefix: prefix, middleware: mws})
	defer func() {
		r.groupStack = r.groupStack[:len(r.groupStack)-1]
	}()
	fn(r)
	return nil
}

// scope returns the accumulated prefix and middleware of the currently open
// groups, outermost first. Outside a Group callback both are empty.
func (r *Router) scope() (string, []common.Middleware) {
	if len(r.groupStack) == 0 {
		return "", nil
	}
	prefix := ""
	var mws []common.Middleware
	for _, g := range r.groupStack {
		prefix += g.prefix
		mws = append(mws, g.middleware...)
	}
	return prefix, mws
}
