package middleware

import (
	"net/http"
	"sync"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"go.uber.org/ratelimit"
)

// RateLimit creates a middleware that paces requests through a leaky-bucket
// limiter at the given requests per second. Requests above the rate are
// delayed, not rejected.
func RateLimit(rps int) Middleware {
	limiter := ratelimit.New(rps)
	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			limiter.Take()
			return next.Handle(r)
		})
	}
}

// KeyFunc derives a rate-limit bucket key from a request, for example the
// client IP or an API token.
type KeyFunc func(r *http.Request) string

// RateLimitPerKey creates a middleware that paces requests per bucket key,
// creating a limiter for each key on first use.
func RateLimitPerKey(rps int, key KeyFunc) Middleware {
	var (
		mu       sync.Mutex
		limiters = make(map[string]ratelimit.Limiter)
	)
	get := func(k string) ratelimit.Limiter {
		mu.Lock()
		defer mu.Unlock()
		if l, ok := limiters[k]; ok {
			return l
		}
		l := ratelimit.New(rps)
		limiters[k] = l
		return l
	}

	return func(next common.Handler) common.Handler {
		return common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
			get(key(r)).Take()
			return next.Handle(r)
		})
	}
}
