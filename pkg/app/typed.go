package app

import (
	"net/http"

	"github.com/Qwerty0x64/Slim/pkg/codec"
	"github.com/Qwerty0x64/Slim/pkg/common"
	"github.com/Qwerty0x64/Slim/pkg/router"
)

// TypedHandler defines a handler function with generic request and response
// types. The framework decodes the request and encodes the response using
// the route's codec.
type TypedHandler[T any, U any] func(r *http.Request, data T) (U, error)

// MapTyped registers a route whose request and response bodies are decoded
// and encoded through a codec. This is a standalone function rather than a
// method because Go methods cannot have type parameters.
func MapTyped[T any, U any](a *App, methods []string, pattern string, c codec.Codec[T, U], h TypedHandler[T, U]) (*router.Route, error) {
	return a.Map(methods, pattern, common.HandlerFunc(func(r *http.Request) (*common.Response, error) {
		data, err := c.Decode(r)
		if err != nil {
			// A malformed body is the client's problem, not a pipeline
			// failure.
			return common.TextResponse(http.StatusBadRequest, "Failed to decode request"), nil
		}

		out, err := h(r, data)
		if err != nil {
			return nil, err
		}

		return c.Encode(out)
	}))
}
