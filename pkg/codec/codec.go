// Package codec provides encoding and decoding functionality for different
// data formats.
package codec

import (
	"net/http"

	"github.com/Qwerty0x64/Slim/pkg/common"
)

// Codec defines an interface for marshaling and unmarshaling request and
// response data. Decode extracts typed data from an inbound request; Encode
// turns a typed result into a response value. This allows for different wire
// formats (e.g., JSON, Protocol Buffers) behind strongly-typed handlers.
type Codec[T any, U any] interface {
	// Decode extracts and deserializes data from an HTTP request into a
	// value of type T. If the deserialization fails, it returns an error.
	Decode(r *http.Request) (T, error)

	// Encode serializes a value of type U into a response with the
	// appropriate Content-Type header. If the serialization fails, it
	// returns an error.
	Encode(resp U) (*common.Response, error)
}
