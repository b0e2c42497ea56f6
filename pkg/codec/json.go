package codec

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/Qwerty0x64/Slim/pkg/common"
)

// JSONCodec is a codec that uses JSON for marshaling and unmarshaling.
// It implements the Codec interface for encoding responses and decoding
// requests.
type JSONCodec[T any, U any] struct{}

// NewJSONCodec creates a new JSONCodec instance for the specified types.
// T represents the request type and U represents the response type.
func NewJSONCodec[T any, U any]() *JSONCodec[T, U] {
	return &JSONCodec[T, U]{}
}

// Decode decodes the request body into a value of type T.
// It reads the entire request body and unmarshals it from JSON.
func (c *JSONCodec[T, U]) Decode(r *http.Request) (T, error) {
	var data T

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return data, err
	}
	defer r.Body.Close()

	if err := json.Unmarshal(body, &data); err != nil {
		return data, err
	}
	return data, nil
}

// Encode encodes a value of type U into an application/json response with
// status 200.
func (c *JSONCodec[T, U]) Encode(resp U) (*common.Response, error) {
	return common.JSONResponse(http.StatusOK, resp)
}
