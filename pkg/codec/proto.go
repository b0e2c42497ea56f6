package codec

import (
	"io"
	"net/http"
	"reflect"

	"github.com/Qwerty0x64/Slim/pkg/common"
	"google.golang.org/protobuf/proto"
)

// Marshal/unmarshal hooks, swappable in tests.
var (
	protoMarshal   = proto.Marshal
	protoUnmarshal = proto.Unmarshal
)

// ProtoCodec is a codec that uses Protocol Buffers for marshaling and
// unmarshaling. T and U must be pointer types implementing proto.Message.
type ProtoCodec[T proto.Message, U proto.Message] struct{}

// NewProtoCodec creates a new ProtoCodec instance for the specified types.
func NewProtoCodec[T proto.Message, U proto.Message]() *ProtoCodec[T, U] {
	return &ProtoCodec[T, U]{}
}

// Decode decodes the request body into a freshly allocated message of type T.
func (c *ProtoCodec[T, U]) Decode(r *http.Request) (T, error) {
	var zero T

	// T is a pointer type; allocate the underlying message.
	msg := reflect.New(reflect.TypeOf(zero).Elem()).Interface().(T)

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return zero, err
	}
	defer r.Body.Close()

	if err := protoUnmarshal(body, msg); err != nil {
		return zero, err
	}
	return msg, nil
}

// Encode encodes a message of type U into an application/x-protobuf response
// with status 200.
func (c *ProtoCodec[T, U]) Encode(resp U) (*common.Response, error) {
	body, err := protoMarshal(resp)
	if err != nil {
		return nil, err
	}
	return common.NewResponse(http.StatusOK).
		WithHeader("Content-Type", "application/x-protobuf").
		WithBody(body), nil
}
