package codec

import (
	"bytes"
	"errors"
	"net/http/httptest"
	"testing"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/reflect/protoreflect"
)

// testProtoMessage is a minimal implementation of proto.Message for testing
type testProtoMessage struct {
	Data []byte
}

// Implement the proto.Message interface
func (m *testProtoMessage) Reset()                             { *m = testProtoMessage{} }
func (m *testProtoMessage) String() string                     { return string(m.Data) }
func (m *testProtoMessage) ProtoMessage()                      {}
func (m *testProtoMessage) ProtoReflect() protoreflect.Message { return nil }

// TestProtoCodecDecode tests the Decode method of ProtoCodec
func TestProtoCodecDecode(t *testing.T) {
	codec := NewProtoCodec[*testProtoMessage, *testProtoMessage]()

	reqBody := []byte("test data")
	req := httptest.NewRequest("POST", "/test", bytes.NewReader(reqBody))
	req.Header.Set("Content-Type", "application/x-protobuf")

	// Mock proto.Unmarshal for the fake message type
	originalUnmarshal := protoUnmarshal
	defer func() { protoUnmarshal = originalUnmarshal }()

	unmarshalCalled := false
	protoUnmarshal = func(b []byte, m proto.Message) error {
		unmarshalCalled = true
		if msg, ok := m.(*testProtoMessage); ok {
			msg.Data = b
			return nil
		}
		return errors.New("not a testProtoMessage")
	}

	decoded, err := codec.Decode(req)
	if err != nil {
		t.Fatalf("Decode() returned error: %v", err)
	}
	if !unmarshalCalled {
		t.Error("Expected Unmarshal to be called")
	}
	if string(decoded.Data) != "test data" {
		t.Errorf("Decode() got Data = %q, want %q", string(decoded.Data), "test data")
	}
}

// TestProtoCodecDecodeError tests that unmarshal failures surface from Decode
func TestProtoCodecDecodeError(t *testing.T) {
	codec := NewProtoCodec[*testProtoMessage, *testProtoMessage]()

	originalUnmarshal := protoUnmarshal
	defer func() { protoUnmarshal = originalUnmarshal }()
	protoUnmarshal = func(b []byte, m proto.Message) error {
		return errors.New("bad wire data")
	}

	req := httptest.NewRequest("POST", "/test", bytes.NewReader([]byte("junk")))
	if _, err := codec.Decode(req); err == nil {
		t.Error("Expected Decode() to return an error")
	}
}

// TestProtoCodecEncode tests the Encode method of ProtoCodec
func TestProtoCodecEncode(t *testing.T) {
	codec := NewProtoCodec[*testProtoMessage, *testProtoMessage]()

	// Mock proto.Marshal for the fake message type
	originalMarshal := protoMarshal
	defer func() { protoMarshal = originalMarshal }()

	marshalCalled := false
	protoMarshal = func(m proto.Message) ([]byte, error) {
		marshalCalled = true
		if msg, ok := m.(*testProtoMessage); ok {
			return msg.Data, nil
		}
		return nil, errors.New("not a testProtoMessage")
	}

	res, err := codec.Encode(&testProtoMessage{Data: []byte("response data")})
	if err != nil {
		t.Fatalf("Encode() returned error: %v", err)
	}
	if !marshalCalled {
		t.Error("Expected Marshal to be called")
	}
	if got := res.Header().Get("Content-Type"); got != "application/x-protobuf" {
		t.Errorf("Content-Type = %q, want %q", got, "application/x-protobuf")
	}
	if string(res.Body()) != "response data" {
		t.Errorf("Body = %q, want %q", res.Body(), "response data")
	}
}

// TestProtoCodecEncodeError tests that marshal failures surface from Encode
func TestProtoCodecEncodeError(t *testing.T) {
	codec := NewProtoCodec[*testProtoMessage, *testProtoMessage]()

	originalMarshal := protoMarshal
	defer func() { protoMarshal = originalMarshal }()
	protoMarshal = func(m proto.Message) ([]byte, error) {
		return nil, errors.New("marshal failed")
	}

	if _, err := codec.Encode(&testProtoMessage{}); err == nil {
		t.Error("Expected Encode() to return an error")
	}
}
