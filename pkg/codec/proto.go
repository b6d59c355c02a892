package codec

import (
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"google.golang.org/protobuf/proto"
)

// ProtoCodec encodes responses in Protocol Buffers wire format.
type ProtoCodec[T proto.Message] struct {
	// Deterministic requests deterministic map ordering in the output
	Deterministic bool
}

// NewProtoCodec creates a new ProtoCodec instance for the specified message type.
func NewProtoCodec[T proto.Message]() *ProtoCodec[T] {
	return &ProtoCodec[T]{}
}

// ContentType returns the protobuf media type.
func (c *ProtoCodec[T]) ContentType() string {
	return "application/x-protobuf"
}

// Encode marshals v and finalizes the response.
// Nothing is written if marshaling fails.
func (c *ProtoCodec[T]) Encode(w *common.Response, statusCode int, v T) error {
	body, err := proto.MarshalOptions{Deterministic: c.Deterministic}.Marshal(v)
	if err != nil {
		return err
	}

	return w.Respond(statusCode, http.StatusText(statusCode), c.ContentType(), body)
}
