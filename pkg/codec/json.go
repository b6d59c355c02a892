package codec

import (
	"encoding/json"
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
)

// JSONCodec encodes responses as JSON.
type JSONCodec[T any] struct {
	// Indent, when non-empty, pretty-prints the output with this indent string
	Indent string
}

// NewJSONCodec creates a new JSONCodec instance for the specified type.
func NewJSONCodec[T any]() *JSONCodec[T] {
	return &JSONCodec[T]{}
}

// ContentType returns the JSON media type.
func (c *JSONCodec[T]) ContentType() string {
	return "application/json"
}

// Encode marshals v to JSON and finalizes the response.
// Nothing is written if marshaling fails.
func (c *JSONCodec[T]) Encode(w *common.Response, statusCode int, v T) error {
	var (
		body []byte
		err  error
	)
	if c.Indent != "" {
		body, err = json.MarshalIndent(v, "", c.Indent)
	} else {
		body, err = json.Marshal(v)
	}
	if err != nil {
		return err
	}

	return w.Respond(statusCode, http.StatusText(statusCode), c.ContentType(), body)
}
