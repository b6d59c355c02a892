// Package codec provides response encoding for different data formats.
package codec

import (
	"github.com/Suhaibinator/PipeRouter/pkg/common"
)

// Encoder serializes a value of type T and finalizes the response with it.
// Implementations set the content type and content length and claim the response,
// so a pipeline stops advancing once Encode has been called.
type Encoder[T any] interface {
	// Encode writes v with the given status code.
	Encode(w *common.Response, statusCode int, v T) error

	// ContentType returns the media type written by Encode.
	ContentType() string
}
