package router

import (
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/codec"
	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"go.uber.org/zap"
)

// GenericHandler produces a typed response value for a request.
// Route parameters and other per-request values are available through props.
type GenericHandler[T any] func(r *http.Request, props common.Props) (T, error)

// Encoded adapts a GenericHandler into a terminal middleware that encodes the
// handler's result with enc. Handler errors are answered through WriteError with
// a 500 default; encoding errors are logged.
// It's a function rather than a method because Go methods cannot have type parameters.
func Encoded[T any](logger *zap.Logger, enc codec.Encoder[T], handler GenericHandler[T]) Middleware {
	return func(w *common.Response, req *http.Request, props common.Props, _ common.Next) {
		resp, err := handler(req, props)
		if err != nil {
			logger.Error("Handler error",
				zap.Error(err),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)
			if werr := WriteError(w, err, http.StatusInternalServerError, "Handler error"); werr != nil {
				logger.Error("Failed to write error response", zap.Error(werr))
			}
			return
		}

		if err := enc.Encode(w, http.StatusOK, resp); err != nil {
			logger.Error("Failed to encode response",
				zap.Error(err),
				zap.String("method", req.Method),
				zap.String("path", req.URL.Path),
			)
		}
	}
}
