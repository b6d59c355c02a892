package middleware

import (
	"net/http"

	"github.com/Suhaibinator/PipeRouter/pkg/common"
	"github.com/rs/cors"
)

// CORS creates a middleware that applies the given CORS options.
// Preflight requests are answered directly and end the chain unless
// options.OptionsPassthrough is set; other requests get the CORS response
// headers and continue.
func CORS(options cors.Options) Middleware {
	c := cors.New(options)

	return func(w *common.Response, r *http.Request, props common.Props, next common.Next) {
		c.ServeHTTP(w, r, func(http.ResponseWriter, *http.Request) {
			next()
		})
	}
}

// AllowAll is a CORS middleware that allows any origin with the common methods.
func AllowAll() Middleware {
	return CORS(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
	})
}
