package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/cors"
)

// CORS answers preflight requests and tags responses for the configured
// origins. A "*" entry allows any origin.
func CORS(allowedOrigins string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: splitOrigins(allowedOrigins),
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedHeaders: []string{"Authorization", "Content-Type", TraceHeader},
		ExposedHeaders: []string{TraceHeader, "Retry-After"},
	}).Handler
}

func splitOrigins(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}
