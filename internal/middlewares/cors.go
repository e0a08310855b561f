package middlewares

import (
	"net/http"
	"slices"

	"github.com/go-chi/cors"
)

// CORSMiddleware answers preflight requests and sets CORS headers for the allowed origins.
// The API is read-only, so only GET and OPTIONS are allowed.
func CORSMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	allowAll := slices.Contains(allowedOrigins, "*")

	return cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodOptions},
		AllowedHeaders: []string{
			"Accept",
			"Authorization",
			"Content-Type",
			RequestIDHeader,
		},
		ExposedHeaders: []string{RequestIDHeader},
		// Cookies are only accepted from explicitly listed origins
		AllowCredentials: !allowAll,
		MaxAge:           3600,
	})
}
