package middlewares

import (
	"net/http"
)

// DefaultMaxRequestSize is the body limit applied by the API router
const DefaultMaxRequestSize int64 = 64 << 10 // 64KB

// RequestSizeLimitMiddleware rejects requests whose declared body exceeds maxRequestSize bytes
// and caps undeclared (chunked) bodies at the same size.
//
// A non-positive maxRequestSize disables the limit.
func RequestSizeLimitMiddleware(maxRequestSize int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if maxRequestSize <= 0 {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxRequestSize {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}

			if r.Body != nil && r.Body != http.NoBody {
				r.Body = http.MaxBytesReader(w, r.Body, maxRequestSize)
			}
			next.ServeHTTP(w, r)
		})
	}
}
