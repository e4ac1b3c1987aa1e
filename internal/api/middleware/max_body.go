package middleware

import (
	"net/http"

	"github.com/courseloop/coursegw/internal/api"
)

// BodyLimit caps request bodies at max bytes. Oversized declared lengths are
// rejected up front; chunked bodies are cut off by MaxBytesReader when the
// handler reads past the cap.
func BodyLimit(max int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if max <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > max {
				api.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, max)
			}
			next.ServeHTTP(w, r)
		})
	}
}
