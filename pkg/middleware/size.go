package middleware

import (
	"net/http"
	"strings"
)

// MaxRequestSize caps the request body. Multipart uploads get uploadLimit.
func MaxRequestSize(limit, uploadLimit int64) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				n := limit
				if strings.HasPrefix(r.Header.Get("Content-Type"), ContentTypeMultipart) {
					n = uploadLimit
				}
				r.Body = http.MaxBytesReader(w, r.Body, n)
			}
			next.ServeHTTP(w, r)
		})
	}
}
