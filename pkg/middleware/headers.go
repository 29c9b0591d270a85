package middleware

import "net/http"

const (
	CrossOriginOpenerPolicy   = "same-origin-allow-popups"
	CrossOriginEmbedderPolicy = "credentialless"
)

func CrossOriginIsolation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Cross-Origin-Opener-Policy", CrossOriginOpenerPolicy)
			w.Header().Set("Cross-Origin-Embedder-Policy", CrossOriginEmbedderPolicy)
			next.ServeHTTP(w, r)
		})
	}
}
