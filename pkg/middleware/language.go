package middleware

import (
	"net/http"
	"slotly/pkg/locale"
)

const LanguageQueryParam = "lang"

// Language resolves the response language from the lang query parameter and
// the Accept-Language header.
func Language() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lang := locale.ResolveLanguage(
				r.URL.Query().Get(LanguageQueryParam),
				r.Header.Values("Accept-Language")...,
			)

			w.Header().Set("Content-Language", string(lang))
			next.ServeHTTP(w, r.WithContext(ContextWithLanguage(r.Context(), lang)))
		})
	}
}
