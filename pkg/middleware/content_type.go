package middleware

import (
	"net/http"
	apperrors "slotly/pkg/errors"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"strings"
)

// ContentTypeValidation requires application/json on requests with a body.
// Webhook paths are exempt: providers pick their own content type and the
// raw bytes are what matters there.
func ContentTypeValidation(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if requiresContentType(r.Method) && !IsWebhookPath(r.URL.Path) {
				contentType := extractContentType(r.Header.Get("Content-Type"))

				if contentType != "application/json" {
					rejectInvalidContentType(w, log, r, contentType)
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func requiresContentType(method string) bool {
	return method == http.MethodPost || method == http.MethodPut || method == http.MethodPatch
}

func extractContentType(header string) string {
	if header == "" {
		return ""
	}

	parts := strings.Split(header, ";")
	return strings.ToLower(strings.TrimSpace(parts[0]))
}

func rejectInvalidContentType(w http.ResponseWriter, log *logger.Logger, r *http.Request, contentType string) {
	log.WithContext(r.Context()).Warn("Invalid Content-Type header",
		"content_type", contentType,
		"path", r.URL.Path,
		"method", r.Method,
	)

	_ = httputil.WriteError(w, apperrors.UnsupportedMediaType("Content-Type must be application/json"))
}
