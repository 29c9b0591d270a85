package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	apperrors "slotly/pkg/errors"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"strings"
)

const WebhookPathSegment = "/webhooks/"

func IsWebhookPath(path string) bool {
	return strings.Contains(path, WebhookPathSegment)
}

// WebhookRawBody captures the body of webhook requests before anything decodes
// it, so signatures can be checked against the exact bytes that were sent.
// Other requests pass through without their body being read.
func WebhookRawBody(log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsWebhookPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			raw, err := io.ReadAll(r.Body)
			_ = r.Body.Close()
			if err != nil {
				rejectUnreadableBody(w, log, r, err)
				return
			}

			r.Body = io.NopCloser(bytes.NewReader(raw))
			webhook := &Webhook{
				RawBody: raw,
				Body:    decodeWebhookBody(raw),
			}

			next.ServeHTTP(w, r.WithContext(ContextWithWebhook(r.Context(), webhook)))
		})
	}
}

// decodeWebhookBody never fails: anything that is not a JSON object becomes an
// empty map.
func decodeWebhookBody(raw []byte) map[string]any {
	var body map[string]any
	if err := json.Unmarshal(raw, &body); err != nil || body == nil {
		return map[string]any{}
	}
	return body
}

func rejectUnreadableBody(w http.ResponseWriter, log *logger.Logger, r *http.Request, err error) {
	log.WithContext(r.Context()).Warn("Failed to read webhook body",
		"error", err,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		_ = httputil.WriteError(w, apperrors.PayloadTooLarge(maxErr.Limit))
		return
	}
	_ = httputil.WriteError(w, apperrors.InvalidInput("Failed to read request body"))
}
