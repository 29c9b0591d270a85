package middleware

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	apperrors "slotly/pkg/errors"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"strings"
)

const SignatureHeader = "X-Signature-256"

// WebhookSignature verifies an HMAC-SHA256 of the raw webhook body. It must
// run after WebhookRawBody. Non-webhook paths are not checked.
func WebhookSignature(secret string, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !IsWebhookPath(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			webhook, ok := WebhookFromContext(r.Context())
			if !ok {
				logAndReject(w, log, r, "Webhook body was not captured")
				return
			}

			signature := extractSignature(r)
			if signature == "" {
				logAndReject(w, log, r, "Missing "+SignatureHeader+" header")
				return
			}

			if !VerifySignature(webhook.RawBody, signature, secret) {
				logAndReject(w, log, r, "Invalid webhook signature")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func extractSignature(r *http.Request) string {
	header := strings.TrimSpace(r.Header.Get(SignatureHeader))
	if signature, found := strings.CutPrefix(header, "sha256="); found {
		return signature
	}
	return header
}

// Sign returns the hex HMAC-SHA256 of body.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func VerifySignature(body []byte, receivedSignature string, secret string) bool {
	expected := Sign(body, secret)
	return hmac.Equal([]byte(expected), []byte(strings.ToLower(receivedSignature)))
}

func logAndReject(w http.ResponseWriter, log *logger.Logger, r *http.Request, reason string) {
	log.WithContext(r.Context()).Warn("Webhook verification failed",
		"reason", reason,
		"path", r.URL.Path,
		"remote_addr", r.RemoteAddr,
	)

	_ = httputil.WriteError(w, apperrors.Unauthorized("Unauthorized"))
}
