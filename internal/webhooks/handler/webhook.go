package handler

import (
	"net/http"

	webhookerrors "slotly/internal/webhooks/errors"
	"slotly/internal/webhooks/service"
	apperrors "slotly/pkg/errors"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"slotly/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

const DuplicateHeader = "X-Webhook-Duplicate"

type WebhookHandler struct {
	service service.WebhookService
	log     *logger.Logger
}

func NewWebhookHandler(service service.WebhookService, log *logger.Logger) *WebhookHandler {
	return &WebhookHandler{
		service: service,
		log:     log,
	}
}

// Receive answers 202 for new and duplicate deliveries alike so providers stop
// retrying either way.
func (h *WebhookHandler) Receive(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
	info := middleware.RequestInfoFromContext(r.Context())
	if info.Webhook == nil {
		h.writeError(w, r, apperrors.Internal("Webhook body unavailable", webhookerrors.ErrMissingBody))
		return
	}
	h.log.WithContext(r.Context()).Debug("Webhook received",
		"provider", ps.ByName("provider"),
		"bytes", len(info.Webhook.RawBody),
		"user_id", info.Identity.UserID,
	)

	result, err := h.service.Receive(r.Context(), ps.ByName("provider"), info.Webhook)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	if result.Duplicate {
		w.Header().Set(DuplicateHeader, "true")
	}
	if err := httputil.WriteAccepted(w, map[string]string{"status": "accepted"}); err != nil {
		h.log.Error("failed to write accepted response", "handler", "Receive", "operation", "WriteAccepted", "error", err)
	}
}

func (h *WebhookHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", "Receive", "operation", "WriteError", "error", writeErr)
	}
}

func (h *WebhookHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/webhooks/:provider", h.Receive)
}
