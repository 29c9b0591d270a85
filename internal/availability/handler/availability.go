package handler

import (
	"encoding/json"
	"net/http"

	"slotly/internal/availability/service"
	apperrors "slotly/pkg/errors"
	httputil "slotly/pkg/http"
	"slotly/pkg/logger"
	"slotly/pkg/model"

	"github.com/julienschmidt/httprouter"
)

type AvailabilityHandler struct {
	service service.AvailabilityService
	log     *logger.Logger
}

func NewAvailabilityHandler(service service.AvailabilityService, log *logger.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{
		service: service,
		log:     log,
	}
}

func (h *AvailabilityHandler) Create(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var block model.AvailabilityBlock
	if err := json.NewDecoder(r.Body).Decode(&block); err != nil {
		h.writeError(w, r, "Create", apperrors.InvalidInput("Invalid request body"))
		return
	}

	if err := h.service.Create(r.Context(), &block); err != nil {
		h.writeError(w, r, "Create", err)
		return
	}

	if err := httputil.WriteCreated(w, block); err != nil {
		h.log.Error("failed to write created response", "handler", "Create", "operation", "WriteCreated", "error", err)
	}
}

func (h *AvailabilityHandler) List(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	limit, offset, err := httputil.ExtractLimitOffset(r)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	blocks, total, err := h.service.ListByService(r.Context(), r.URL.Query().Get("service_id"), limit, offset)
	if err != nil {
		h.writeError(w, r, "List", err)
		return
	}

	if err := httputil.WritePaginated(w, blocks, total, limit, offset); err != nil {
		h.log.Error("failed to write paginated response", "handler", "List", "operation", "WritePaginated", "error", err)
	}
}

func (h *AvailabilityHandler) Count(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	count, err := h.service.Count(r.Context(), r.URL.Query().Get("service_id"))
	if err != nil {
		h.writeError(w, r, "Count", err)
		return
	}

	if err := httputil.WriteSuccess(w, map[string]any{"count": count}); err != nil {
		h.log.Error("failed to write success response", "handler", "Count", "operation", "WriteSuccess", "error", err)
	}
}

func (h *AvailabilityHandler) writeError(w http.ResponseWriter, r *http.Request, handler string, err error) {
	if writeErr := httputil.WriteError(w, err); writeErr != nil {
		h.log.WithContext(r.Context()).Error("failed to write error response", "handler", handler, "operation", "WriteError", "error", writeErr)
	}
}

func (h *AvailabilityHandler) RegisterRoutes(router *httprouter.Router) {
	router.POST("/api/v1/availability", h.Create)
	router.GET("/api/v1/availability", h.List)
	router.GET("/api/v1/availability/count", h.Count)
}
