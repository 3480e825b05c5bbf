package chat

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	internal "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/transport"
	"github.com/i4ybrid/trip-planner/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	PostMessage(ctx context.Context, tripID, userID int64, dto PostMessageDTO) (*MessageWithMentions, error)
	ListTripMessages(tripID, userID int64, query ListMessagesQuery) ([]*Message, error)
}

type Handler struct {
	*transport.BaseHandler
	Service ServiceAPI
}

func NewHandler(service ServiceAPI) *Handler {
	return &Handler{
		BaseHandler: transport.NewBaseHandler(logger.LoggerWrapper()),
		Service:     service,
	}
}

func (h *Handler) PostMessage(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip ID")
		return
	}

	var dto PostMessageDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("PostMessage: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.PostMessage(r.Context(), tripID, userID, dto)
	if err != nil {
		h.Logger.Error("PostMessage: service error", "error", err, "trip_id", tripID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) ListTripMessages(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip ID")
		return
	}

	query := ListMessagesQuery{}
	if v := r.URL.Query().Get("limit"); v != "" {
		query.Limit, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		query.Offset, _ = strconv.Atoi(v)
	}

	messages, err := h.Service.ListTripMessages(tripID, userID, query)
	if err != nil {
		h.Logger.Error("ListTripMessages: service error", "error", err, "trip_id", tripID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"messages": messages,
	})
}
