package settlement

import (
	"net/http"
	"strconv"

	"github.com/i4ybrid/trip-planner/internal/transport"
	"github.com/i4ybrid/trip-planner/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	SettleTrip(tripID int64) (*SettlementResult, error)
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

func (h *Handler) SettleTrip(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip ID")
		return
	}

	result, err := h.Service.SettleTrip(tripID)
	if err != nil {
		h.Logger.Error("SettleTrip: service error", "error", err, "trip_id", tripID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}
