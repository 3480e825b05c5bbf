package activity

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
	ProposeActivity(tripID, userID int64, dto ProposeActivityDTO) (*Activity, error)
	GetActivity(activityID int64) (*ActivityWithTally, error)
	ListTripActivities(tripID int64) ([]*Activity, error)
	CastVote(activityID, userID int64, dto CastVoteDTO) error
	RetractVote(activityID, userID int64) error
	ProcessVotingDeadline(ctx context.Context, activityID int64) (*DeadlineResult, error)
	ProcessAllDeadlines(ctx context.Context) (int, error)
	BookActivity(ctx context.Context, activityID, userID int64, dto BookActivityDTO) (*BookingRecord, error)
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

func (h *Handler) ProposeActivity(w http.ResponseWriter, r *http.Request) {
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

	var dto ProposeActivityDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("ProposeActivity: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	act, err := h.Service.ProposeActivity(tripID, userID, dto)
	if err != nil {
		h.Logger.Error("ProposeActivity: service error", "error", err, "trip_id", tripID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, act)
}

func (h *Handler) GetActivity(w http.ResponseWriter, r *http.Request) {
	activityID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	act, err := h.Service.GetActivity(activityID)
	if err != nil {
		h.Logger.Error("GetActivity: service error", "error", err, "activity_id", activityID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, act)
}

func (h *Handler) ListTripActivities(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip ID")
		return
	}

	activities, err := h.Service.ListTripActivities(tripID)
	if err != nil {
		h.Logger.Error("ListTripActivities: service error", "error", err, "trip_id", tripID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"activities": activities,
	})
}

func (h *Handler) CastVote(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	activityID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var dto CastVoteDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CastVote: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.Service.CastVote(activityID, userID, dto); err != nil {
		h.Logger.Error("CastVote: service error", "error", err, "activity_id", activityID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "voted", "option": dto.Option})
}

func (h *Handler) RetractVote(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	activityID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	if err := h.Service.RetractVote(activityID, userID); err != nil {
		h.Logger.Error("RetractVote: service error", "error", err, "activity_id", activityID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": "retracted"})
}

// CloseVoting processes a single activity's deadline on demand, the
// same transition the cron batch applies.
func (h *Handler) CloseVoting(w http.ResponseWriter, r *http.Request) {
	activityID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	result, err := h.Service.ProcessVotingDeadline(r.Context(), activityID)
	if err != nil {
		h.Logger.Error("CloseVoting: service error", "error", err, "activity_id", activityID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

// ProcessDeadlines is the HTTP face of the cron batch.
func (h *Handler) ProcessDeadlines(w http.ResponseWriter, r *http.Request) {
	processed, err := h.Service.ProcessAllDeadlines(r.Context())
	if err != nil {
		h.Logger.Error("ProcessDeadlines: service error", "error", err)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]int{"processed": processed})
}

func (h *Handler) BookActivity(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	activityID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid activity ID")
		return
	}

	var dto BookActivityDTO
	if r.Body != nil {
		// booking payload is optional; an empty body books with a
		// generated confirmation number
		_ = json.NewDecoder(r.Body).Decode(&dto)
	}

	booking, err := h.Service.BookActivity(r.Context(), activityID, userID, dto)
	if err != nil {
		h.Logger.Error("BookActivity: service error", "error", err, "activity_id", activityID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, booking)
}
