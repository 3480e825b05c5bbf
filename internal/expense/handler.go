package expense

import (
	"encoding/json"
	"net/http"
	"strconv"

	internal "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/transport"
	"github.com/i4ybrid/trip-planner/pkg/logger"
	"github.com/go-chi/chi"
)

type ServiceAPI interface {
	CreateExpense(tripID, userID int64, dto CreateExpenseDTO) (*ExpenseWithSplits, error)
	GetExpense(expenseID int64) (*ExpenseWithSplits, error)
	GetTripExpenses(tripID int64) ([]*Expense, error)
	GetExpenseSplits(expenseID int64) ([]Split, error)
	CancelExpense(expenseID, userID int64) error
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

func (h *Handler) CreateExpense(w http.ResponseWriter, r *http.Request) {
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

	var dto CreateExpenseDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		h.Logger.Error("CreateExpense: invalid request body", "error", err)
		h.WriteError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := h.Service.CreateExpense(tripID, userID, dto)
	if err != nil {
		h.Logger.Error("CreateExpense: service error", "error", err, "trip_id", tripID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusCreated, result)
}

func (h *Handler) GetExpense(w http.ResponseWriter, r *http.Request) {
	expenseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	result, err := h.Service.GetExpense(expenseID)
	if err != nil {
		h.Logger.Error("GetExpense: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, result)
}

func (h *Handler) GetTripExpenses(w http.ResponseWriter, r *http.Request) {
	tripID, err := strconv.ParseInt(chi.URLParam(r, "tripID"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid trip ID")
		return
	}

	expenses, err := h.Service.GetTripExpenses(tripID)
	if err != nil {
		h.Logger.Error("GetTripExpenses: service error", "error", err, "trip_id", tripID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"expenses": expenses,
	})
}

func (h *Handler) GetExpenseSplits(w http.ResponseWriter, r *http.Request) {
	expenseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	splits, err := h.Service.GetExpenseSplits(expenseID)
	if err != nil {
		h.Logger.Error("GetExpenseSplits: service error", "error", err, "expense_id", expenseID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"splits": splits,
	})
}

func (h *Handler) CancelExpense(w http.ResponseWriter, r *http.Request) {
	userID := internal.UserIDFromContext(r.Context())
	if userID == 0 {
		h.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	expenseID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid expense ID")
		return
	}

	if err := h.Service.CancelExpense(expenseID, userID); err != nil {
		h.Logger.Error("CancelExpense: service error", "error", err, "expense_id", expenseID, "user_id", userID)
		h.HandleServiceError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]string{"status": ExpenseStatusCancelled})
}
