package expense

import (
	"log/slog"
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
)

// Repository defines the data access methods for expenses.
type Repository interface {
	Create(expense *Expense) error
	GetByID(id int64) (*Expense, error)
	GetByTripID(tripID int64) ([]*Expense, error)
	GetConfirmedByTripID(tripID int64) ([]*Expense, error)
	UpdateStatus(id int64, status string) error
}

// MemberReader exposes the slice of trip membership this package needs.
type MemberReader interface {
	ConfirmedMemberIDs(tripID int64) ([]int64, error)
	IsConfirmedMember(tripID, userID int64) (bool, error)
}

// Service handles expense recording and split computation.
type Service struct {
	repo    Repository
	members MemberReader
	logger  *slog.Logger
}

func NewService(repo Repository, members MemberReader, logger *slog.Logger) *Service {
	return &Service{
		repo:    repo,
		members: members,
		logger:  logger,
	}
}

// CreateExpense records an expense paid by userID and returns it with
// the computed per-member splits.
func (s *Service) CreateExpense(tripID, userID int64, dto CreateExpenseDTO) (*ExpenseWithSplits, error) {
	if err := dto.Validate(); err != nil {
		s.logger.Error("expense validation failed", "error", err, "trip_id", tripID, "user_id", userID)
		return nil, err
	}

	confirmed, err := s.members.IsConfirmedMember(tripID, userID)
	if err != nil {
		return nil, err
	}
	if !confirmed {
		s.logger.Warn("expense create denied: payer not confirmed member", "trip_id", tripID, "user_id", userID)
		return nil, errors.ErrNotTripMember
	}

	splitType := dto.SplitType
	if splitType == "" {
		splitType = string(SplitTypeEqual)
	}

	now := time.Now()
	exp := &Expense{
		TripID:        tripID,
		PayerID:       userID,
		Description:   dto.Description,
		Amount:        dto.Amount,
		TaxAmount:     dto.TaxAmount,
		TipAmount:     dto.TipAmount,
		SplitType:     splitType,
		ExpenseStatus: ExpenseStatusConfirmed,
		ExpenseDate:   dto.ExpenseDate,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := exp.SetOverrides(dto.Splits); err != nil {
		return nil, errors.NewValidationError("invalid split overrides", errors.ErrCodeValidationFailed).WithCause(err)
	}

	// Compute splits before persisting so an invalid split type never
	// leaves a stored expense behind.
	splits, err := s.computeSplitsFor(exp)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create expense", "error", err, "trip_id", tripID, "user_id", userID)
		return nil, err
	}

	s.logger.Info("expense created",
		"expense_id", exp.ID,
		"trip_id", tripID,
		"payer_id", userID,
		"total", exp.Total(),
		"split_type", exp.SplitType)

	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

func (s *Service) GetExpense(expenseID int64) (*ExpenseWithSplits, error) {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}

	splits, err := s.computeSplitsFor(exp)
	if err != nil {
		return nil, err
	}
	return &ExpenseWithSplits{Expense: exp, Splits: splits}, nil
}

func (s *Service) GetTripExpenses(tripID int64) ([]*Expense, error) {
	expenses, err := s.repo.GetByTripID(tripID)
	if err != nil {
		s.logger.Error("failed to get trip expenses", "error", err, "trip_id", tripID)
		return nil, err
	}
	return expenses, nil
}

// GetExpenseSplits regenerates the splits for a stored expense from its
// definition and the trip's current confirmed members.
func (s *Service) GetExpenseSplits(expenseID int64) ([]Split, error) {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return nil, err
	}
	return s.computeSplitsFor(exp)
}

func (s *Service) CancelExpense(expenseID, userID int64) error {
	exp, err := s.repo.GetByID(expenseID)
	if err != nil {
		return err
	}

	if exp.PayerID != userID {
		s.logger.Warn("cancel expense denied: not the payer", "expense_id", expenseID, "user_id", userID)
		return errors.ErrNotTripMember
	}
	if !exp.CanBeCancelled() {
		return errors.ErrCannotModifyExpense
	}

	if err := s.repo.UpdateStatus(expenseID, ExpenseStatusCancelled); err != nil {
		s.logger.Error("failed to cancel expense", "error", err, "expense_id", expenseID)
		return err
	}

	s.logger.Info("expense cancelled", "expense_id", expenseID, "user_id", userID)
	return nil
}

// CreateBookingForActivity records the expense created when an activity
// is booked. Satisfies the activity module's booking-creator contract.
func (s *Service) CreateBookingForActivity(tripID, payerID, activityID int64, title string, cost float64, confirmationNum string) (*Expense, error) {
	now := time.Now()
	exp := &Expense{
		TripID:          tripID,
		PayerID:         payerID,
		Description:     title,
		Amount:          cost,
		SplitType:       string(SplitTypeEqual),
		ExpenseStatus:   ExpenseStatusConfirmed,
		ActivityID:      &activityID,
		ConfirmationNum: &confirmationNum,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.repo.Create(exp); err != nil {
		s.logger.Error("failed to create booking expense", "error", err, "activity_id", activityID)
		return nil, err
	}

	s.logger.Info("booking expense created",
		"expense_id", exp.ID,
		"activity_id", activityID,
		"trip_id", tripID,
		"amount", cost)

	return exp, nil
}

func (s *Service) computeSplitsFor(exp *Expense) ([]Split, error) {
	def, err := exp.SplitDefinition()
	if err != nil {
		return nil, errors.NewInternalError("stored split config is unreadable", err)
	}

	memberIDs, err := s.members.ConfirmedMemberIDs(exp.TripID)
	if err != nil {
		return nil, err
	}

	return ComputeSplits(def, memberIDs)
}
