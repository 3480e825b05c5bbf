package settlement

import (
	"log/slog"

	"github.com/i4ybrid/trip-planner/internal/expense"
)

// ExpenseReader exposes the confirmed expense records settlement needs.
type ExpenseReader interface {
	GetConfirmedByTripID(tripID int64) ([]*expense.Expense, error)
}

// MemberReader exposes the confirmed member list for a trip.
type MemberReader interface {
	ConfirmedMemberIDs(tripID int64) ([]int64, error)
}

// SettlementResult is the full derived settlement view for a trip:
// per-member balances and the transfers that zero them.
type SettlementResult struct {
	TripID    int64           `json:"trip_id"`
	Balances  []MemberBalance `json:"balances"`
	Transfers []Transfer      `json:"transfers"`
}

// Service computes trip settlements on demand. Results are pure
// derivations of stored expenses and membership; nothing is persisted,
// so repeated calls over unchanged input yield identical output.
type Service struct {
	expenses ExpenseReader
	members  MemberReader
	logger   *slog.Logger
}

func NewService(expenses ExpenseReader, members MemberReader, logger *slog.Logger) *Service {
	return &Service{
		expenses: expenses,
		members:  members,
		logger:   logger,
	}
}

// SettleTrip nets all confirmed expenses for the trip into minimal
// pairwise transfers between confirmed members.
func (s *Service) SettleTrip(tripID int64) (*SettlementResult, error) {
	memberIDs, err := s.members.ConfirmedMemberIDs(tripID)
	if err != nil {
		s.logger.Error("failed to load trip members", "error", err, "trip_id", tripID)
		return nil, err
	}

	records, err := s.expenses.GetConfirmedByTripID(tripID)
	if err != nil {
		s.logger.Error("failed to load trip expenses", "error", err, "trip_id", tripID)
		return nil, err
	}

	paidTotals := make(map[int64]float64, len(memberIDs))
	for _, rec := range records {
		paidTotals[rec.PayerID] += rec.Total()
	}

	balances := ComputeBalances(paidTotals, memberIDs)
	transfers := ComputeTransfers(balances)

	s.logger.Info("trip settlement computed",
		"trip_id", tripID,
		"members", len(memberIDs),
		"expenses", len(records),
		"transfers", len(transfers))

	return &SettlementResult{
		TripID:    tripID,
		Balances:  balances,
		Transfers: transfers,
	}, nil
}
