package expense

import (
	"math"

	errors "github.com/i4ybrid/trip-planner/internal"
)

type SplitType string

const (
	SplitTypeEqual      SplitType = "equal"
	SplitTypeShares     SplitType = "shares"
	SplitTypePercentage SplitType = "percentage"
	SplitTypeCustom     SplitType = "custom"
)

// SplitOverride carries the per-member knob for a non-equal strategy.
// Only the field matching the expense's split type is read; the rest
// are ignored.
type SplitOverride struct {
	UserID     int64    `json:"user_id"`
	Shares     *float64 `json:"shares,omitempty"`
	Percentage *float64 `json:"percentage,omitempty"`
	Amount     *float64 `json:"amount,omitempty"`
}

// Split is one member's computed share of an expense. Derived on
// demand, never stored.
type Split struct {
	UserID int64   `json:"user_id"`
	Amount float64 `json:"amount"`
	IsPaid bool    `json:"is_paid"`
}

type SplitDefinition struct {
	Amount    float64
	TaxAmount float64
	TipAmount float64
	SplitType SplitType
	Overrides []SplitOverride
	PayerID   int64
}

func (d SplitDefinition) Total() float64 {
	return d.Amount + d.TaxAmount + d.TipAmount
}

var ErrNoConfirmedMembers = errors.NewValidationError("trip has no confirmed members to split between", errors.ErrCodeValidationFailed)

// ComputeSplits returns one entry per confirmed member for the given
// definition. Amounts are rounded to two decimals independently; the
// rounding remainder is not redistributed, so the per-member sum may
// drift from the total by up to memberCount*0.005.
//
// Percentage and custom overrides are taken at face value: there is no
// check that percentages sum to 100 or that custom amounts sum to the
// total. That validation is the caller's responsibility.
func ComputeSplits(def SplitDefinition, memberIDs []int64) ([]Split, error) {
	if len(memberIDs) == 0 {
		return nil, ErrNoConfirmedMembers
	}

	total := def.Total()
	overrides := indexOverrides(def.Overrides)

	splits := make([]Split, 0, len(memberIDs))

	switch def.SplitType {
	case SplitTypeEqual:
		share := roundToTwoDecimals(total / float64(len(memberIDs)))
		for _, id := range memberIDs {
			splits = append(splits, Split{UserID: id, Amount: share, IsPaid: id == def.PayerID})
		}

	case SplitTypeShares:
		shareOf := func(id int64) float64 {
			if ov, ok := overrides[id]; ok && ov.Shares != nil {
				return *ov.Shares
			}
			return 1
		}
		var totalShares float64
		for _, id := range memberIDs {
			totalShares += shareOf(id)
		}
		if totalShares == 0 {
			return nil, errors.NewValidationError("share weights must not all be zero", errors.ErrCodeValidationFailed)
		}
		for _, id := range memberIDs {
			amount := roundToTwoDecimals(total * (shareOf(id) / totalShares))
			splits = append(splits, Split{UserID: id, Amount: amount, IsPaid: id == def.PayerID})
		}

	case SplitTypePercentage:
		defaultPct := 100 / float64(len(memberIDs))
		for _, id := range memberIDs {
			pct := defaultPct
			if ov, ok := overrides[id]; ok && ov.Percentage != nil {
				pct = *ov.Percentage
			}
			amount := roundToTwoDecimals(total * (pct / 100))
			splits = append(splits, Split{UserID: id, Amount: amount, IsPaid: id == def.PayerID})
		}

	case SplitTypeCustom:
		for _, id := range memberIDs {
			var amount float64
			if ov, ok := overrides[id]; ok && ov.Amount != nil {
				amount = *ov.Amount
			}
			splits = append(splits, Split{UserID: id, Amount: roundToTwoDecimals(amount), IsPaid: id == def.PayerID})
		}

	default:
		return nil, errors.ErrInvalidSplitType
	}

	return splits, nil
}

func indexOverrides(overrides []SplitOverride) map[int64]SplitOverride {
	indexed := make(map[int64]SplitOverride, len(overrides))
	for _, ov := range overrides {
		indexed[ov.UserID] = ov
	}
	return indexed
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
