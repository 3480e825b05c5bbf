package expense

import (
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/core/common/validation"
)

// CreateExpenseDTO is the request payload for recording an expense.
type CreateExpenseDTO struct {
	Description string          `json:"description"`
	Amount      float64         `json:"amount"`
	TaxAmount   float64         `json:"tax_amount"`
	TipAmount   float64         `json:"tip_amount"`
	SplitType   string          `json:"split_type"`
	Splits      []SplitOverride `json:"splits,omitempty"`
	ExpenseDate *time.Time      `json:"expense_date,omitempty"`
}

func (dto CreateExpenseDTO) Validate() *errors.AppError {
	v := validation.NewValidator()
	v.Field("description", dto.Description).Required().MaxLength(500)
	v.Field("amount", dto.Amount).MinFloat(0.01, errors.ErrCodeInvalidAmount)
	if err := v.Validate(); err != nil {
		return err
	}

	if dto.TaxAmount < 0 || dto.TipAmount < 0 {
		return errors.NewValidationError("tax and tip amounts cannot be negative", errors.ErrCodeInvalidAmount)
	}

	switch SplitType(dto.SplitType) {
	case SplitTypeEqual, SplitTypeShares, SplitTypePercentage, SplitTypeCustom, "":
	default:
		return errors.ErrInvalidSplitType
	}

	return nil
}

// ExpenseWithSplits is the response shape for expense reads: the stored
// record plus its freshly recomputed per-member splits.
type ExpenseWithSplits struct {
	*Expense
	Splits []Split `json:"splits"`
}
