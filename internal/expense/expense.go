package expense

import (
	"encoding/json"
	"time"
)

// Expense is a paid cost recorded against a trip. Booking an activity
// creates one of these referencing the activity.
type Expense struct {
	ID              int64      `json:"id" gorm:"primaryKey"`
	TripID          int64      `json:"trip_id" gorm:"column:trip_id;not null"`
	PayerID         int64      `json:"payer_id" gorm:"column:payer_id;not null"`
	Description     string     `json:"description" gorm:"not null"`
	Amount          float64    `json:"amount" gorm:"not null"`
	TaxAmount       float64    `json:"tax_amount" gorm:"column:tax_amount"`
	TipAmount       float64    `json:"tip_amount" gorm:"column:tip_amount"`
	SplitType       string     `json:"split_type" gorm:"column:split_type;default:equal"`
	SplitConfig     string     `json:"-" gorm:"column:split_config"`
	ExpenseStatus   string     `json:"expense_status" gorm:"column:expense_status;default:CONFIRMED"`
	ActivityID      *int64     `json:"activity_id,omitempty" gorm:"column:activity_id"`
	ConfirmationNum *string    `json:"confirmation_num,omitempty" gorm:"column:confirmation_num"`
	ExpenseDate     *time.Time `json:"expense_date,omitempty" gorm:"column:expense_date;type:date"`
	CreatedAt       time.Time  `json:"created_at" gorm:"column:created_at;default:now()"`
	UpdatedAt       time.Time  `json:"updated_at" gorm:"column:updated_at;default:now()"`
}

func (Expense) TableName() string {
	return "expenses"
}

const (
	ExpenseStatusConfirmed = "CONFIRMED"
	ExpenseStatusCancelled = "CANCELLED"
	ExpenseStatusRefunded  = "REFUNDED"
)

// Total is the full amount the payer put down, tax and tip included.
func (e *Expense) Total() float64 {
	return e.Amount + e.TaxAmount + e.TipAmount
}

func (e *Expense) IsConfirmed() bool {
	return e.ExpenseStatus == ExpenseStatusConfirmed
}

func (e *Expense) CanBeCancelled() bool {
	return e.ExpenseStatus == ExpenseStatusConfirmed
}

func (e *Expense) Cancel() {
	e.ExpenseStatus = ExpenseStatusCancelled
	e.UpdatedAt = time.Now()
}

// Overrides decodes the stored per-member split configuration.
// An empty config yields an empty slice so every strategy falls back
// to its documented defaults.
func (e *Expense) Overrides() ([]SplitOverride, error) {
	if e.SplitConfig == "" {
		return nil, nil
	}
	var overrides []SplitOverride
	if err := json.Unmarshal([]byte(e.SplitConfig), &overrides); err != nil {
		return nil, err
	}
	return overrides, nil
}

func (e *Expense) SetOverrides(overrides []SplitOverride) error {
	if len(overrides) == 0 {
		e.SplitConfig = ""
		return nil
	}
	raw, err := json.Marshal(overrides)
	if err != nil {
		return err
	}
	e.SplitConfig = string(raw)
	return nil
}

// SplitDefinition returns the pure-function input for recomputing this
// expense's splits. Splits are never persisted; they are regenerated
// from this definition and the current confirmed member list.
func (e *Expense) SplitDefinition() (SplitDefinition, error) {
	overrides, err := e.Overrides()
	if err != nil {
		return SplitDefinition{}, err
	}
	return SplitDefinition{
		Amount:    e.Amount,
		TaxAmount: e.TaxAmount,
		TipAmount: e.TipAmount,
		SplitType: SplitType(e.SplitType),
		Overrides: overrides,
		PayerID:   e.PayerID,
	}, nil
}
