package postgres

import (
	"time"

	errors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/expense"
	"gorm.io/gorm"
)

// ExpenseRepository implements the expense.Repository interface using GORM.
type ExpenseRepository struct {
	db *gorm.DB
}

func NewExpenseRepository(db *gorm.DB) expense.Repository {
	return &ExpenseRepository{db: db}
}

func (r *ExpenseRepository) Create(exp *expense.Expense) error {
	return r.db.Create(exp).Error
}

func (r *ExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	var exp expense.Expense
	err := r.db.Where("id = ?", id).First(&exp).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrExpenseNotFound
		}
		return nil, err
	}
	return &exp, nil
}

func (r *ExpenseRepository) GetByTripID(tripID int64) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.Where("trip_id = ?", tripID).
		Order("created_at DESC").
		Find(&expenses).Error
	return expenses, err
}

// GetConfirmedByTripID returns only CONFIRMED expenses; cancelled and
// refunded records never feed settlement balances.
func (r *ExpenseRepository) GetConfirmedByTripID(tripID int64) ([]*expense.Expense, error) {
	var expenses []*expense.Expense
	err := r.db.Where("trip_id = ? AND expense_status = ?", tripID, expense.ExpenseStatusConfirmed).
		Order("created_at ASC").
		Find(&expenses).Error
	return expenses, err
}

func (r *ExpenseRepository) UpdateStatus(id int64, status string) error {
	return r.db.Model(&expense.Expense{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"expense_status": status,
			"updated_at":     time.Now(),
		}).Error
}
