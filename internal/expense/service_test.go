package expense_test

import (
	"errors"
	"log/slog"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	apperrors "github.com/i4ybrid/trip-planner/internal"
	"github.com/i4ybrid/trip-planner/internal/expense"
)

// Mock repository for testing
type mockExpenseRepository struct {
	expenses    map[int64]*expense.Expense
	createError error
	getError    error
	nextID      int64
}

func newMockExpenseRepository() *mockExpenseRepository {
	return &mockExpenseRepository{
		expenses: make(map[int64]*expense.Expense),
		nextID:   1,
	}
}

func (m *mockExpenseRepository) Create(exp *expense.Expense) error {
	if m.createError != nil {
		return m.createError
	}
	exp.ID = m.nextID
	m.nextID++
	m.expenses[exp.ID] = exp
	return nil
}

func (m *mockExpenseRepository) GetByID(id int64) (*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	exp, exists := m.expenses[id]
	if !exists {
		return nil, apperrors.ErrExpenseNotFound
	}
	return exp, nil
}

func (m *mockExpenseRepository) GetByTripID(tripID int64) ([]*expense.Expense, error) {
	if m.getError != nil {
		return nil, m.getError
	}
	var out []*expense.Expense
	for id := int64(1); id < m.nextID; id++ {
		if exp, ok := m.expenses[id]; ok && exp.TripID == tripID {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) GetConfirmedByTripID(tripID int64) ([]*expense.Expense, error) {
	all, err := m.GetByTripID(tripID)
	if err != nil {
		return nil, err
	}
	var out []*expense.Expense
	for _, exp := range all {
		if exp.ExpenseStatus == expense.ExpenseStatusConfirmed {
			out = append(out, exp)
		}
	}
	return out, nil
}

func (m *mockExpenseRepository) UpdateStatus(id int64, status string) error {
	if exp, ok := m.expenses[id]; ok {
		exp.ExpenseStatus = status
		exp.UpdatedAt = time.Now()
	}
	return nil
}

// Mock member reader for testing
type mockMemberReader struct {
	confirmedIDs map[int64][]int64
	readError    error
}

func newMockMemberReader(tripID int64, memberIDs ...int64) *mockMemberReader {
	return &mockMemberReader{
		confirmedIDs: map[int64][]int64{tripID: memberIDs},
	}
}

func (m *mockMemberReader) ConfirmedMemberIDs(tripID int64) ([]int64, error) {
	if m.readError != nil {
		return nil, m.readError
	}
	return m.confirmedIDs[tripID], nil
}

func (m *mockMemberReader) IsConfirmedMember(tripID, userID int64) (bool, error) {
	if m.readError != nil {
		return false, m.readError
	}
	for _, id := range m.confirmedIDs[tripID] {
		if id == userID {
			return true, nil
		}
	}
	return false, nil
}

var _ = Describe("ExpenseService", func() {
	var (
		service  *expense.Service
		mockRepo *mockExpenseRepository
		members  *mockMemberReader
		logger   *slog.Logger
	)

	const tripID = int64(10)

	BeforeEach(func() {
		mockRepo = newMockExpenseRepository()
		members = newMockMemberReader(tripID, 1, 2, 3)
		logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = expense.NewService(mockRepo, members, logger)
	})

	Describe("CreateExpense", func() {
		It("stores the expense and returns the computed splits", func() {
			result, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
				TaxAmount:   6,
				TipAmount:   4.50,
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.ID).NotTo(BeZero())
			Expect(result.SplitType).To(Equal(string(expense.SplitTypeEqual)))
			Expect(result.Splits).To(HaveLen(3))
			Expect(result.Splits[0].Amount).To(Equal(33.50))
			Expect(mockRepo.expenses).To(HaveLen(1))
		})

		It("rejects a payer who is not a confirmed member", func() {
			_, err := service.CreateExpense(tripID, 99, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
			})

			Expect(err).To(Equal(apperrors.ErrNotTripMember))
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("rejects a zero amount", func() {
			_, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      0,
			})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("does not persist when split computation fails", func() {
			members.confirmedIDs[tripID] = nil

			_, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
			})

			Expect(err).To(HaveOccurred())
			Expect(mockRepo.expenses).To(BeEmpty())
		})

		It("carries share overrides through to the splits", func() {
			four := 4.0
			result, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Cab",
				Amount:      60,
				SplitType:   string(expense.SplitTypeShares),
				Splits: []expense.SplitOverride{
					{UserID: 1, Shares: &four},
				},
			})

			Expect(err).NotTo(HaveOccurred())
			Expect(result.Splits[0].Amount).To(Equal(40.00))
			Expect(result.Splits[1].Amount).To(Equal(10.00))
			Expect(result.Splits[2].Amount).To(Equal(10.00))
		})
	})

	Describe("GetExpenseSplits", func() {
		It("recomputes from the stored definition and current members", func() {
			created, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Museum",
				Amount:      100,
			})
			Expect(err).NotTo(HaveOccurred())

			// A member confirmed after the expense changes the recompute.
			members.confirmedIDs[tripID] = []int64{1, 2, 3, 4}

			splits, err := service.GetExpenseSplits(created.ID)
			Expect(err).NotTo(HaveOccurred())
			Expect(splits).To(HaveLen(4))
			Expect(splits[0].Amount).To(Equal(25.00))
		})
	})

	Describe("CancelExpense", func() {
		It("lets the payer cancel", func() {
			created, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.CancelExpense(created.ID, 1)).To(Succeed())
			Expect(mockRepo.expenses[created.ID].ExpenseStatus).To(Equal(expense.ExpenseStatusCancelled))
		})

		It("rejects anyone other than the payer", func() {
			created, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
			})
			Expect(err).NotTo(HaveOccurred())

			Expect(service.CancelExpense(created.ID, 2)).To(Equal(apperrors.ErrNotTripMember))
		})

		It("rejects cancelling an already cancelled expense", func() {
			created, err := service.CreateExpense(tripID, 1, expense.CreateExpenseDTO{
				Description: "Dinner",
				Amount:      90,
			})
			Expect(err).NotTo(HaveOccurred())
			Expect(service.CancelExpense(created.ID, 1)).To(Succeed())

			Expect(service.CancelExpense(created.ID, 1)).To(Equal(apperrors.ErrCannotModifyExpense))
		})
	})

	Describe("CreateBookingForActivity", func() {
		It("records a confirmed expense linked to the activity", func() {
			exp, err := service.CreateBookingForActivity(tripID, 1, 55, "Fado dinner show", 65, "CONF-123")

			Expect(err).NotTo(HaveOccurred())
			Expect(exp.ActivityID).NotTo(BeNil())
			Expect(*exp.ActivityID).To(Equal(int64(55)))
			Expect(*exp.ConfirmationNum).To(Equal("CONF-123"))
			Expect(exp.ExpenseStatus).To(Equal(expense.ExpenseStatusConfirmed))
		})

		It("propagates repository failures", func() {
			mockRepo.createError = errors.New("db down")

			_, err := service.CreateBookingForActivity(tripID, 1, 55, "Fado dinner show", 65, "CONF-123")
			Expect(err).To(HaveOccurred())
		})
	})
})
