package settlement_test

import (
	"log/slog"
	"os"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/i4ybrid/trip-planner/internal/expense"
	"github.com/i4ybrid/trip-planner/internal/settlement"
)

func TestSettlement(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Settlement Suite")
}

var _ = Describe("ComputeBalances", func() {
	It("nets each member's paid total against an equal share", func() {
		paid := map[int64]float64{1: 90, 2: 30}
		balances := settlement.ComputeBalances(paid, []int64{1, 2, 3})

		Expect(balances).To(HaveLen(3))
		Expect(balances[0].Balance).To(Equal(50.00))
		Expect(balances[1].Balance).To(Equal(-10.00))
		Expect(balances[2].Balance).To(Equal(-40.00))
	})

	It("includes members who paid nothing", func() {
		balances := settlement.ComputeBalances(map[int64]float64{1: 100}, []int64{1, 2})

		Expect(balances[1].Paid).To(Equal(0.00))
		Expect(balances[1].Balance).To(Equal(-50.00))
	})

	It("returns nothing for an empty member list", func() {
		Expect(settlement.ComputeBalances(map[int64]float64{1: 100}, nil)).To(BeNil())
	})
})

var _ = Describe("ComputeTransfers", func() {
	balancesFor := func(paid map[int64]float64, members []int64) []settlement.MemberBalance {
		return settlement.ComputeBalances(paid, members)
	}

	It("settles a single shared expense with one transfer of half the total", func() {
		transfers := settlement.ComputeTransfers(balancesFor(
			map[int64]float64{1: 100}, []int64{1, 2}))

		Expect(transfers).To(Equal([]settlement.Transfer{
			{FromUserID: 2, ToUserID: 1, Amount: 50.00},
		}))
	})

	It("matches the largest debtor against the largest creditor first", func() {
		transfers := settlement.ComputeTransfers(balancesFor(
			map[int64]float64{1: 90, 2: 30}, []int64{1, 2, 3}))

		Expect(transfers).To(Equal([]settlement.Transfer{
			{FromUserID: 3, ToUserID: 1, Amount: 40.00},
			{FromUserID: 2, ToUserID: 1, Amount: 10.00},
		}))
	})

	It("produces no transfers when everyone is square", func() {
		transfers := settlement.ComputeTransfers(balancesFor(
			map[int64]float64{1: 50, 2: 50}, []int64{1, 2}))

		Expect(transfers).To(BeEmpty())
	})

	It("suppresses sub-cent residue from rounding", func() {
		// 100 split three ways leaves one cent of drift
		transfers := settlement.ComputeTransfers(balancesFor(
			map[int64]float64{1: 100}, []int64{1, 2, 3}))

		Expect(transfers).To(HaveLen(2))
		for _, tr := range transfers {
			Expect(tr.Amount).To(BeNumerically(">", 0.01))
		}
	})

	It("breaks balance ties by user id for deterministic output", func() {
		transfers := settlement.ComputeTransfers(balancesFor(
			map[int64]float64{1: 60, 4: 60}, []int64{1, 2, 3, 4}))

		// 2 and 3 each owe 30; lower id pays first
		Expect(transfers[0].FromUserID).To(Equal(int64(2)))
		Expect(transfers[1].FromUserID).To(Equal(int64(3)))
	})

	It("is idempotent over the same input", func() {
		paid := map[int64]float64{1: 77.77, 2: 12.12}
		members := []int64{1, 2, 3}

		first := settlement.ComputeTransfers(balancesFor(paid, members))
		second := settlement.ComputeTransfers(balancesFor(paid, members))
		Expect(first).To(Equal(second))
	})
})

// Mock readers for the service

type mockExpenseReader struct {
	records []*expense.Expense
}

func (m *mockExpenseReader) GetConfirmedByTripID(tripID int64) ([]*expense.Expense, error) {
	return m.records, nil
}

type mockMemberReader struct {
	ids []int64
}

func (m *mockMemberReader) ConfirmedMemberIDs(tripID int64) ([]int64, error) {
	return m.ids, nil
}

var _ = Describe("SettlementService", func() {
	var (
		service  *settlement.Service
		expenses *mockExpenseReader
		members  *mockMemberReader
	)

	BeforeEach(func() {
		expenses = &mockExpenseReader{}
		members = &mockMemberReader{ids: []int64{1, 2, 3}}
		logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service = settlement.NewService(expenses, members, logger)
	})

	It("aggregates expense totals per payer including tax and tip", func() {
		expenses.records = []*expense.Expense{
			{PayerID: 1, Amount: 80, TaxAmount: 5, TipAmount: 5},
			{PayerID: 1, Amount: 30},
			{PayerID: 2, Amount: 30},
		}

		result, err := service.SettleTrip(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Balances[0].Paid).To(Equal(120.00))
		Expect(result.Balances[0].Balance).To(Equal(70.00))
		Expect(result.Transfers).To(Equal([]settlement.Transfer{
			{FromUserID: 3, ToUserID: 1, Amount: 50.00},
			{FromUserID: 2, ToUserID: 1, Amount: 20.00},
		}))
	})

	It("settles an expense-free trip to zero transfers", func() {
		result, err := service.SettleTrip(10)
		Expect(err).NotTo(HaveOccurred())
		Expect(result.Balances).To(HaveLen(3))
		Expect(result.Transfers).To(BeEmpty())
	})
})
