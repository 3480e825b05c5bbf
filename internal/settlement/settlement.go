package settlement

import (
	"math"
	"sort"
)

// Transfer is a directed payment instruction that moves a debtor's
// balance toward a creditor's.
type Transfer struct {
	FromUserID int64   `json:"from_user_id"`
	ToUserID   int64   `json:"to_user_id"`
	Amount     float64 `json:"amount"`
}

// MemberBalance is one member's position after netting: positive means
// the member is owed money, negative means the member owes.
type MemberBalance struct {
	UserID  int64   `json:"user_id"`
	Paid    float64 `json:"paid"`
	Share   float64 `json:"share"`
	Balance float64 `json:"balance"`
}

// Transfers at or below this amount are noise from float rounding and
// are suppressed.
const minTransfer = 0.01

// ComputeBalances derives each member's net position from the paid
// totals, using an equal per-member share of the grand total as the
// baseline. Every confirmed member gets an entry even with zero paid.
func ComputeBalances(paidTotals map[int64]float64, memberIDs []int64) []MemberBalance {
	if len(memberIDs) == 0 {
		return nil
	}

	var grandTotal float64
	for _, id := range memberIDs {
		grandTotal += paidTotals[id]
	}
	share := grandTotal / float64(len(memberIDs))

	balances := make([]MemberBalance, 0, len(memberIDs))
	for _, id := range memberIDs {
		paid := paidTotals[id]
		balances = append(balances, MemberBalance{
			UserID:  id,
			Paid:    roundToTwoDecimals(paid),
			Share:   roundToTwoDecimals(share),
			Balance: roundToTwoDecimals(paid - share),
		})
	}
	return balances
}

// ComputeTransfers greedily matches the most-negative debtor against
// the most-positive creditor until both sides are exhausted. The result
// is deterministic for identical input ordering: sorts are stable on
// balance with user id as the tie key. At most debtors+creditors-1
// transfers are produced; this is the standard greedy approximation,
// not a provably minimal transfer count.
func ComputeTransfers(balances []MemberBalance) []Transfer {
	var debtors, creditors []MemberBalance
	for _, b := range balances {
		switch {
		case b.Balance < -minTransfer:
			debtors = append(debtors, b)
		case b.Balance > minTransfer:
			creditors = append(creditors, b)
		}
	}

	// most negative debtor first
	sort.SliceStable(debtors, func(i, j int) bool {
		if debtors[i].Balance != debtors[j].Balance {
			return debtors[i].Balance < debtors[j].Balance
		}
		return debtors[i].UserID < debtors[j].UserID
	})
	// most positive creditor first
	sort.SliceStable(creditors, func(i, j int) bool {
		if creditors[i].Balance != creditors[j].Balance {
			return creditors[i].Balance > creditors[j].Balance
		}
		return creditors[i].UserID < creditors[j].UserID
	})

	transfers := []Transfer{}
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		owed := -debtors[i].Balance
		due := creditors[j].Balance

		amount := math.Min(owed, due)
		if amount > minTransfer {
			transfers = append(transfers, Transfer{
				FromUserID: debtors[i].UserID,
				ToUserID:   creditors[j].UserID,
				Amount:     roundToTwoDecimals(amount),
			})
		}

		debtors[i].Balance += amount
		creditors[j].Balance -= amount

		if math.Abs(debtors[i].Balance) < minTransfer {
			i++
		}
		if math.Abs(creditors[j].Balance) < minTransfer {
			j++
		}
	}

	return transfers
}

func roundToTwoDecimals(value float64) float64 {
	return math.Round(value*100) / 100
}
