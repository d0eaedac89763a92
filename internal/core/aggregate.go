package core

import (
	"fmt"
	"sort"
	"time"
)

// TotalByKind sums the amounts of all transactions matching kind.
func TotalByKind(txs []Transaction, k Kind) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Kind == k {
			total += tx.Amount
		}
	}
	return total
}

// NetBalance is total income minus total expenses.
func NetBalance(txs []Transaction) float64 {
	return TotalByKind(txs, Income) - TotalByKind(txs, Expense)
}

// SpendByCategory sums expense amounts for the named category whose
// occurrence date falls within [start, end], inclusive on both ends.
func SpendByCategory(txs []Transaction, categoryName string, start, end time.Time) float64 {
	var total float64
	for _, tx := range txs {
		if tx.Kind != Expense || tx.CategoryName != categoryName {
			continue
		}
		if tx.OccurredAt.Before(start) || tx.OccurredAt.After(end) {
			continue
		}
		total += tx.Amount
	}
	return total
}

// RecentN returns the n transactions with the latest occurrence dates,
// ties broken by original list order. A negative n is rejected; n larger
// than the input returns everything.
func RecentN(txs []Transaction, n int) ([]Transaction, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative count %d", ErrInvalidArgument, n)
	}
	out := append([]Transaction(nil), txs...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].OccurredAt.After(out[j].OccurredAt)
	})
	if n < len(out) {
		out = out[:n]
	}
	return out, nil
}
