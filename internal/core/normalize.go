package core

import (
	"fmt"
	"math"
	"time"
)

// Trailing windows are day-based spans measured in wall-clock
// milliseconds, not calendar boundaries. A "month" here is exactly
// 30×24×60×60×1000 ms; switching to calendar-aware arithmetic would
// change every reported figure.
const (
	dayMillis        = int64(24 * 60 * 60 * 1000)
	incomeWindowDays = 30
)

var defaultSplit = []Category{
	{Name: "Needs", Percentage: 50, Icon: "home", Color: "#4CAF50", Period: Monthly, Default: true},
	{Name: "Wants", Percentage: 30, Icon: "shopping-bag", Color: "#2196F3", Period: Monthly, Default: true},
	{Name: "Savings", Percentage: 20, Icon: "piggy-bank", Color: "#FFC107", Period: Monthly, Default: true},
}

// DefaultSplit returns the canonical 50/30/20 category set for a user.
// The percentages already sum to 100, so seeding needs no rescale.
func DefaultSplit(userID string, now time.Time) []Category {
	out := make([]Category, len(defaultSplit))
	for i, c := range defaultSplit {
		c.UserID = userID
		c.CreatedAt = now.UnixMilli()
		c.UpdatedAt = now.UnixMilli()
		out[i] = c
	}
	return out
}

// PeriodWindow returns the trailing window covered by a budget period.
func PeriodWindow(p Period) time.Duration {
	var days int64
	switch p {
	case Weekly:
		days = 7
	case Yearly:
		days = 365
	default:
		days = 30
	}
	return time.Duration(days*dayMillis) * time.Millisecond
}

// IncomeBasis is the total income within the trailing 30-day window
// ending at now. It is the multiplier base for percentage-to-amount
// derivation.
func IncomeBasis(txs []Transaction, now time.Time) float64 {
	start := now.Add(-time.Duration(incomeWindowDays*dayMillis) * time.Millisecond)
	var total float64
	for _, tx := range txs {
		if tx.Kind != Income {
			continue
		}
		if tx.OccurredAt.Before(start) || tx.OccurredAt.After(now) {
			continue
		}
		total += tx.Amount
	}
	return total
}

// BudgetAmount derives the spendable amount for a percentage share.
func BudgetAmount(percentage, basis float64) float64 {
	return percentage / 100 * basis
}

// ApplyBasis recomputes every category's derived amount against basis.
func ApplyBasis(cats []Category, basis float64) []Category {
	out := append([]Category(nil), cats...)
	for i := range out {
		out[i].Amount = BudgetAmount(out[i].Percentage, basis)
	}
	return out
}

// SpentInPeriod re-scans transactions for the category's expenses within
// its trailing period window ending at now. Nothing is maintained
// incrementally; every call walks the full snapshot.
func SpentInPeriod(txs []Transaction, cat Category, now time.Time) float64 {
	return SpendByCategory(txs, cat.Name, now.Add(-PeriodWindow(cat.Period)), now)
}

// RescaleSplit sets the edited category's percentage to pNew, clamped to
// [0, 100], and proportionally redistributes the remaining share across
// the other categories, flooring each at 0. The input is taken as-is:
// repeated edits rescale from the live, possibly already-rescaled state
// rather than from a canonical baseline, so repeated passes drift.
func RescaleSplit(cats []Category, editedID string, pNew float64) ([]Category, error) {
	if math.IsNaN(pNew) || math.IsInf(pNew, 0) {
		return nil, fmt.Errorf("%w: percentage must be a finite number", ErrInvalidArgument)
	}
	pNew = math.Min(100, math.Max(0, pNew))

	edited := -1
	var totalOthers float64
	for i, c := range cats {
		if c.ID == editedID {
			edited = i
			continue
		}
		totalOthers += c.Percentage
	}
	if edited == -1 {
		return nil, fmt.Errorf("%w: category %s", ErrNotFound, editedID)
	}

	out := append([]Category(nil), cats...)
	out[edited].Percentage = pNew

	// totalOthers == 0 means the edited category is effectively alone;
	// there is nothing to redistribute.
	if totalOthers > 0 {
		scale := (100 - pNew) / totalOthers
		for i := range out {
			if i == edited {
				continue
			}
			out[i].Percentage = math.Max(0, out[i].Percentage*scale)
		}
	}
	return out, nil
}

// PercentageSum adds up the split's percentage shares.
func PercentageSum(cats []Category) float64 {
	var sum float64
	for _, c := range cats {
		sum += c.Percentage
	}
	return sum
}

// SplitSavable reports whether the split may be persisted: the sum must
// equal 100.0 at display precision (one decimal place), absorbing
// floating-point noise introduced by rescaling.
func SplitSavable(cats []Category) bool {
	return math.Round(PercentageSum(cats)*10)/10 == 100.0
}
