package export

import (
	"strings"
	"testing"
	"time"

	"fintrack/internal/core"
)

func TestWriteEmptyTransactionsDefaultBudgets(t *testing.T) {
	cats := []core.Category{
		{Name: "Needs", Percentage: 50, Amount: 5000, Spent: 0},
		{Name: "Wants", Percentage: 30, Amount: 3000, Spent: 0},
		{Name: "Savings", Percentage: 20, Amount: 2000, Spent: 0},
	}

	var sb strings.Builder
	if err := Write(&sb, nil, cats); err != nil {
		t.Fatalf("write: %v", err)
	}

	want := "Transactions\n" +
		"Date,Type,Category,Amount,Description\n" +
		"\n" +
		"Budgets\n" +
		"Category,Percentage,Spent,Remaining\n" +
		"Needs,50%,0,5000\n" +
		"Wants,30%,0,3000\n" +
		"Savings,20%,0,2000\n"
	if got := sb.String(); got != want {
		t.Fatalf("output mismatch:\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestWriteTransactions(t *testing.T) {
	txs := []core.Transaction{
		{
			Title:        "Salary",
			Amount:       3000,
			Kind:         core.Income,
			CategoryName: "Needs",
			Description:  "monthly pay",
			OccurredAt:   time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			Title:        "Coffee",
			Amount:       4.5,
			Kind:         core.Expense,
			CategoryName: "Wants",
			Description:  "espresso",
			OccurredAt:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		},
	}
	cats := []core.Category{
		{Name: "Wants", Percentage: 30, Amount: 900, Spent: 4.5},
	}

	var sb strings.Builder
	if err := Write(&sb, txs, cats); err != nil {
		t.Fatalf("write: %v", err)
	}

	got := sb.String()
	for _, line := range []string{
		"2025-03-01,INCOME,Needs,3000,monthly pay",
		"2025-03-02,EXPENSE,Wants,4.5,espresso",
		"Wants,30%,4.5,895.5",
	} {
		if !strings.Contains(got, line+"\n") {
			t.Errorf("missing line %q in:\n%s", line, got)
		}
	}
}

func TestWriteDoesNotEscapeCommas(t *testing.T) {
	txs := []core.Transaction{{
		Amount:       10,
		Kind:         core.Expense,
		CategoryName: "Wants",
		Description:  "tea, biscuits",
		OccurredAt:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
	}}

	var sb strings.Builder
	if err := Write(&sb, txs, nil); err != nil {
		t.Fatalf("write: %v", err)
	}

	// Embedded commas pass through unquoted; the format accepts the
	// ambiguity.
	if !strings.Contains(sb.String(), "2025-03-02,EXPENSE,Wants,10,tea, biscuits\n") {
		t.Fatalf("comma handling changed:\n%s", sb.String())
	}
}
