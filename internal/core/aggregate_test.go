package core

import (
	"errors"
	"math"
	"testing"
	"time"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func tx(title string, amount float64, k Kind, category string, occurred time.Time) Transaction {
	return Transaction{
		Title:        title,
		Amount:       amount,
		Kind:         k,
		CategoryName: category,
		OccurredAt:   occurred,
	}
}

func TestTotalByKind(t *testing.T) {
	txs := []Transaction{
		tx("salary", 3000, Income, "", day(2025, 1, 1)),
		tx("rent", 1200, Expense, "Needs", day(2025, 1, 2)),
		tx("bonus", 500, Income, "", day(2025, 1, 15)),
	}

	if got := TotalByKind(txs, Income); got != 3500 {
		t.Errorf("income total = %v, want 3500", got)
	}
	if got := TotalByKind(txs, Expense); got != 1200 {
		t.Errorf("expense total = %v, want 1200", got)
	}
	if got := TotalByKind(nil, Income); got != 0 {
		t.Errorf("empty input total = %v, want 0", got)
	}
}

func TestTotalByKindAdditive(t *testing.T) {
	a := []Transaction{
		tx("a1", 100, Expense, "Needs", day(2025, 1, 1)),
		tx("a2", 250, Expense, "Wants", day(2025, 1, 2)),
	}
	b := []Transaction{
		tx("b1", 75, Expense, "Needs", day(2025, 1, 3)),
	}

	union := append(append([]Transaction(nil), a...), b...)
	if got, want := TotalByKind(union, Expense), TotalByKind(a, Expense)+TotalByKind(b, Expense); got != want {
		t.Errorf("union total = %v, want %v", got, want)
	}
}

func TestNetBalance(t *testing.T) {
	txs := []Transaction{
		tx("salary", 3000, Income, "", day(2025, 1, 1)),
		tx("rent", 1200, Expense, "Needs", day(2025, 1, 2)),
	}
	if got := NetBalance(txs); got != 1800 {
		t.Errorf("net = %v, want 1800", got)
	}
}

func TestSpendByCategory(t *testing.T) {
	txs := []Transaction{
		tx("rent", 1200, Expense, "Needs", day(2025, 1, 1)),
		tx("food", 300, Expense, "Needs", day(2025, 1, 15)),
		tx("cinema", 40, Expense, "Wants", day(2025, 1, 15)),
		tx("salary", 3000, Income, "Needs", day(2025, 1, 15)),
		tx("late", 99, Expense, "Needs", day(2025, 2, 1)),
	}

	// Bounds are inclusive on both ends.
	got := SpendByCategory(txs, "Needs", day(2025, 1, 1), day(2025, 1, 31))
	if got != 1500 {
		t.Errorf("spend = %v, want 1500", got)
	}

	if got := SpendByCategory(txs, "Needs", day(2025, 2, 1), day(2025, 2, 1)); got != 99 {
		t.Errorf("single-day spend = %v, want 99", got)
	}
}

func TestRecentN(t *testing.T) {
	jan1 := tx("jan1", 1, Expense, "Needs", day(2025, 1, 1))
	jan5 := tx("jan5", 1, Expense, "Needs", day(2025, 1, 5))
	jan3 := tx("jan3", 1, Expense, "Needs", day(2025, 1, 3))

	got, err := RecentN([]Transaction{jan1, jan5, jan3}, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 || got[0].Title != "jan5" || got[1].Title != "jan3" {
		t.Fatalf("recent 2 = %v", titles(got))
	}

	t.Run("fewer than n returns all", func(t *testing.T) {
		got, err := RecentN([]Transaction{jan1}, 5)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(got) != 1 {
			t.Fatalf("got %d transactions, want 1", len(got))
		}
	})

	t.Run("ties keep original order", func(t *testing.T) {
		first := tx("first", 1, Expense, "Needs", day(2025, 1, 5))
		second := tx("second", 1, Expense, "Needs", day(2025, 1, 5))
		got, err := RecentN([]Transaction{first, second}, 2)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got[0].Title != "first" || got[1].Title != "second" {
			t.Fatalf("tie order = %v", titles(got))
		}
	})

	t.Run("negative n rejected", func(t *testing.T) {
		if _, err := RecentN(nil, -1); !errors.Is(err, ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("input left untouched", func(t *testing.T) {
		in := []Transaction{jan1, jan5, jan3}
		if _, err := RecentN(in, 3); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if in[0].Title != "jan1" {
			t.Fatal("RecentN mutated its input")
		}
	})
}

func titles(txs []Transaction) []string {
	out := make([]string, len(txs))
	for i, tx := range txs {
		out[i] = tx.Title
	}
	return out
}

func approxEqual(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}
