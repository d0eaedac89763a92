package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store/memory"
)

func newTransactionFixture(t *testing.T) *TransactionService {
	t.Helper()
	svc := NewTransactionService(memory.New(), nil)
	svc.clock = func() time.Time { return testNow }
	return svc
}

func TestCreateTransaction(t *testing.T) {
	svc := newTransactionFixture(t)
	ctx := context.Background()

	tx, err := svc.Create(ctx, "u1", core.Transaction{
		Title:      "Groceries",
		Amount:     55.5,
		Kind:       core.Expense,
		OccurredAt: testNow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if tx.ID == "" {
		t.Error("expected a generated id")
	}
	if tx.CreatedAt != testNow.UnixMilli() || tx.UpdatedAt != testNow.UnixMilli() {
		t.Errorf("timestamps = %d/%d", tx.CreatedAt, tx.UpdatedAt)
	}

	t.Run("invalid record", func(t *testing.T) {
		_, err := svc.Create(ctx, "u1", core.Transaction{Title: "", Amount: 1, Kind: core.Expense, OccurredAt: testNow})
		if !errors.Is(err, core.ErrInvalidArgument) {
			t.Fatalf("got %v, want ErrInvalidArgument", err)
		}
	})

	t.Run("no user", func(t *testing.T) {
		_, err := svc.Create(ctx, "", core.Transaction{Title: "x", Amount: 1, Kind: core.Expense, OccurredAt: testNow})
		if !errors.Is(err, core.ErrNotAuthenticated) {
			t.Fatalf("got %v, want ErrNotAuthenticated", err)
		}
	})
}

func TestUpdateTransactionReplacesWholesale(t *testing.T) {
	svc := newTransactionFixture(t)
	ctx := context.Background()

	created, err := svc.Create(ctx, "u1", core.Transaction{
		Title: "Groceries", Amount: 50, Kind: core.Expense, Description: "weekly", OccurredAt: testNow,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Edit = full-record replacement: fields not set on the replacement
	// are gone afterwards.
	updated, err := svc.Update(ctx, "u1", core.Transaction{
		ID: created.ID, Title: "Groceries+", Amount: 60, Kind: core.Expense, OccurredAt: testNow,
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Description != "" {
		t.Errorf("description survived a wholesale replace: %q", updated.Description)
	}
	if updated.CreatedAt != created.CreatedAt {
		t.Errorf("created timestamp changed on update")
	}

	t.Run("unknown id", func(t *testing.T) {
		_, err := svc.Update(ctx, "u1", core.Transaction{
			ID: "missing", Title: "x", Amount: 1, Kind: core.Expense, OccurredAt: testNow,
		})
		if !errors.Is(err, core.ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})
}

func TestSummarize(t *testing.T) {
	svc := newTransactionFixture(t)
	ctx := context.Background()

	for _, in := range []struct {
		amount float64
		kind   core.Kind
	}{
		{3000, core.Income}, {1200, core.Expense}, {300, core.Expense},
	} {
		if _, err := svc.Create(ctx, "u1", core.Transaction{
			Title: "t", Amount: in.amount, Kind: in.kind, OccurredAt: testNow,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	sum, err := svc.Summarize(ctx, "u1")
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if sum.TotalIncome != 3000 || sum.TotalExpense != 1500 || sum.Net != 1500 {
		t.Fatalf("summary = %+v", sum)
	}
}

func TestRecent(t *testing.T) {
	svc := newTransactionFixture(t)
	ctx := context.Background()

	days := []int{-1, -5, -3}
	for i, d := range days {
		if _, err := svc.Create(ctx, "u1", core.Transaction{
			Title: string(rune('a' + i)), Amount: 1, Kind: core.Expense,
			OccurredAt: testNow.AddDate(0, 0, d),
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	recent, err := svc.Recent(ctx, "u1", 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("got %d, want 2", len(recent))
	}
	if recent[0].Title != "a" || recent[1].Title != "c" {
		t.Errorf("order = %s, %s", recent[0].Title, recent[1].Title)
	}

	if _, err := svc.Recent(ctx, "u1", -1); !errors.Is(err, core.ErrInvalidArgument) {
		t.Fatalf("got %v, want ErrInvalidArgument", err)
	}
}

func TestClear(t *testing.T) {
	svc := newTransactionFixture(t)
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		if _, err := svc.Create(ctx, "u1", core.Transaction{
			Title: "t", Amount: 1, Kind: core.Expense, OccurredAt: testNow,
		}); err != nil {
			t.Fatalf("create: %v", err)
		}
	}

	if err := svc.Clear(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	txs, err := svc.List(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 0 {
		t.Fatalf("%d transactions survived clear", len(txs))
	}
}
