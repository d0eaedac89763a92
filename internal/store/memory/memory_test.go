package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

func TestTransactionRoundTrip(t *testing.T) {
	s := New()
	ctx := context.Background()

	id, err := s.UpsertTransaction(ctx, core.Transaction{
		UserID:     "u1",
		Title:      "Groceries",
		Amount:     42,
		Kind:       core.Expense,
		OccurredAt: time.Now(),
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if id == "" {
		t.Fatal("expected a generated id")
	}

	txs, err := s.ListTransactions(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(txs) != 1 || txs[0].ID != id {
		t.Fatalf("list = %+v", txs)
	}

	// Records are scoped per user.
	other, err := s.ListTransactions(ctx, "u2")
	if err != nil {
		t.Fatalf("list other user: %v", err)
	}
	if len(other) != 0 {
		t.Fatalf("u2 sees %d transactions", len(other))
	}

	if err := s.DeleteTransaction(ctx, "u1", id); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := s.DeleteTransaction(ctx, "u1", id); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("second delete = %v, want ErrNotFound", err)
	}
}

func TestClearTransactions(t *testing.T) {
	s := New()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := s.UpsertTransaction(ctx, core.Transaction{
			UserID: "u1", Title: "t", Amount: 1, Kind: core.Expense, OccurredAt: time.Now(),
		}); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}

	if err := s.ClearTransactions(ctx, "u1"); err != nil {
		t.Fatalf("clear: %v", err)
	}
	txs, _ := s.ListTransactions(ctx, "u1")
	if len(txs) != 0 {
		t.Fatalf("got %d transactions after clear", len(txs))
	}
}

func TestReplaceCategories(t *testing.T) {
	s := New()
	ctx := context.Background()

	if _, err := s.UpsertCategory(ctx, core.Category{UserID: "u1", Name: "Custom", Percentage: 100, Period: core.Monthly}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	if err := s.ReplaceCategories(ctx, "u1", core.DefaultSplit("u1", time.Now())); err != nil {
		t.Fatalf("replace: %v", err)
	}

	cats, err := s.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cats) != 3 {
		t.Fatalf("got %d categories, want 3", len(cats))
	}
	for _, c := range cats {
		if c.Name == "Custom" {
			t.Fatal("replace kept the old set")
		}
		if c.ID == "" {
			t.Fatal("replace did not assign ids")
		}
	}
}

func TestProfileNotFound(t *testing.T) {
	s := New()
	if _, err := s.GetProfile(context.Background(), "nobody"); !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("got %v, want ErrNotFound", err)
	}
}

func TestWatchDeliversChanges(t *testing.T) {
	s := New()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, err := s.Watch(ctx, "u1")
	if err != nil {
		t.Fatalf("watch: %v", err)
	}

	if _, err := s.UpsertTransaction(context.Background(), core.Transaction{
		UserID: "u1", Title: "t", Amount: 1, Kind: core.Income, OccurredAt: time.Now(),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	select {
	case ev := <-ch:
		if ev.Collection != store.CollectionTransactions || ev.UserID != "u1" {
			t.Fatalf("event = %+v", ev)
		}
	case <-time.After(time.Second):
		t.Fatal("no change event delivered")
	}

	// Other users' changes are filtered out.
	if _, err := s.UpsertTransaction(context.Background(), core.Transaction{
		UserID: "u2", Title: "t", Amount: 1, Kind: core.Income, OccurredAt: time.Now(),
	}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	select {
	case ev := <-ch:
		t.Fatalf("unexpected event %+v", ev)
	case <-time.After(50 * time.Millisecond):
	}

	cancel()
	select {
	case _, open := <-ch:
		if open {
			t.Fatal("channel should close after cancel")
		}
	case <-time.After(time.Second):
		t.Fatal("channel not closed after cancel")
	}
}
