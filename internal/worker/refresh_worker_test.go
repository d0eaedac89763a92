package worker

import (
	"context"
	"testing"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store"
	"fintrack/internal/store/memory"
)

func newTestWorker(t *testing.T) (*RefreshWorker, *memory.Store) {
	t.Helper()

	st := memory.New()
	budgets := services.NewBudgetService(st, nil)
	return NewRefreshWorker(budgets, time.Minute), st
}

func seedUser(t *testing.T, st *memory.Store, userID string) {
	t.Helper()

	ctx := context.Background()
	budgets := services.NewBudgetService(st, nil)
	if _, err := budgets.Categories(ctx, userID); err != nil {
		t.Fatalf("seed categories: %v", err)
	}

	_, err := st.UpsertTransaction(ctx, core.Transaction{
		UserID:     userID,
		Title:      "Salary",
		Amount:     1000,
		Kind:       core.Income,
		OccurredAt: time.Now().Add(-24 * time.Hour),
	})
	if err != nil {
		t.Fatalf("seed transaction: %v", err)
	}
}

func TestHandleChangeRefreshesBudgets(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()
	seedUser(t, st, "u1")

	msg := amqp.NewChangeMessage("u1", store.CollectionTransactions, amqp.OpUpsert, "tx1")
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	cats, err := st.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range cats {
		want := c.Percentage / 100 * 1000
		if c.Amount != want {
			t.Errorf("%s amount = %v, want %v", c.Name, c.Amount, want)
		}
	}
}

func TestHandleChangeIgnoresOtherCollections(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()
	seedUser(t, st, "u1")

	msg := amqp.NewChangeMessage("u1", store.CollectionProfile, amqp.OpUpsert, "u1")
	if err := w.HandleChange(ctx, msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}

	cats, err := st.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	for _, c := range cats {
		if c.Amount != 0 {
			t.Errorf("%s amount = %v, want 0 before any transaction refresh", c.Name, c.Amount)
		}
	}

	// The user is still remembered for the next sweep.
	if got := w.users(); len(got) != 1 || got[0] != "u1" {
		t.Errorf("users = %v, want [u1]", got)
	}
}

func TestHandleChangeDropsAnonymousMessages(t *testing.T) {
	w, _ := newTestWorker(t)

	msg := amqp.NewChangeMessage("", store.CollectionTransactions, amqp.OpClear, "")
	if err := w.HandleChange(context.Background(), msg); err != nil {
		t.Fatalf("HandleChange: %v", err)
	}
	if got := w.users(); len(got) != 0 {
		t.Errorf("users = %v, want empty", got)
	}
}

func TestSweepRefreshesRememberedUsers(t *testing.T) {
	w, st := newTestWorker(t)
	ctx := context.Background()
	seedUser(t, st, "u1")

	w.remember("u1")
	w.Sweep(ctx)

	cats, err := st.ListCategories(ctx, "u1")
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	var needs core.Category
	for _, c := range cats {
		if c.Name == "Needs" {
			needs = c
		}
	}
	if needs.Amount != 500 {
		t.Errorf("Needs amount = %v, want 500 after sweep", needs.Amount)
	}
}
