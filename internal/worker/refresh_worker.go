// Package worker keeps derived budget figures fresh. It listens for
// record change notifications and recomputes per-category amounts and
// spent totals, with a periodic full sweep as a backstop for lost
// messages.
package worker

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"fintrack/internal/amqp"
	"fintrack/internal/log"
	"fintrack/internal/services"
	"fintrack/internal/store"
)

const refreshTimeout = 30 * time.Second

// RefreshWorker recomputes derived budget state for users whose
// transactions changed.
type RefreshWorker struct {
	budgets  *services.BudgetService
	interval time.Duration
	logger   *log.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

func NewRefreshWorker(budgets *services.BudgetService, interval time.Duration) *RefreshWorker {
	return &RefreshWorker{
		budgets:  budgets,
		interval: interval,
		logger:   log.NewComponent(log.ComponentWorker),
		seen:     make(map[string]struct{}),
	}
}

// Run consumes change notifications and sweeps periodically until the
// context is cancelled. Both loops share the context; either failing
// stops the worker.
func (w *RefreshWorker) Run(ctx context.Context, amqpURL, exchange, queue string) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return amqp.ConsumeChangesWithRetry(ctx, amqpURL, exchange, queue, func(msg *amqp.ChangeMessage) error {
			return w.HandleChange(ctx, msg)
		})
	})
	g.Go(func() error {
		return w.runSweep(ctx)
	})

	return g.Wait()
}

// HandleChange refreshes the user's budgets when their transactions
// changed. Category and profile changes only mark the user for the next
// sweep; their derived state is recomputed on read.
func (w *RefreshWorker) HandleChange(ctx context.Context, msg *amqp.ChangeMessage) error {
	if msg.UserID == "" {
		w.logger.WarnContext(ctx, "Change message without user, dropping",
			log.FieldCollection, msg.Collection,
			log.FieldOperation, msg.Op)
		return nil
	}

	w.remember(msg.UserID)

	if msg.Collection != store.CollectionTransactions {
		return nil
	}

	refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
	defer cancel()

	if _, err := w.budgets.RefreshDerived(refreshCtx, msg.UserID); err != nil {
		return fmt.Errorf("refresh budgets for %s: %w", msg.UserID, err)
	}

	w.logger.InfoContext(ctx, "Budgets refreshed",
		log.FieldUserID, msg.UserID,
		log.FieldOperation, msg.Op,
		log.FieldRecordID, msg.RecordID)
	return nil
}

// runSweep refreshes every user seen so far at the configured interval.
func (w *RefreshWorker) runSweep(ctx context.Context) error {
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			w.Sweep(ctx)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// Sweep refreshes all known users. Per-user failures are logged and do
// not stop the sweep.
func (w *RefreshWorker) Sweep(ctx context.Context) {
	for _, userID := range w.users() {
		refreshCtx, cancel := context.WithTimeout(ctx, refreshTimeout)
		_, err := w.budgets.RefreshDerived(refreshCtx, userID)
		cancel()

		if err != nil {
			w.logger.ErrorContext(ctx, "Sweep refresh failed",
				log.FieldUserID, userID,
				log.FieldError, err.Error())
		}
	}
}

func (w *RefreshWorker) remember(userID string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.seen[userID] = struct{}{}
}

func (w *RefreshWorker) users() []string {
	w.mu.Lock()
	defer w.mu.Unlock()

	out := make([]string, 0, len(w.seen))
	for u := range w.seen {
		out = append(out, u)
	}
	return out
}
