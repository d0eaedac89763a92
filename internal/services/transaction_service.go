package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// TransactionService orchestrates transaction CRUD against the record
// store. Writes are local-first: the store write must succeed, the
// change notification is fire-and-forget.
type TransactionService struct {
	store      store.RecordStore
	amqpClient *amqp.Client
	clock      func() time.Time
}

func NewTransactionService(st store.RecordStore, amqpClient *amqp.Client) *TransactionService {
	return &TransactionService{
		store:      st,
		amqpClient: amqpClient,
		clock:      time.Now,
	}
}

// Summary holds the headline figures over the full transaction set.
type Summary struct {
	TotalIncome  float64
	TotalExpense float64
	Net          float64
}

// Create validates and stores a new transaction. The id is generated by
// the store when the caller supplies none.
func (s *TransactionService) Create(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return core.Transaction{}, err
	}

	tx.UserID = userID
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	now := s.clock()
	tx.CreatedAt = now.UnixMilli()
	tx.UpdatedAt = now.UnixMilli()

	id, err := s.store.UpsertTransaction(ctx, tx)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("save transaction: %w", err)
	}
	tx.ID = id

	slog.InfoContext(ctx, "Transaction created",
		"user_id", userID,
		"transaction_id", id,
		"kind", tx.Kind,
		"amount", tx.Amount)
	s.publishChange(ctx, userID, amqp.OpUpsert, id)
	return tx, nil
}

// Update replaces a transaction record wholesale; there is no field-level
// merge. The record must already exist.
func (s *TransactionService) Update(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return core.Transaction{}, err
	}
	if tx.ID == "" {
		return core.Transaction{}, fmt.Errorf("%w: missing transaction id", core.ErrInvalidArgument)
	}

	existing, err := s.find(ctx, userID, tx.ID)
	if err != nil {
		return core.Transaction{}, err
	}

	tx.UserID = userID
	if err := tx.Validate(); err != nil {
		return core.Transaction{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}
	tx.CreatedAt = existing.CreatedAt
	tx.UpdatedAt = s.clock().UnixMilli()

	if _, err := s.store.UpsertTransaction(ctx, tx); err != nil {
		return core.Transaction{}, fmt.Errorf("update transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction replaced",
		"user_id", userID,
		"transaction_id", tx.ID)
	s.publishChange(ctx, userID, amqp.OpUpsert, tx.ID)
	return tx, nil
}

func (s *TransactionService) Delete(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.store.DeleteTransaction(ctx, userID, id); err != nil {
		return fmt.Errorf("delete transaction: %w", err)
	}

	slog.InfoContext(ctx, "Transaction deleted",
		"user_id", userID,
		"transaction_id", id)
	s.publishChange(ctx, userID, amqp.OpDelete, id)
	return nil
}

// Clear wipes the user's full transaction set in one atomic store call.
func (s *TransactionService) Clear(ctx context.Context, userID string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	if err := s.store.ClearTransactions(ctx, userID); err != nil {
		return fmt.Errorf("clear transactions: %w", err)
	}

	slog.InfoContext(ctx, "Transactions cleared", "user_id", userID)
	s.publishChange(ctx, userID, amqp.OpClear, "")
	return nil
}

func (s *TransactionService) List(ctx context.Context, userID string) ([]core.Transaction, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	return txs, nil
}

// Recent returns the n most recent transactions by occurrence date.
func (s *TransactionService) Recent(ctx context.Context, userID string, n int) ([]core.Transaction, error) {
	txs, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return core.RecentN(txs, n)
}

// Summarize computes the headline totals over the full snapshot.
func (s *TransactionService) Summarize(ctx context.Context, userID string) (Summary, error) {
	txs, err := s.List(ctx, userID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		TotalIncome:  core.TotalByKind(txs, core.Income),
		TotalExpense: core.TotalByKind(txs, core.Expense),
		Net:          core.NetBalance(txs),
	}, nil
}

func (s *TransactionService) find(ctx context.Context, userID, id string) (core.Transaction, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return core.Transaction{}, fmt.Errorf("list transactions: %w", err)
	}
	for _, tx := range txs {
		if tx.ID == id {
			return tx, nil
		}
	}
	return core.Transaction{}, fmt.Errorf("%w: transaction %s", core.ErrNotFound, id)
}

func (s *TransactionService) publishChange(ctx context.Context, userID, op, recordID string) {
	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewChangeMessage(userID, store.CollectionTransactions, op, recordID)
	if err := s.amqpClient.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"user_id", userID,
			"op", op,
			"error", err)
	}
}
