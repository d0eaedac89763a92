// Package store defines the record store contract the services depend
// on. Backends live in subpackages; callers pick one through the
// backend factory.
package store

import (
	"context"

	"fintrack/internal/core"
)

// Collection names shared by backends and change notifications.
const (
	CollectionTransactions = "transactions"
	CollectionCategories   = "categories"
	CollectionProfile      = "profile"
)

// ChangeEvent tells subscribers that a collection changed for a user.
// Subscribers re-read the full snapshot; there is no partial merge.
type ChangeEvent struct {
	UserID     string
	Collection string
}

// Ports for record store backends.
type (
	TransactionStore interface {
		ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error)
		// UpsertTransaction replaces the full record by id, generating an
		// id on first insert when the caller supplies none.
		UpsertTransaction(ctx context.Context, tx core.Transaction) (string, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
		// ClearTransactions removes every transaction for the user as a
		// single all-or-nothing operation.
		ClearTransactions(ctx context.Context, userID string) error
	}

	CategoryStore interface {
		ListCategories(ctx context.Context, userID string) ([]core.Category, error)
		UpsertCategory(ctx context.Context, cat core.Category) (string, error)
		DeleteCategory(ctx context.Context, userID, id string) error
		// ReplaceCategories swaps the user's whole category set for cats.
		ReplaceCategories(ctx context.Context, userID string, cats []core.Category) error
	}

	ProfileStore interface {
		// GetProfile returns core.ErrNotFound when no profile exists yet.
		GetProfile(ctx context.Context, userID string) (core.Profile, error)
		UpsertProfile(ctx context.Context, p core.Profile) error
	}
)

// RecordStore is the full backend contract.
type RecordStore interface {
	TransactionStore
	CategoryStore
	ProfileStore
	Close(ctx context.Context) error
}

// Watcher is implemented by backends that can push change notifications.
// The channel closes when ctx is cancelled.
type Watcher interface {
	Watch(ctx context.Context, userID string) (<-chan ChangeEvent, error)
}
