// Package mongo is the cloud document store backend. One database holds
// the transactions, categories and profiles collections; every document
// carries the owning user id and reads always pull full snapshots.
package mongo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

type Store struct {
	client       *mongo.Client
	transactions *mongo.Collection
	categories   *mongo.Collection
	profiles     *mongo.Collection
}

// New connects to MongoDB and pings it before returning a store.
func New(ctx context.Context, uri, dbName string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("%w: connect to MongoDB: %v", core.ErrStoreFailure, err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("%w: ping MongoDB: %v", core.ErrStoreFailure, err)
	}

	db := client.Database(dbName)
	slog.InfoContext(ctx, "Connected to MongoDB", "database", dbName)
	return &Store{
		client:       client,
		transactions: db.Collection(store.CollectionTransactions),
		categories:   db.Collection(store.CollectionCategories),
		profiles:     db.Collection("profiles"),
	}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *Store) ListTransactions(ctx context.Context, userID string) ([]core.Transaction, error) {
	cursor, err := s.transactions.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("%w: find transactions: %v", core.ErrStoreFailure, err)
	}
	defer cursor.Close(ctx)

	var out []core.Transaction
	for cursor.Next(ctx) {
		var doc transactionDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode transaction: %v", core.ErrStoreFailure, err)
		}
		out = append(out, doc.toCore())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate transactions: %v", core.ErrStoreFailure, err)
	}
	return out, nil
}

func (s *Store) UpsertTransaction(ctx context.Context, tx core.Transaction) (string, error) {
	if tx.ID == "" {
		tx.ID = uuid.NewString()
	}
	doc := newTransactionDoc(tx)
	_, err := s.transactions.ReplaceOne(ctx,
		bson.M{"_id": doc.ID, "userId": doc.UserID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: upsert transaction: %v", core.ErrStoreFailure, err)
	}
	return tx.ID, nil
}

func (s *Store) DeleteTransaction(ctx context.Context, userID, id string) error {
	res, err := s.transactions.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("%w: delete transaction: %v", core.ErrStoreFailure, err)
	}
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

// ClearTransactions removes the user's whole transaction set in one
// DeleteMany call, which the store applies as a single operation.
func (s *Store) ClearTransactions(ctx context.Context, userID string) error {
	if _, err := s.transactions.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("%w: clear transactions: %v", core.ErrStoreFailure, err)
	}
	return nil
}

func (s *Store) ListCategories(ctx context.Context, userID string) ([]core.Category, error) {
	cursor, err := s.categories.Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return nil, fmt.Errorf("%w: find categories: %v", core.ErrStoreFailure, err)
	}
	defer cursor.Close(ctx)

	var out []core.Category
	for cursor.Next(ctx) {
		var doc categoryDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("%w: decode category: %v", core.ErrStoreFailure, err)
		}
		out = append(out, doc.toCore())
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate categories: %v", core.ErrStoreFailure, err)
	}
	return out, nil
}

func (s *Store) UpsertCategory(ctx context.Context, cat core.Category) (string, error) {
	if cat.ID == "" {
		cat.ID = uuid.NewString()
	}
	doc := newCategoryDoc(cat)
	_, err := s.categories.ReplaceOne(ctx,
		bson.M{"_id": doc.ID, "userId": doc.UserID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return "", fmt.Errorf("%w: upsert category: %v", core.ErrStoreFailure, err)
	}
	return cat.ID, nil
}

func (s *Store) DeleteCategory(ctx context.Context, userID, id string) error {
	res, err := s.categories.DeleteOne(ctx, bson.M{"_id": id, "userId": userID})
	if err != nil {
		return fmt.Errorf("%w: delete category: %v", core.ErrStoreFailure, err)
	}
	if res.DeletedCount == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) ReplaceCategories(ctx context.Context, userID string, cats []core.Category) error {
	if _, err := s.categories.DeleteMany(ctx, bson.M{"userId": userID}); err != nil {
		return fmt.Errorf("%w: clear categories: %v", core.ErrStoreFailure, err)
	}
	for _, cat := range cats {
		cat.UserID = userID
		if _, err := s.UpsertCategory(ctx, cat); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) GetProfile(ctx context.Context, userID string) (core.Profile, error) {
	var doc profileDoc
	err := s.profiles.FindOne(ctx, bson.M{"_id": userID}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return core.Profile{}, core.ErrNotFound
	}
	if err != nil {
		return core.Profile{}, fmt.Errorf("%w: find profile: %v", core.ErrStoreFailure, err)
	}
	return doc.toCore(), nil
}

func (s *Store) UpsertProfile(ctx context.Context, p core.Profile) error {
	doc := newProfileDoc(p)
	_, err := s.profiles.ReplaceOne(ctx,
		bson.M{"_id": doc.ID},
		doc,
		options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("%w: upsert profile: %v", core.ErrStoreFailure, err)
	}
	return nil
}
