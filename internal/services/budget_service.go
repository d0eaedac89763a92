package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"fintrack/internal/amqp"
	"fintrack/internal/core"
	"fintrack/internal/store"
)

// BudgetService orchestrates budget category operations: lazy seeding of
// the default split, interactive percentage edits, and recomputation of
// the derived amount and spent caches.
type BudgetService struct {
	store      store.RecordStore
	amqpClient *amqp.Client
	clock      func() time.Time
}

func NewBudgetService(st store.RecordStore, amqpClient *amqp.Client) *BudgetService {
	return &BudgetService{
		store:      st,
		amqpClient: amqpClient,
		clock:      time.Now,
	}
}

// SplitPreview is a pending, unsaved edit set. Savable gates persistence:
// the presentation layer blocks Save and surfaces Sum while it is false.
type SplitPreview struct {
	Categories []core.Category
	Sum        float64
	Savable    bool
}

// Categories returns the user's budget set, seeding the default 50/30/20
// split on first access, with derived amounts and spent recomputed
// against the live transaction snapshot.
func (s *BudgetService) Categories(ctx context.Context, userID string) ([]core.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if len(cats) == 0 {
		cats, err = s.seedDefaults(ctx, userID)
		if err != nil {
			return nil, err
		}
	}

	return s.enrich(ctx, userID, cats)
}

// seedDefaults installs the canonical split one category at a time. A
// failure partway leaves the already-written categories in place; the
// next zero-category access retries the whole seed.
func (s *BudgetService) seedDefaults(ctx context.Context, userID string) ([]core.Category, error) {
	now := s.clock()
	seeded := core.DefaultSplit(userID, now)
	for i := range seeded {
		id, err := s.store.UpsertCategory(ctx, seeded[i])
		if err != nil {
			return nil, fmt.Errorf("seed category %s: %w", seeded[i].Name, err)
		}
		seeded[i].ID = id
	}

	slog.InfoContext(ctx, "Seeded default budget split", "user_id", userID)
	s.publishChange(ctx, userID, store.CollectionCategories, amqp.OpUpsert, "")
	return seeded, nil
}

// enrich recomputes the derived caches on a snapshot without persisting.
func (s *BudgetService) enrich(ctx context.Context, userID string, cats []core.Category) ([]core.Category, error) {
	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := s.clock()
	cats = core.ApplyBasis(cats, core.IncomeBasis(txs, now))
	for i := range cats {
		cats[i].Spent = core.SpentInPeriod(txs, cats[i], now)
	}
	return cats, nil
}

// PreviewSplit applies an interactive percentage edit and returns the
// pending set without committing it.
func (s *BudgetService) PreviewSplit(ctx context.Context, userID, categoryID string, percentage float64) (SplitPreview, error) {
	if err := requireUser(userID); err != nil {
		return SplitPreview{}, err
	}

	cats, err := s.Categories(ctx, userID)
	if err != nil {
		return SplitPreview{}, err
	}

	edited, err := core.RescaleSplit(cats, categoryID, percentage)
	if err != nil {
		return SplitPreview{}, err
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return SplitPreview{}, fmt.Errorf("list transactions: %w", err)
	}
	edited = core.ApplyBasis(edited, core.IncomeBasis(txs, s.clock()))

	return SplitPreview{
		Categories: edited,
		Sum:        core.PercentageSum(edited),
		Savable:    core.SplitSavable(edited),
	}, nil
}

// SaveSplit persists a pending edit set. The sum must equal 100.0 at
// display precision or the save is refused.
func (s *BudgetService) SaveSplit(ctx context.Context, userID string, cats []core.Category) error {
	if err := requireUser(userID); err != nil {
		return err
	}
	if !core.SplitSavable(cats) {
		return fmt.Errorf("%w: percentages sum to %.1f, expected 100.0",
			core.ErrInvalidArgument, core.PercentageSum(cats))
	}

	now := s.clock()
	for i := range cats {
		cats[i].UserID = userID
		cats[i].UpdatedAt = now.UnixMilli()
		if err := cats[i].Validate(); err != nil {
			return fmt.Errorf("%w: category %s: %v", core.ErrInvalidArgument, cats[i].Name, err)
		}
	}
	for _, cat := range cats {
		if _, err := s.store.UpsertCategory(ctx, cat); err != nil {
			return fmt.Errorf("save category %s: %w", cat.Name, err)
		}
	}

	slog.InfoContext(ctx, "Saved budget split",
		"user_id", userID,
		"categories", len(cats))
	s.publishChange(ctx, userID, store.CollectionCategories, amqp.OpUpsert, "")
	return nil
}

// ResetSplit replaces the whole active set with the canonical 50/30/20
// categories recomputed against the current income basis. Old custom
// categories are abandoned, not merged.
func (s *BudgetService) ResetSplit(ctx context.Context, userID string) ([]core.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	txs, err := s.store.ListTransactions(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}

	now := s.clock()
	cats := core.ApplyBasis(core.DefaultSplit(userID, now), core.IncomeBasis(txs, now))
	for i := range cats {
		cats[i].Spent = core.SpentInPeriod(txs, cats[i], now)
	}

	if err := s.store.ReplaceCategories(ctx, userID, cats); err != nil {
		return nil, fmt.Errorf("replace categories: %w", err)
	}

	slog.InfoContext(ctx, "Reset budget split to default", "user_id", userID)
	s.publishChange(ctx, userID, store.CollectionCategories, amqp.OpUpsert, "")

	return s.store.ListCategories(ctx, userID)
}

// AddCategory inserts a category with the caller-supplied percentage.
// The rest of the split is NOT renormalized; the sum may stay off 100
// until the next interactive edit.
func (s *BudgetService) AddCategory(ctx context.Context, userID string, cat core.Category) (core.Category, error) {
	if err := requireUser(userID); err != nil {
		return core.Category{}, err
	}

	cat.UserID = userID
	cat.Name = strings.TrimSpace(cat.Name)
	if cat.Period == "" {
		cat.Period = core.Monthly
	}
	if err := cat.Validate(); err != nil {
		return core.Category{}, fmt.Errorf("%w: %v", core.ErrInvalidArgument, err)
	}

	now := s.clock()
	cat.Default = false
	cat.CreatedAt = now.UnixMilli()
	cat.UpdatedAt = now.UnixMilli()

	id, err := s.store.UpsertCategory(ctx, cat)
	if err != nil {
		return core.Category{}, fmt.Errorf("add category: %w", err)
	}
	cat.ID = id

	slog.InfoContext(ctx, "Added budget category",
		"user_id", userID,
		"category", cat.Name,
		"percentage", cat.Percentage)
	s.publishChange(ctx, userID, store.CollectionCategories, amqp.OpUpsert, id)
	return cat, nil
}

// DeleteCategory removes a non-default category without renormalizing
// the remaining percentages. Default categories are protected.
func (s *BudgetService) DeleteCategory(ctx context.Context, userID, id string) error {
	if err := requireUser(userID); err != nil {
		return err
	}

	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return fmt.Errorf("list categories: %w", err)
	}

	var found *core.Category
	for i := range cats {
		if cats[i].ID == id {
			found = &cats[i]
			break
		}
	}
	if found == nil {
		return fmt.Errorf("%w: category %s", core.ErrNotFound, id)
	}
	if found.Default {
		return fmt.Errorf("%w: default category %s cannot be deleted", core.ErrProtectedEntity, found.Name)
	}

	if err := s.store.DeleteCategory(ctx, userID, id); err != nil {
		return fmt.Errorf("delete category: %w", err)
	}

	slog.InfoContext(ctx, "Deleted budget category",
		"user_id", userID,
		"category", found.Name)
	s.publishChange(ctx, userID, store.CollectionCategories, amqp.OpDelete, id)
	return nil
}

// RefreshDerived recomputes every category's derived amount and spent
// against the live transaction set and persists the result, keeping the
// stored documents presentable. Used by the background refresher.
func (s *BudgetService) RefreshDerived(ctx context.Context, userID string) ([]core.Category, error) {
	if err := requireUser(userID); err != nil {
		return nil, err
	}

	cats, err := s.store.ListCategories(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	cats, err = s.enrich(ctx, userID, cats)
	if err != nil {
		return nil, err
	}

	now := s.clock()
	for i := range cats {
		cats[i].UpdatedAt = now.UnixMilli()
		if _, err := s.store.UpsertCategory(ctx, cats[i]); err != nil {
			return nil, fmt.Errorf("refresh category %s: %w", cats[i].Name, err)
		}
	}
	return cats, nil
}

// publishChange sends a fire-and-forget change notification. Publish
// failures are logged and never fail the request.
func (s *BudgetService) publishChange(ctx context.Context, userID, collection, op, recordID string) {
	if s.amqpClient == nil {
		return
	}
	msg := amqp.NewChangeMessage(userID, collection, op, recordID)
	if err := s.amqpClient.PublishChange(ctx, msg); err != nil {
		slog.ErrorContext(ctx, "Failed to publish change message",
			"user_id", userID,
			"collection", collection,
			"error", err)
	}
}

func requireUser(userID string) error {
	if strings.TrimSpace(userID) == "" {
		return core.ErrNotAuthenticated
	}
	return nil
}
