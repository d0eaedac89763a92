package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"fintrack/internal/core"
	"fintrack/internal/store"
)

// ProfileService manages the singleton per-account profile record.
type ProfileService struct {
	store store.RecordStore
	clock func() time.Time
}

func NewProfileService(st store.RecordStore) *ProfileService {
	return &ProfileService{store: st, clock: time.Now}
}

// Ensure returns the user's profile, creating it with defaults on the
// first successful access.
func (s *ProfileService) Ensure(ctx context.Context, userID, name, email string) (core.Profile, error) {
	if err := requireUser(userID); err != nil {
		return core.Profile{}, err
	}

	p, err := s.store.GetProfile(ctx, userID)
	if err == nil {
		return p, nil
	}
	if !errors.Is(err, core.ErrNotFound) {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	now := s.clock().UnixMilli()
	p = core.Profile{
		ID:            userID,
		Name:          name,
		Email:         email,
		Currency:      "EUR",
		Theme:         "light",
		Notifications: true,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("create profile: %w", err)
	}

	slog.InfoContext(ctx, "Profile created", "user_id", userID)
	return p, nil
}

// Update replaces the profile record wholesale.
func (s *ProfileService) Update(ctx context.Context, p core.Profile) (core.Profile, error) {
	if err := requireUser(p.ID); err != nil {
		return core.Profile{}, err
	}

	existing, err := s.store.GetProfile(ctx, p.ID)
	if err != nil {
		return core.Profile{}, fmt.Errorf("get profile: %w", err)
	}

	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.clock().UnixMilli()
	if err := s.store.UpsertProfile(ctx, p); err != nil {
		return core.Profile{}, fmt.Errorf("update profile: %w", err)
	}
	return p, nil
}
