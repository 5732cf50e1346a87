package services

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

// RecurringService manages a user's recurring definitions. The collection is
// loaded and replaced whole on every write, matching the store's aggregate
// document granularity.
type RecurringService struct {
	store store.RecurringStore
}

func NewRecurringService(recurringStore store.RecurringStore) *RecurringService {
	return &RecurringService{store: recurringStore}
}

// GetAll returns the user's recurring definitions.
func (s *RecurringService) GetAll(ctx context.Context, userID string) ([]core.RecurringDefinition, error) {
	return s.store.GetAll(ctx, userID)
}

// Add validates and appends a new definition. New definitions start active
// and have never materialized.
func (s *RecurringService) Add(ctx context.Context, userID string, def core.RecurringDefinition) (core.RecurringDefinition, error) {
	def.ID = uuid.NewString()
	def.IsActive = true
	def.CreatedAt = time.Now()
	def.LastMaterialized = time.Time{}
	if err := def.Validate(); err != nil {
		return core.RecurringDefinition{}, err
	}

	defs, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("load recurring collection: %w", err)
	}
	defs = append(defs, def)
	if err := s.store.ReplaceAll(ctx, userID, defs); err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("store recurring collection: %w", err)
	}

	slog.InfoContext(ctx, "Recurring definition added",
		"id", def.ID,
		"description", def.Description,
		"frequency", def.Frequency)

	return def, nil
}

// Toggle flips a definition between active and paused.
func (s *RecurringService) Toggle(ctx context.Context, userID, id string) (core.RecurringDefinition, error) {
	if userID == "" {
		return core.RecurringDefinition{}, core.ErrUnauthenticated
	}
	defs, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return core.RecurringDefinition{}, fmt.Errorf("load recurring collection: %w", err)
	}
	for i := range defs {
		if defs[i].ID != id {
			continue
		}
		defs[i].IsActive = !defs[i].IsActive
		if err := s.store.ReplaceAll(ctx, userID, defs); err != nil {
			return core.RecurringDefinition{}, fmt.Errorf("store recurring collection: %w", err)
		}
		return defs[i], nil
	}
	return core.RecurringDefinition{}, core.ErrNotFound
}

// Remove deletes a definition from the collection.
func (s *RecurringService) Remove(ctx context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	defs, err := s.store.GetAll(ctx, userID)
	if err != nil {
		return fmt.Errorf("load recurring collection: %w", err)
	}
	for i := range defs {
		if defs[i].ID == id {
			defs = append(defs[:i:i], defs[i+1:]...)
			return s.store.ReplaceAll(ctx, userID, defs)
		}
	}
	return core.ErrNotFound
}
