// Package memory provides in-memory implementations of the store ports,
// used by the memory backend and as test doubles.
package memory

import (
	"context"
	"strconv"
	"sync"
	"time"

	"pitaka/internal/core"
	"pitaka/internal/store"
)

type Store struct {
	mu       sync.Mutex
	seq      int
	txs      map[string][]core.Transaction         // userID -> transactions
	defs     map[string][]core.RecurringDefinition // userID -> aggregate doc
	settings map[string]core.BudgetSetting
}

func New() *Store {
	return &Store{
		txs:      make(map[string][]core.Transaction),
		defs:     make(map[string][]core.RecurringDefinition),
		settings: make(map[string]core.BudgetSetting),
	}
}

// Create stores the transaction and returns a synthetic id.
func (s *Store) Create(_ context.Context, tx core.Transaction) (string, error) {
	if tx.UserID == "" {
		return "", core.ErrUnauthenticated
	}
	if err := tx.Validate(); err != nil {
		return "", err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	tx.ID = "mem:" + strconv.Itoa(s.seq)
	now := time.Now()
	tx.CreatedAt = now
	tx.UpdatedAt = now
	s.txs[tx.UserID] = append(s.txs[tx.UserID], tx)
	return tx.ID, nil
}

// ListForUser returns a copy of the user's transactions. An unknown or
// empty user id yields an empty slice, never an error.
func (s *Store) ListForUser(_ context.Context, userID string) ([]core.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Transaction, len(s.txs[userID]))
	copy(out, s.txs[userID])
	return out, nil
}

func (s *Store) Update(_ context.Context, userID, id string, patch store.TransactionPatch) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.txs[userID]
	for i := range list {
		if list[i].ID != id {
			continue
		}
		if patch.Amount != nil {
			list[i].Amount = *patch.Amount
		}
		if patch.Description != nil {
			list[i].Description = *patch.Description
		}
		if patch.Category != nil {
			list[i].Category = *patch.Category
		}
		if patch.Date != nil {
			list[i].Date = *patch.Date
		}
		list[i].UpdatedAt = time.Now()
		return nil
	}
	return core.ErrNotFound
}

func (s *Store) Delete(_ context.Context, userID, id string) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	list := s.txs[userID]
	for i := range list {
		if list[i].ID == id {
			s.txs[userID] = append(list[:i:i], list[i+1:]...)
			return nil
		}
	}
	return core.ErrNotFound
}

// GetAll returns a copy of the user's recurring collection.
func (s *Store) GetAll(_ context.Context, userID string) ([]core.RecurringDefinition, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.RecurringDefinition, len(s.defs[userID]))
	copy(out, s.defs[userID])
	return out, nil
}

// ReplaceAll overwrites the user's whole recurring collection.
func (s *Store) ReplaceAll(_ context.Context, userID string, defs []core.RecurringDefinition) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := make([]core.RecurringDefinition, len(defs))
	copy(cp, defs)
	s.defs[userID] = cp
	return nil
}

// Get returns the user's budget setting, zero-valued when never saved.
func (s *Store) Get(_ context.Context, userID string) (core.BudgetSetting, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings[userID], nil
}

// Merge upserts the budget setting.
func (s *Store) Merge(_ context.Context, userID string, setting core.BudgetSetting) error {
	if userID == "" {
		return core.ErrUnauthenticated
	}
	if err := setting.Validate(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings[userID] = setting
	return nil
}
