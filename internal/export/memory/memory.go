// Package memory provides an in-memory ledger, a test double for the export
// worker. The memory backend runs without any ledger at all.
package memory

import (
	"context"
	"fmt"
	"sync"

	"pitaka/internal/core"
)

type Ledger struct {
	mu    sync.Mutex
	items []core.Transaction
}

func New() *Ledger {
	return &Ledger{}
}

// Append stores the transaction and returns a synthetic row reference.
func (l *Ledger) Append(_ context.Context, tx core.Transaction) (string, error) {
	if err := tx.Validate(); err != nil {
		return "", err
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	l.items = append(l.items, tx)
	return fmt.Sprintf("mem:%d", len(l.items)), nil
}

// Items returns a copy of everything appended so far.
func (l *Ledger) Items() []core.Transaction {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]core.Transaction, len(l.items))
	copy(out, l.items)
	return out
}
