// Package export defines the outbound ledger port used by the sync worker.
package export

import (
	"context"

	"pitaka/internal/core"
)

// LedgerWriter appends one transaction to an external append-only ledger.
type LedgerWriter interface {
	Append(ctx context.Context, tx core.Transaction) (rowRef string, err error)
}
