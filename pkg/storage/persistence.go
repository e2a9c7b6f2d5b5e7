package storage

import (
	"context"

	"github.com/chris/referral-ledger/pkg/models"
)

// Persister is the durable backend behind the in-memory store. The store loads
// everything once at startup and hands over the full state after every mutation.
type Persister interface {
	// LoadAll returns the last persisted state, or an empty state if nothing was persisted yet.
	LoadAll(ctx context.Context) (*models.State, error)

	// Persist writes the full state.
	Persist(ctx context.Context, state *models.State) error
}
