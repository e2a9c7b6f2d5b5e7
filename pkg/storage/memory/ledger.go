package memory

import (
	"context"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/google/uuid"
)

func (s *Store) appendEntryLocked(entry models.LedgerEntry) {
	entry.EntryID = uuid.New().String()
	entry.Timestamp = s.now()
	s.ledger = append(s.ledger, entry)
}

// ListLedgerEntries retrieves the most recent ledger entries, newest first.
// A non-positive limit returns every entry.
func (s *Store) ListLedgerEntries(ctx context.Context, limit int32) ([]models.LedgerEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	n := len(s.ledger)
	if limit > 0 && int(limit) < n {
		n = int(limit)
	}

	entries := make([]models.LedgerEntry, 0, n)
	for i := len(s.ledger) - 1; i >= 0 && len(entries) < n; i-- {
		entries = append(entries, s.ledger[i])
	}
	return entries, nil
}
