package memory

import (
	"context"
	"fmt"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage"
	"github.com/google/uuid"
)

// AddPendingPurchase records a purchase awaiting confirmation. Duplicates are allowed.
func (s *Store) AddPendingPurchase(ctx context.Context, purchase *models.PendingPurchase) (*models.PendingPurchase, error) {
	var out models.PendingPurchase
	err := s.mutate(ctx, func() (bool, error) {
		if _, ok := s.accounts[purchase.AccountId]; !ok {
			return false, storage.ErrAccountNotFound
		}

		out = *purchase
		out.Id = uuid.New().String()
		out.CreatedAt = s.now()
		s.purchases = append(s.purchases, out)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// ListPendingPurchases retrieves all pending purchases, oldest first.
func (s *Store) ListPendingPurchases(ctx context.Context) ([]models.PendingPurchase, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.PendingPurchase{}, s.purchases...), nil
}

// ConfirmPurchase assigns the package to the account, credits the referrer's
// commission and drops every pending purchase for the same account and package,
// all in one critical section. Commission for a given account and package is
// paid at most once; a repeated confirmation only refreshes the package.
func (s *Store) ConfirmPurchase(ctx context.Context, c *models.PurchaseConfirmation) (*models.PurchaseConfirmation, error) {
	out := *c
	err := s.mutate(ctx, func() (bool, error) {
		acc, ok := s.accounts[c.AccountId]
		if !ok {
			return false, storage.ErrAccountNotFound
		}

		now := s.now()
		acc.Package = c.PackageName
		acc.PackageConfirmedAt = &now
		out.ConfirmedAt = now

		// A referral code that no longer resolves means no referrer.
		if referrerID, ok := s.byCode[acc.ReferredBy]; ok && acc.ReferredBy != "" && referrerID != acc.Id {
			out.ReferrerId = referrerID
			if c.Commission > 0 {
				txID := models.CommissionTransactionID(acc.Id, c.PackageName)
				if s.paid[txID] {
					out.AlreadyPaid = true
				} else {
					referrer := s.accounts[referrerID]
					referrer.Balance += c.Commission
					out.ReferrerBalance = referrer.Balance
					s.appendEntryLocked(models.LedgerEntry{
						TransactionID: txID,
						AccountID:     referrerID,
						Kind:          models.EntryCommission,
						Credit:        c.Commission,
						Description:   fmt.Sprintf("Commission for %s purchase by %s", c.PackageName, acc.Id),
					})
					s.paid[txID] = true
					out.CommissionPaid = true
				}
			}
		}

		kept := make([]models.PendingPurchase, 0, len(s.purchases))
		for _, p := range s.purchases {
			if p.AccountId == acc.Id && models.SamePackage(p.PackageName, c.PackageName) {
				out.RemovedPending++
				continue
			}
			kept = append(kept, p)
		}
		s.purchases = kept

		out.Account = copyAccount(acc)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}
