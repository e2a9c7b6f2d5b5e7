package storage

import (
	"context"

	"github.com/chris/referral-ledger/pkg/models"
)

// PurchaseStore defines the pending-purchase queue and the privileged confirmation
// that consumes it. Confirmation is the only operation that credits commission.
type PurchaseStore interface {
	// AddPendingPurchase records a purchase awaiting confirmation.
	AddPendingPurchase(ctx context.Context, purchase *models.PendingPurchase) (*models.PendingPurchase, error)

	// ListPendingPurchases retrieves all purchases awaiting confirmation, oldest first.
	ListPendingPurchases(ctx context.Context) ([]models.PendingPurchase, error)

	// ConfirmPurchase atomically assigns the package, pays the referrer's commission and
	// removes every matching pending purchase.
	ConfirmPurchase(ctx context.Context, confirmation *models.PurchaseConfirmation) (*models.PurchaseConfirmation, error)
}
