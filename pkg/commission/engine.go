// Package commission confirms package purchases and credits the referrer.
package commission

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/chris/referral-ledger/pkg/metrics"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/storage"
)

// Result is the outcome of a confirmation together with the notifications it owes.
type Result struct {
	Confirmation  *models.PurchaseConfirmation
	Notifications []notify.Notification
}

// Engine implements purchase recording and confirmation.
type Engine struct {
	store   storage.PurchaseStore
	catalog *models.Catalog
	logger  *slog.Logger
}

// NewEngine creates a new Engine.
func NewEngine(store storage.PurchaseStore, catalog *models.Catalog, logger *slog.Logger) *Engine {
	if catalog == nil {
		catalog = models.NewCatalog(models.DefaultPackages...)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{store: store, catalog: catalog, logger: logger}
}

// RecordPurchase adds a purchase to the pending queue.
func (e *Engine) RecordPurchase(ctx context.Context, accountID, packageName, note string) (*models.PendingPurchase, error) {
	packageName = strings.TrimSpace(packageName)
	if packageName == "" {
		return nil, fmt.Errorf("package name is required")
	}
	return e.store.AddPendingPurchase(ctx, &models.PendingPurchase{
		AccountId:   accountID,
		PackageName: packageName,
		Note:        note,
	})
}

// PendingPurchases lists the purchases awaiting confirmation.
func (e *Engine) PendingPurchases(ctx context.Context) ([]models.PendingPurchase, error) {
	return e.store.ListPendingPurchases(ctx)
}

// ConfirmPurchase activates the package for the account and credits the
// referrer. Unknown packages are activated without commission.
func (e *Engine) ConfirmPurchase(ctx context.Context, accountID, packageName string) (*Result, error) {
	packageName = strings.TrimSpace(packageName)
	if packageName == "" {
		return nil, fmt.Errorf("package name is required")
	}

	var commission int64
	if pkg, ok := e.catalog.Lookup(packageName); ok {
		packageName = pkg.Name
		commission = pkg.Commission
	}

	confirmation, err := e.store.ConfirmPurchase(ctx, &models.PurchaseConfirmation{
		AccountId:   accountID,
		PackageName: packageName,
		Commission:  commission,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to confirm purchase: %w", err)
	}

	result := &Result{Confirmation: confirmation}
	result.Notifications = append(result.Notifications, notify.Notification{
		Kind:        notify.KindPackageActivated,
		Recipient:   accountID,
		AccountID:   accountID,
		PackageName: packageName,
		CreatedAt:   confirmation.ConfirmedAt,
	})

	switch {
	case confirmation.CommissionPaid:
		metrics.CommissionsPaid.WithLabelValues(packageName).Inc()
		metrics.CommissionAmount.Add(float64(commission))
		result.Notifications = append(result.Notifications, notify.Notification{
			Kind:        notify.KindCommissionCredited,
			Recipient:   confirmation.ReferrerId,
			AccountID:   accountID,
			Amount:      commission,
			Balance:     confirmation.ReferrerBalance,
			PackageName: packageName,
			CreatedAt:   confirmation.ConfirmedAt,
		})
		e.logger.Info("commission credited", "referrer_id", confirmation.ReferrerId, "account_id", accountID, "package", packageName, "amount", commission)
	case confirmation.AlreadyPaid:
		e.logger.Warn("commission already paid for package, skipping", "account_id", accountID, "package", packageName)
	}

	return result, nil
}
