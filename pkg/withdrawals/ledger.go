// Package withdrawals implements the withdrawal request lifecycle on top of
// the reservation model: funds leave the balance when a request is created and
// return only when it is rejected.
package withdrawals

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/chris/referral-ledger/pkg/metrics"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/storage"
)

// DefaultMinWithdraw is the smallest amount that may be withdrawn when none is configured.
const DefaultMinWithdraw int64 = 100

// Result is a withdrawal request together with the notifications it owes.
type Result struct {
	Request       *models.WithdrawalRequest
	Notifications []notify.Notification
}

// Ledger creates and decides withdrawal requests.
type Ledger struct {
	store       storage.WithdrawalStore
	minWithdraw int64
	adminID     string
	logger      *slog.Logger
}

// NewLedger creates a new Ledger. adminID receives the notification for every new request.
func NewLedger(store storage.WithdrawalStore, minWithdraw int64, adminID string, logger *slog.Logger) *Ledger {
	if minWithdraw <= 0 {
		minWithdraw = DefaultMinWithdraw
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{store: store, minWithdraw: minWithdraw, adminID: adminID, logger: logger}
}

// MinWithdraw returns the smallest amount that may be withdrawn.
func (l *Ledger) MinWithdraw() int64 {
	return l.minWithdraw
}

// Create reserves amount from the account and records a pending request.
func (l *Ledger) Create(ctx context.Context, accountID string, amount int64, method models.PaymentMethod) (*Result, error) {
	if amount < l.minWithdraw {
		return nil, storage.ErrBelowMinimumWithdrawal
	}
	if !method.Valid() {
		return nil, storage.ErrInvalidPaymentMethod
	}

	req, err := l.store.CreateWithdrawal(ctx, &models.WithdrawalRequest{
		AccountId:     accountID,
		Amount:        amount,
		PaymentMethod: method,
	})
	if err != nil {
		metrics.Withdrawals.WithLabelValues("refused").Inc()
		return nil, fmt.Errorf("failed to create withdrawal: %w", err)
	}

	metrics.Withdrawals.WithLabelValues("created").Inc()
	l.logger.Info("withdrawal requested", "withdrawal_id", req.Id, "account_id", accountID, "amount", amount, "method", method)

	result := &Result{Request: req}
	if l.adminID != "" {
		result.Notifications = append(result.Notifications, notify.Notification{
			Kind:          notify.KindWithdrawalRequested,
			Recipient:     l.adminID,
			AccountID:     accountID,
			Amount:        amount,
			WithdrawalID:  req.Id,
			PaymentMethod: method,
			CreatedAt:     req.CreatedAt,
		})
	}
	return result, nil
}

// Approve marks a pending request approved. The balance is not touched.
func (l *Ledger) Approve(ctx context.Context, requestID, note string) (*Result, error) {
	req, err := l.store.ApproveWithdrawal(ctx, requestID, note)
	if err != nil {
		return nil, fmt.Errorf("failed to approve withdrawal: %w", err)
	}

	metrics.Withdrawals.WithLabelValues("approved").Inc()
	l.logger.Info("withdrawal approved", "withdrawal_id", req.Id, "account_id", req.AccountId, "amount", req.Amount)
	return &Result{Request: req, Notifications: []notify.Notification{ownerNotification(notify.KindWithdrawalApproved, req)}}, nil
}

// Reject marks a pending request rejected and returns the reserved amount to the balance.
func (l *Ledger) Reject(ctx context.Context, requestID, reason string) (*Result, error) {
	req, err := l.store.RejectWithdrawal(ctx, requestID, reason)
	if err != nil {
		return nil, fmt.Errorf("failed to reject withdrawal: %w", err)
	}

	metrics.Withdrawals.WithLabelValues("rejected").Inc()
	l.logger.Info("withdrawal rejected", "withdrawal_id", req.Id, "account_id", req.AccountId, "amount", req.Amount, "reason", reason)
	return &Result{Request: req, Notifications: []notify.Notification{ownerNotification(notify.KindWithdrawalRejected, req)}}, nil
}

// List returns requests with the given status, or all requests when status is empty.
func (l *Ledger) List(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	if status != "" && status != models.PENDING && !status.IsTerminal() {
		return nil, fmt.Errorf("unknown withdrawal status %q", status)
	}
	return l.store.ListWithdrawals(ctx, status)
}

// ListByAccount returns every request made by an account.
func (l *Ledger) ListByAccount(ctx context.Context, accountID string) ([]models.WithdrawalRequest, error) {
	return l.store.ListWithdrawalsByAccount(ctx, accountID)
}

func ownerNotification(kind notify.Kind, req *models.WithdrawalRequest) notify.Notification {
	return notify.Notification{
		Kind:          kind,
		Recipient:     req.AccountId,
		AccountID:     req.AccountId,
		Amount:        req.Amount,
		WithdrawalID:  req.Id,
		PaymentMethod: req.PaymentMethod,
		Note:          req.Note,
		CreatedAt:     req.UpdatedAt,
	}
}
