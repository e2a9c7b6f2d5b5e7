package storage

import (
	"context"

	"github.com/chris/referral-ledger/pkg/models"
)

// WithdrawalReader defines the interface for reading withdrawal requests.
type WithdrawalReader interface {
	// GetWithdrawal retrieves a withdrawal request by its ID.
	GetWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error)

	// ListWithdrawals retrieves withdrawal requests with the given status, or all of them when status is empty.
	ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error)

	// ListWithdrawalsByAccount retrieves all withdrawal requests made by an account.
	ListWithdrawalsByAccount(ctx context.Context, accountID string) ([]models.WithdrawalRequest, error)
}

// WithdrawalManager defines the interface for the withdrawal request lifecycle.
type WithdrawalManager interface {
	// CreateWithdrawal atomically debits the amount from the account and records a pending request.
	CreateWithdrawal(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error)

	// ApproveWithdrawal moves a pending request to approved.
	ApproveWithdrawal(ctx context.Context, requestID, note string) (*models.WithdrawalRequest, error)

	// RejectWithdrawal moves a pending request to rejected and credits the amount back.
	RejectWithdrawal(ctx context.Context, requestID, reason string) (*models.WithdrawalRequest, error)
}

// WithdrawalStore combines the reader and manager interfaces.
type WithdrawalStore interface {
	WithdrawalReader
	WithdrawalManager
}
