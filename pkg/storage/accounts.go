package storage

import (
	"context"

	"github.com/chris/referral-ledger/pkg/models"
)

// AccountReader defines the interface for reading accounts.
type AccountReader interface {
	// GetAccount retrieves an account by its external id.
	GetAccount(ctx context.Context, accountID string) (*models.Account, error)

	// GetAccountByReferralCode retrieves the account owning a referral code.
	GetAccountByReferralCode(ctx context.Context, code string) (*models.Account, error)

	// ListReferrals retrieves all accounts that registered with the given referral code.
	ListReferrals(ctx context.Context, code string) ([]models.Account, error)

	// ListAccounts retrieves all accounts.
	ListAccounts(ctx context.Context) ([]models.Account, error)
}

// AccountManager defines the interface for registering accounts.
type AccountManager interface {
	// RegisterOrGet returns the account for accountID, creating it when it does not exist.
	// The inviter code is only considered on creation. The boolean reports whether the
	// account was created by this call.
	RegisterOrGet(ctx context.Context, accountID, displayName, inviterCode string) (*models.Account, bool, error)
}

// AccountStore combines the reader and manager interfaces.
type AccountStore interface {
	AccountReader
	AccountManager
}
