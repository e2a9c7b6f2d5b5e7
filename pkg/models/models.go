package models

import (
	"time"
)

// WithdrawalStatus defines the possible states of a withdrawal request.
type WithdrawalStatus string

const (
	PENDING  WithdrawalStatus = "pending"
	APPROVED WithdrawalStatus = "approved"
	REJECTED WithdrawalStatus = "rejected"
)

// IsTerminal reports whether no further transition is allowed from s.
func (s WithdrawalStatus) IsTerminal() bool {
	return s == APPROVED || s == REJECTED
}

// Account represents a registered participant.
// It includes dynamodbav tags for marshalling.
type Account struct {
	Id                 string     `json:"id" dynamodbav:"id"`
	DisplayName        string     `json:"display_name" dynamodbav:"display_name"`
	ReferralCode       string     `json:"referral_code" dynamodbav:"referral_code"`
	ReferredBy         string     `json:"referred_by,omitempty" dynamodbav:"referred_by,omitempty"`
	Balance            int64      `json:"balance" dynamodbav:"balance"`
	Package            string     `json:"package,omitempty" dynamodbav:"package,omitempty"`
	PackageConfirmedAt *time.Time `json:"package_confirmed_at,omitempty" dynamodbav:"package_confirmed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at" dynamodbav:"created_at"`
}

// PendingPurchase is a purchase recorded by the administrator and awaiting confirmation.
type PendingPurchase struct {
	Id          string    `json:"id" dynamodbav:"id"`
	AccountId   string    `json:"account_id" dynamodbav:"account_id"`
	PackageName string    `json:"package_name" dynamodbav:"package_name"`
	Note        string    `json:"note,omitempty" dynamodbav:"note,omitempty"`
	CreatedAt   time.Time `json:"created_at" dynamodbav:"created_at"`
}

// WithdrawalRequest holds funds reserved from an account until an administrator decides on it.
type WithdrawalRequest struct {
	Id            string           `json:"id" dynamodbav:"id"`
	AccountId     string           `json:"account_id" dynamodbav:"account_id"`
	Amount        int64            `json:"amount" dynamodbav:"amount"`
	PaymentMethod PaymentMethod    `json:"payment_method" dynamodbav:"payment_method"`
	Status        WithdrawalStatus `json:"status" dynamodbav:"status"`
	Note          string           `json:"note,omitempty" dynamodbav:"note,omitempty"`
	CreatedAt     time.Time        `json:"created_at" dynamodbav:"created_at"`
	UpdatedAt     time.Time        `json:"updated_at" dynamodbav:"updated_at"`
}

// LedgerEntryKind identifies the balance movement a ledger entry describes.
type LedgerEntryKind string

const (
	EntryCommission       LedgerEntryKind = "commission"
	EntryWithdrawalHold   LedgerEntryKind = "withdrawal_hold"
	EntryWithdrawalRefund LedgerEntryKind = "withdrawal_refund"
)

// LedgerEntry represents a single balance movement on an account.
type LedgerEntry struct {
	EntryID       string          `json:"entry_id" dynamodbav:"entry_id"`
	TransactionID string          `json:"transaction_id" dynamodbav:"transaction_id"`
	AccountID     string          `json:"account_id" dynamodbav:"account_id"`
	Kind          LedgerEntryKind `json:"kind" dynamodbav:"kind"`
	Debit         int64           `json:"debit,omitempty" dynamodbav:"debit,omitempty"`
	Credit        int64           `json:"credit,omitempty" dynamodbav:"credit,omitempty"`
	Description   string          `json:"description" dynamodbav:"description"`
	Timestamp     time.Time       `json:"timestamp" dynamodbav:"timestamp"`
}

// PurchaseConfirmation describes the input and outcome of confirming a purchase.
// AccountId, PackageName and Commission are supplied by the caller; the rest is
// filled in by the store.
type PurchaseConfirmation struct {
	AccountId   string
	PackageName string
	Commission  int64

	ConfirmedAt     time.Time
	ReferrerId      string
	ReferrerBalance int64
	CommissionPaid  bool
	AlreadyPaid     bool
	RemovedPending  int
	Account         *Account
}

// State is the full persisted state of the ledger.
type State struct {
	Accounts         []Account           `json:"accounts"`
	PendingPurchases []PendingPurchase   `json:"pending_purchases"`
	Withdrawals      []WithdrawalRequest `json:"withdrawals"`
	Ledger           []LedgerEntry       `json:"ledger"`
}

// CommissionTransactionID is the ledger transaction id used for the commission
// paid when accountID confirms packageName.
func CommissionTransactionID(accountID, packageName string) string {
	return "commission:" + accountID + ":" + normalizePackage(packageName)
}
