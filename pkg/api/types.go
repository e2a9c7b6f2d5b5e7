// Package api defines the HTTP request and response types and the chi server
// wiring for the referral ledger API.
package api

import (
	"time"

	openapi_types "github.com/oapi-codegen/runtime/types"
)

// Defines values for WithdrawalStatus.
const (
	Pending  WithdrawalStatus = "pending"
	Approved WithdrawalStatus = "approved"
	Rejected WithdrawalStatus = "rejected"
)

// Defines values for DialogueOutcome.
const (
	Started        DialogueOutcome = "started"
	NoSession      DialogueOutcome = "no_session"
	Cancelled      DialogueOutcome = "cancelled"
	Reprompt       DialogueOutcome = "reprompt"
	AwaitingMethod DialogueOutcome = "awaiting_method"
	Failed         DialogueOutcome = "failed"
	Submitted      DialogueOutcome = "submitted"
)

// Account defines model for Account.
type Account struct {
	Id                 string     `json:"id"`
	DisplayName        string     `json:"display_name"`
	ReferralCode       string     `json:"referral_code"`
	ReferredBy         *string    `json:"referred_by,omitempty"`
	Balance            int64      `json:"balance"`
	Package            *string    `json:"package,omitempty"`
	PackageConfirmedAt *time.Time `json:"package_confirmed_at,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
}

// RegisterAccount defines model for RegisterAccount.
type RegisterAccount struct {
	Id          string `json:"id" validate:"required,max=64"`
	DisplayName string `json:"display_name" validate:"max=128"`
	InviterCode string `json:"inviter_code,omitempty" validate:"omitempty,alphanum,max=16"`
}

// Registration defines model for Registration.
type Registration struct {
	Account Account `json:"account"`
	Created bool    `json:"created"`
}

// NewPurchase defines model for NewPurchase.
type NewPurchase struct {
	AccountId   string `json:"account_id" validate:"required,max=64"`
	PackageName string `json:"package_name" validate:"required,max=64"`
	Note        string `json:"note,omitempty" validate:"max=512"`
}

// PendingPurchase defines model for PendingPurchase.
type PendingPurchase struct {
	Id          openapi_types.UUID `json:"id"`
	AccountId   string             `json:"account_id"`
	PackageName string             `json:"package_name"`
	Note        *string            `json:"note,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}

// ConfirmPurchaseRequest defines model for ConfirmPurchaseRequest.
type ConfirmPurchaseRequest struct {
	AccountId   string `json:"account_id" validate:"required,max=64"`
	PackageName string `json:"package_name" validate:"required,max=64"`
}

// PurchaseConfirmation defines model for PurchaseConfirmation.
type PurchaseConfirmation struct {
	Account        Account   `json:"account"`
	PackageName    string    `json:"package_name"`
	ReferrerId     *string   `json:"referrer_id,omitempty"`
	Commission     int64     `json:"commission"`
	CommissionPaid bool      `json:"commission_paid"`
	AlreadyPaid    bool      `json:"already_paid"`
	RemovedPending int       `json:"removed_pending"`
	ConfirmedAt    time.Time `json:"confirmed_at"`
}

// WithdrawalStatus defines model for WithdrawalStatus.
type WithdrawalStatus string

// Withdrawal defines model for Withdrawal.
type Withdrawal struct {
	Id            openapi_types.UUID `json:"id"`
	AccountId     string             `json:"account_id"`
	Amount        int64              `json:"amount"`
	PaymentMethod string             `json:"payment_method"`
	Status        WithdrawalStatus   `json:"status"`
	Note          *string            `json:"note,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`
}

// WithdrawalDecision defines model for WithdrawalDecision.
type WithdrawalDecision struct {
	Note string `json:"note,omitempty" validate:"max=512"`
}

// DialogueOutcome defines model for DialogueOutcome.
type DialogueOutcome string

// DialogueMessage defines model for DialogueMessage.
type DialogueMessage struct {
	Text string `json:"text" validate:"required,max=256"`
}

// DialogueReply defines model for DialogueReply.
type DialogueReply struct {
	Outcome     DialogueOutcome `json:"outcome"`
	Stage       *string         `json:"stage,omitempty"`
	Amount      *int64          `json:"amount,omitempty"`
	Balance     *int64          `json:"balance,omitempty"`
	MinWithdraw *int64          `json:"min_withdraw,omitempty"`
	Error       *string         `json:"error,omitempty"`
	Withdrawal  *Withdrawal     `json:"withdrawal,omitempty"`
}

// LedgerEntry defines model for LedgerEntry.
type LedgerEntry struct {
	EntryId       *string   `json:"entry_id,omitempty"`
	TransactionId string    `json:"transaction_id"`
	AccountId     string    `json:"account_id"`
	Kind          string    `json:"kind"`
	Debit         *int64    `json:"debit,omitempty"`
	Credit        *int64    `json:"credit,omitempty"`
	Description   string    `json:"description"`
	Timestamp     time.Time `json:"timestamp"`
}

// Error defines model for Error.
type Error struct {
	Message string            `json:"message"`
	Details map[string]string `json:"details,omitempty"`
}

// ListWithdrawalsParams defines parameters for ListWithdrawals.
type ListWithdrawalsParams struct {
	Status *WithdrawalStatus `form:"status,omitempty" json:"status,omitempty"`
}

// ListLedgerEntriesParams defines parameters for ListLedgerEntries.
type ListLedgerEntriesParams struct {
	Limit *int32 `form:"limit,omitempty" json:"limit,omitempty"`
}
