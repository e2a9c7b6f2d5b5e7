package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/chris/referral-ledger/pkg/models"
)

// Kind defines the type of a notification.
type Kind string

const (
	// KindCommissionCredited tells a referrer their balance was credited.
	KindCommissionCredited Kind = "commission_credited"
	// KindPackageActivated tells a buyer their package is active.
	KindPackageActivated Kind = "package_activated"
	// KindWithdrawalRequested tells the administrator a withdrawal awaits a decision.
	KindWithdrawalRequested Kind = "withdrawal_requested"
	KindWithdrawalApproved  Kind = "withdrawal_approved"
	KindWithdrawalRejected  Kind = "withdrawal_rejected"
)

// Notification is a message owed to a recipient after a committed state change.
type Notification struct {
	Kind          Kind                 `json:"kind"`
	Recipient     string               `json:"recipient"`
	AccountID     string               `json:"account_id"`
	Amount        int64                `json:"amount,omitempty"`
	Balance       int64                `json:"balance,omitempty"`
	PackageName   string               `json:"package_name,omitempty"`
	WithdrawalID  string               `json:"withdrawal_id,omitempty"`
	PaymentMethod models.PaymentMethod `json:"payment_method,omitempty"`
	Note          string               `json:"note,omitempty"`
	CreatedAt     time.Time            `json:"created_at"`
}

// Notifier delivers a notification to its recipient.
type Notifier interface {
	Notify(ctx context.Context, n Notification) error
}

// Text renders the notification as a plain chat message.
func (n Notification) Text() string {
	switch n.Kind {
	case KindCommissionCredited:
		return fmt.Sprintf("You earned %d commission because %s activated the %s package. Balance: %d.", n.Amount, n.AccountID, n.PackageName, n.Balance)
	case KindPackageActivated:
		return fmt.Sprintf("Your %s package is now active.", n.PackageName)
	case KindWithdrawalRequested:
		return fmt.Sprintf("New withdrawal request %s\nAccount: %s\nAmount: %d\nMethod: %s", n.WithdrawalID, n.AccountID, n.Amount, n.PaymentMethod)
	case KindWithdrawalApproved:
		return fmt.Sprintf("Your withdrawal of %d via %s was approved.", n.Amount, n.PaymentMethod)
	case KindWithdrawalRejected:
		msg := fmt.Sprintf("Your withdrawal of %d was rejected and the amount was returned to your balance.", n.Amount)
		if n.Note != "" {
			msg += " Reason: " + n.Note
		}
		return msg
	default:
		return string(n.Kind)
	}
}
