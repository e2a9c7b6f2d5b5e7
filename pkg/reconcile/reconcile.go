// Package reconcile audits a ledger state against its money invariants.
package reconcile

import (
	"fmt"
	"sort"

	"github.com/chris/referral-ledger/pkg/models"
)

// AccountMismatch is an account whose balance disagrees with its journal.
type AccountMismatch struct {
	AccountID string `json:"account_id"`
	Balance   int64  `json:"balance"`
	Journal   int64  `json:"journal"`
}

// Report summarises an audit.
type Report struct {
	TotalBalances   int64 `json:"total_balances"`
	TotalPending    int64 `json:"total_pending"`
	TotalApproved   int64 `json:"total_approved"`
	TotalCommission int64 `json:"total_commission"`

	NegativeBalances []string          `json:"negative_balances,omitempty"`
	Mismatches       []AccountMismatch `json:"mismatches,omitempty"`
	MissingHolds     []string          `json:"missing_holds,omitempty"`
	MissingRefunds   []string          `json:"missing_refunds,omitempty"`
}

// Balanced reports whether the audit found no discrepancy.
func (r *Report) Balanced() bool {
	return r.TotalBalances+r.TotalPending+r.TotalApproved == r.TotalCommission &&
		len(r.NegativeBalances) == 0 &&
		len(r.Mismatches) == 0 &&
		len(r.MissingHolds) == 0 &&
		len(r.MissingRefunds) == 0
}

// Err returns a descriptive error when the report is not balanced.
func (r *Report) Err() error {
	if r.Balanced() {
		return nil
	}
	return fmt.Errorf("ledger out of balance: balances %d + pending %d + approved %d != commission %d (%d negative, %d mismatched, %d missing holds, %d missing refunds)",
		r.TotalBalances, r.TotalPending, r.TotalApproved, r.TotalCommission,
		len(r.NegativeBalances), len(r.Mismatches), len(r.MissingHolds), len(r.MissingRefunds))
}

// Audit checks that money was neither created nor destroyed: every unit in a
// balance, a pending request or an approved payout came from a commission credit.
func Audit(state *models.State) *Report {
	r := &Report{}
	if state == nil {
		return r
	}

	journal := make(map[string]int64)
	holds := make(map[string]bool)
	refunds := make(map[string]bool)
	for _, e := range state.Ledger {
		journal[e.AccountID] += e.Credit - e.Debit
		switch e.Kind {
		case models.EntryCommission:
			r.TotalCommission += e.Credit
		case models.EntryWithdrawalHold:
			holds[e.TransactionID] = true
		case models.EntryWithdrawalRefund:
			refunds[e.TransactionID] = true
		}
	}

	for _, acc := range state.Accounts {
		r.TotalBalances += acc.Balance
		if acc.Balance < 0 {
			r.NegativeBalances = append(r.NegativeBalances, acc.Id)
		}
		if acc.Balance != journal[acc.Id] {
			r.Mismatches = append(r.Mismatches, AccountMismatch{AccountID: acc.Id, Balance: acc.Balance, Journal: journal[acc.Id]})
		}
	}

	for _, w := range state.Withdrawals {
		switch w.Status {
		case models.PENDING:
			r.TotalPending += w.Amount
		case models.APPROVED:
			r.TotalApproved += w.Amount
		case models.REJECTED:
			if !refunds[w.Id] {
				r.MissingRefunds = append(r.MissingRefunds, w.Id)
			}
		}
		if !holds[w.Id] {
			r.MissingHolds = append(r.MissingHolds, w.Id)
		}
	}

	sort.Strings(r.NegativeBalances)
	sort.Slice(r.Mismatches, func(i, j int) bool { return r.Mismatches[i].AccountID < r.Mismatches[j].AccountID })
	return r
}
