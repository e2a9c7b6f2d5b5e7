package main

import (
	"testing"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestCheckReconciled(t *testing.T) {
	held := models.LedgerEntry{TransactionID: "w1", AccountID: "a", Kind: models.EntryWithdrawalHold, Debit: 200}
	commission := models.LedgerEntry{TransactionID: "commission:b:basic", AccountID: "a", Kind: models.EntryCommission, Credit: 500}
	pending := models.WithdrawalRequest{Id: "w1", AccountId: "a", Amount: 200, Status: models.PENDING}

	t.Run("Balanced state is accepted", func(t *testing.T) {
		assert.NoError(t, checkReconciled(&models.State{
			Accounts:    []models.Account{{Id: "a", Balance: 300}},
			Withdrawals: []models.WithdrawalRequest{pending},
			Ledger:      []models.LedgerEntry{commission, held},
		}))
	})

	t.Run("Hold stored without the debited balance is refused", func(t *testing.T) {
		err := checkReconciled(&models.State{
			Accounts:    []models.Account{{Id: "a", Balance: 500}},
			Withdrawals: []models.WithdrawalRequest{pending},
			Ledger:      []models.LedgerEntry{commission, held},
		})
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "loaded state does not reconcile")
	})

	t.Run("Debited balance stored without its request is refused", func(t *testing.T) {
		assert.Error(t, checkReconciled(&models.State{
			Accounts: []models.Account{{Id: "a", Balance: 300}},
			Ledger:   []models.LedgerEntry{commission},
		}))
	})
}
