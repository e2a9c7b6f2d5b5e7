package memory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage"
)

// fundedStore returns a store where account "a" holds 200 earned from "b" buying Basic.
func fundedStore(t *testing.T) *Store {
	t.Helper()
	store := newTestStore(t, nil)
	seedReferral(t, store)
	_, err := store.ConfirmPurchase(context.Background(), &models.PurchaseConfirmation{AccountId: "b", PackageName: "Basic", Commission: 200})
	require.NoError(t, err)
	return store
}

func balanceOf(t *testing.T, store *Store, id string) int64 {
	t.Helper()
	acc, err := store.GetAccount(context.Background(), id)
	require.NoError(t, err)
	return acc.Balance
}

func TestCreateWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Reserves funds", func(t *testing.T) {
		store := fundedStore(t)

		req, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 200, PaymentMethod: models.CBE})
		require.NoError(t, err)
		assert.NotEmpty(t, req.Id)
		assert.Equal(t, models.PENDING, req.Status)
		assert.Equal(t, int64(0), balanceOf(t, store, "a"))

		entries, err := store.ListLedgerEntries(ctx, 1)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, models.EntryWithdrawalHold, entries[0].Kind)
		assert.Equal(t, req.Id, entries[0].TransactionID)
		assert.Equal(t, int64(200), entries[0].Debit)
	})

	t.Run("Insufficient funds", func(t *testing.T) {
		store := fundedStore(t)

		_, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 300, PaymentMethod: models.CBE})
		assert.ErrorIs(t, err, storage.ErrInsufficientFunds)
		assert.Equal(t, int64(200), balanceOf(t, store, "a"))

		all, err := store.ListWithdrawals(ctx, "")
		require.NoError(t, err)
		assert.Empty(t, all)
	})

	t.Run("Account not found", func(t *testing.T) {
		store := fundedStore(t)
		_, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "ghost", Amount: 100, PaymentMethod: models.CBE})
		assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	})

	t.Run("Non positive amount", func(t *testing.T) {
		store := fundedStore(t)
		_, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 0, PaymentMethod: models.CBE})
		assert.Error(t, err)
	})

	t.Run("Concurrent requests never overdraw", func(t *testing.T) {
		store := fundedStore(t)

		var wg sync.WaitGroup
		var mu sync.Mutex
		succeeded := 0
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if _, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 100, PaymentMethod: models.BOA}); err == nil {
					mu.Lock()
					succeeded++
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.Equal(t, 2, succeeded)
		assert.Equal(t, int64(0), balanceOf(t, store, "a"))
	})
}

func TestDecideWithdrawal(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve leaves balance untouched", func(t *testing.T) {
		store := fundedStore(t)
		req, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 100, PaymentMethod: models.TELEBIRR})
		require.NoError(t, err)

		approved, err := store.ApproveWithdrawal(ctx, req.Id, "paid")
		require.NoError(t, err)
		assert.Equal(t, models.APPROVED, approved.Status)
		assert.Equal(t, "paid", approved.Note)
		assert.Equal(t, int64(100), balanceOf(t, store, "a"))

		_, err = store.RejectWithdrawal(ctx, req.Id, "too late")
		assert.ErrorIs(t, err, storage.ErrRequestNotPending)
		assert.Equal(t, int64(100), balanceOf(t, store, "a"))
	})

	t.Run("Reject credits back", func(t *testing.T) {
		store := fundedStore(t)
		req, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 200, PaymentMethod: models.CBE})
		require.NoError(t, err)

		rejected, err := store.RejectWithdrawal(ctx, req.Id, "bad details")
		require.NoError(t, err)
		assert.Equal(t, models.REJECTED, rejected.Status)
		assert.Equal(t, "bad details", rejected.Note)
		assert.Equal(t, int64(200), balanceOf(t, store, "a"))

		_, err = store.RejectWithdrawal(ctx, req.Id, "again")
		assert.ErrorIs(t, err, storage.ErrRequestNotPending)
		assert.Equal(t, int64(200), balanceOf(t, store, "a"))

		_, err = store.ApproveWithdrawal(ctx, req.Id, "")
		assert.ErrorIs(t, err, storage.ErrRequestNotPending)

		entries, err := store.ListLedgerEntries(ctx, 0)
		require.NoError(t, err)
		require.Len(t, entries, 3)
		assert.Equal(t, models.EntryWithdrawalRefund, entries[0].Kind)
		assert.Equal(t, int64(200), entries[0].Credit)
	})

	t.Run("Unknown request", func(t *testing.T) {
		store := fundedStore(t)
		_, err := store.ApproveWithdrawal(ctx, "missing", "")
		assert.ErrorIs(t, err, storage.ErrRequestNotFound)
		_, err = store.RejectWithdrawal(ctx, "missing", "")
		assert.ErrorIs(t, err, storage.ErrRequestNotFound)
		_, err = store.GetWithdrawal(ctx, "missing")
		assert.ErrorIs(t, err, storage.ErrRequestNotFound)
	})

	t.Run("Racing decisions, first wins", func(t *testing.T) {
		store := fundedStore(t)
		req, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 200, PaymentMethod: models.CBE})
		require.NoError(t, err)

		var wg sync.WaitGroup
		errs := make([]error, 2)
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = store.ApproveWithdrawal(ctx, req.Id, "")
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = store.RejectWithdrawal(ctx, req.Id, "")
		}()
		wg.Wait()

		notPending := 0
		for _, err := range errs {
			if errors.Is(err, storage.ErrRequestNotPending) {
				notPending++
			} else {
				assert.NoError(t, err)
			}
		}
		assert.Equal(t, 1, notPending)

		final, err := store.GetWithdrawal(ctx, req.Id)
		require.NoError(t, err)
		if final.Status == models.APPROVED {
			assert.Equal(t, int64(0), balanceOf(t, store, "a"))
		} else {
			assert.Equal(t, models.REJECTED, final.Status)
			assert.Equal(t, int64(200), balanceOf(t, store, "a"))
		}
	})
}

func TestListWithdrawals(t *testing.T) {
	ctx := context.Background()
	store := fundedStore(t)

	first, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 100, PaymentMethod: models.CBE})
	require.NoError(t, err)
	second, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 100, PaymentMethod: models.BOA})
	require.NoError(t, err)
	_, err = store.ApproveWithdrawal(ctx, first.Id, "")
	require.NoError(t, err)

	pending, err := store.ListWithdrawals(ctx, models.PENDING)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, second.Id, pending[0].Id)

	all, err := store.ListWithdrawals(ctx, "")
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, first.Id, all[0].Id)

	mine, err := store.ListWithdrawalsByAccount(ctx, "a")
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	theirs, err := store.ListWithdrawalsByAccount(ctx, "b")
	require.NoError(t, err)
	assert.Empty(t, theirs)
}

func TestListLedgerEntries(t *testing.T) {
	ctx := context.Background()
	store := fundedStore(t)
	_, err := store.CreateWithdrawal(ctx, &models.WithdrawalRequest{AccountId: "a", Amount: 100, PaymentMethod: models.CBE})
	require.NoError(t, err)

	all, err := store.ListLedgerEntries(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, models.EntryWithdrawalHold, all[0].Kind)
	assert.Equal(t, models.EntryCommission, all[1].Kind)

	limited, err := store.ListLedgerEntries(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)

	more, err := store.ListLedgerEntries(ctx, 10)
	require.NoError(t, err)
	assert.Len(t, more, 2)
}
