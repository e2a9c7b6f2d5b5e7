package memory

import (
	"context"
	"fmt"

	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage"
	"github.com/google/uuid"
)

// CreateWithdrawal atomically reserves funds from the account's balance and creates a pending request.
func (s *Store) CreateWithdrawal(ctx context.Context, request *models.WithdrawalRequest) (*models.WithdrawalRequest, error) {
	if request.Amount <= 0 {
		return nil, fmt.Errorf("withdrawal amount must be positive, got %d", request.Amount)
	}

	var out models.WithdrawalRequest
	err := s.mutate(ctx, func() (bool, error) {
		acc, ok := s.accounts[request.AccountId]
		if !ok {
			return false, storage.ErrAccountNotFound
		}
		if acc.Balance < request.Amount {
			return false, storage.ErrInsufficientFunds
		}

		now := s.now()
		out = *request
		out.Id = uuid.New().String()
		out.Status = models.PENDING
		out.CreatedAt = now
		out.UpdatedAt = now

		acc.Balance -= out.Amount
		s.withdrawals[out.Id] = &out
		s.requestIDs = append(s.requestIDs, out.Id)
		s.appendEntryLocked(models.LedgerEntry{
			TransactionID: out.Id,
			AccountID:     acc.Id,
			Kind:          models.EntryWithdrawalHold,
			Debit:         out.Amount,
			Description:   fmt.Sprintf("Withdrawal %s via %s", out.Id, out.PaymentMethod),
		})
		return true, nil
	})
	if err != nil {
		return nil, err
	}

	result := out
	return &result, nil
}

// ApproveWithdrawal marks a pending request approved. The funds were already
// taken from the balance when the request was created.
func (s *Store) ApproveWithdrawal(ctx context.Context, requestID, note string) (*models.WithdrawalRequest, error) {
	var out models.WithdrawalRequest
	err := s.mutate(ctx, func() (bool, error) {
		req, err := s.pendingLocked(requestID)
		if err != nil {
			return false, err
		}

		req.Status = models.APPROVED
		req.Note = note
		req.UpdatedAt = s.now()
		out = *req
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// RejectWithdrawal marks a pending request rejected and credits the reserved amount back.
func (s *Store) RejectWithdrawal(ctx context.Context, requestID, reason string) (*models.WithdrawalRequest, error) {
	var out models.WithdrawalRequest
	err := s.mutate(ctx, func() (bool, error) {
		req, err := s.pendingLocked(requestID)
		if err != nil {
			return false, err
		}
		acc, ok := s.accounts[req.AccountId]
		if !ok {
			return false, storage.ErrAccountNotFound
		}

		acc.Balance += req.Amount
		req.Status = models.REJECTED
		req.Note = reason
		req.UpdatedAt = s.now()
		s.appendEntryLocked(models.LedgerEntry{
			TransactionID: req.Id,
			AccountID:     acc.Id,
			Kind:          models.EntryWithdrawalRefund,
			Credit:        req.Amount,
			Description:   fmt.Sprintf("Refund of rejected withdrawal %s", req.Id),
		})
		out = *req
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (s *Store) pendingLocked(requestID string) (*models.WithdrawalRequest, error) {
	req, ok := s.withdrawals[requestID]
	if !ok {
		return nil, storage.ErrRequestNotFound
	}
	if req.Status != models.PENDING {
		return nil, storage.ErrRequestNotPending
	}
	return req, nil
}

// GetWithdrawal retrieves a withdrawal request by its ID.
func (s *Store) GetWithdrawal(ctx context.Context, requestID string) (*models.WithdrawalRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	req, ok := s.withdrawals[requestID]
	if !ok {
		return nil, storage.ErrRequestNotFound
	}
	out := *req
	return &out, nil
}

// ListWithdrawals retrieves requests with the given status, oldest first. An empty status lists all.
func (s *Store) ListWithdrawals(ctx context.Context, status models.WithdrawalStatus) ([]models.WithdrawalRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []models.WithdrawalRequest{}
	for _, id := range s.requestIDs {
		if req := s.withdrawals[id]; status == "" || req.Status == status {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}

// ListWithdrawalsByAccount retrieves all requests made by an account, oldest first.
func (s *Store) ListWithdrawalsByAccount(ctx context.Context, accountID string) ([]models.WithdrawalRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	requests := []models.WithdrawalRequest{}
	for _, id := range s.requestIDs {
		if req := s.withdrawals[id]; req.AccountId == accountID {
			requests = append(requests, *req)
		}
	}
	return requests, nil
}
