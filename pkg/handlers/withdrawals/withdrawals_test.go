package withdrawals_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/chris/referral-ledger/pkg/api"
	handler "github.com/chris/referral-ledger/pkg/handlers/withdrawals"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	notify_mocks "github.com/chris/referral-ledger/pkg/notify/mocks"
	"github.com/chris/referral-ledger/pkg/storage"
	"github.com/chris/referral-ledger/pkg/storage/mocks"
	"github.com/chris/referral-ledger/pkg/withdrawals"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pendingRequest(id uuid.UUID) *models.WithdrawalRequest {
	return &models.WithdrawalRequest{
		Id:            id.String(),
		AccountId:     "a",
		Amount:        200,
		PaymentMethod: models.TELEBIRR,
		Status:        models.PENDING,
	}
}

func TestListWithdrawals(t *testing.T) {
	t.Run("Filtered by status", func(t *testing.T) {
		mockStorage := new(mocks.WithdrawalStore)
		mockStorage.On("ListWithdrawals", mock.Anything, models.PENDING).Return([]models.WithdrawalRequest{*pendingRequest(uuid.New())}, nil)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), nil)

		status := api.Pending
		rr := httptest.NewRecorder()
		h.ListWithdrawals(rr, httptest.NewRequest(http.MethodGet, "/admin/withdrawals?status=pending", nil), api.ListWithdrawalsParams{Status: &status})

		assert.Equal(t, http.StatusOK, rr.Code)
		var reqs []api.Withdrawal
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reqs))
		assert.Len(t, reqs, 1)
		mockStorage.AssertExpectations(t)
	})

	t.Run("All", func(t *testing.T) {
		mockStorage := new(mocks.WithdrawalStore)
		mockStorage.On("ListWithdrawals", mock.Anything, models.WithdrawalStatus("")).Return([]models.WithdrawalRequest{}, nil)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), nil)

		rr := httptest.NewRecorder()
		h.ListWithdrawals(rr, httptest.NewRequest(http.MethodGet, "/admin/withdrawals", nil), api.ListWithdrawalsParams{})

		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Unknown status", func(t *testing.T) {
		mockStorage := new(mocks.WithdrawalStore)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), nil)

		status := api.WithdrawalStatus("paid")
		rr := httptest.NewRecorder()
		h.ListWithdrawals(rr, httptest.NewRequest(http.MethodGet, "/admin/withdrawals?status=paid", nil), api.ListWithdrawalsParams{Status: &status})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "ListWithdrawals", mock.Anything, mock.Anything)
	})
}

func TestApproveWithdrawal(t *testing.T) {
	t.Run("Success notifies owner", func(t *testing.T) {
		id := uuid.New()
		approved := pendingRequest(id)
		approved.Status = models.APPROVED
		approved.Note = "sent"

		mockStorage := new(mocks.WithdrawalStore)
		mockStorage.On("ApproveWithdrawal", mock.Anything, id.String(), "sent").Return(approved, nil)
		notifier := notify_mocks.NewNotifier(t)
		notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
			return n.Kind == notify.KindWithdrawalApproved && n.Recipient == "a"
		})).Return(nil).Once()
		dispatcher := notify.NewDispatcher(notifier, nil)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), dispatcher)

		req := httptest.NewRequest(http.MethodPost, "/admin/withdrawals/"+id.String()+"/approve", strings.NewReader(`{"note":"sent"}`))
		rr := httptest.NewRecorder()
		h.ApproveWithdrawal(rr, req, id)
		dispatcher.Wait()

		assert.Equal(t, http.StatusOK, rr.Code)
		var out api.Withdrawal
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &out))
		assert.Equal(t, api.Approved, out.Status)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Already decided", func(t *testing.T) {
		id := uuid.New()
		mockStorage := new(mocks.WithdrawalStore)
		mockStorage.On("ApproveWithdrawal", mock.Anything, id.String(), "").Return(nil, storage.ErrRequestNotPending)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), nil)

		rr := httptest.NewRecorder()
		h.ApproveWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/", http.NoBody), id)

		assert.Equal(t, http.StatusConflict, rr.Code)
	})

	t.Run("Unknown request", func(t *testing.T) {
		id := uuid.New()
		mockStorage := new(mocks.WithdrawalStore)
		mockStorage.On("ApproveWithdrawal", mock.Anything, id.String(), "").Return(nil, storage.ErrRequestNotFound)
		h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), nil)

		rr := httptest.NewRecorder()
		h.ApproveWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/", http.NoBody), id)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})
}

func TestRejectWithdrawal(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()
	rejected := pendingRequest(id)
	rejected.Status = models.REJECTED
	rejected.Note = "wrong account"

	mockStorage := new(mocks.WithdrawalStore)
	mockStorage.On("RejectWithdrawal", mock.Anything, id.String(), "wrong account").Return(rejected, nil).Once()
	mockStorage.On("RejectWithdrawal", mock.Anything, id.String(), "wrong account").Return(nil, storage.ErrRequestNotPending).Once()
	notifier := notify_mocks.NewNotifier(t)
	notifier.On("Notify", mock.Anything, mock.MatchedBy(func(n notify.Notification) bool {
		return n.Kind == notify.KindWithdrawalRejected && n.Note == "wrong account"
	})).Return(nil).Once()
	dispatcher := notify.NewDispatcher(notifier, nil)
	h := handler.NewWithdrawalHandler(withdrawals.NewLedger(mockStorage, 100, "", nil), dispatcher)

	body := `{"note":"wrong account"}`
	rr := httptest.NewRecorder()
	h.RejectWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)).WithContext(ctx), id)
	dispatcher.Wait()
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = httptest.NewRecorder()
	h.RejectWithdrawal(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)).WithContext(ctx), id)
	assert.Equal(t, http.StatusConflict, rr.Code)

	mockStorage.AssertExpectations(t)
}
