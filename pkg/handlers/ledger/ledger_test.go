package ledger_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/handlers/ledger"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage/mocks"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestListLedgerEntries(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.ApiStore)
		expectedEntries := []models.LedgerEntry{
			{EntryID: uuid.New().String(), Kind: models.EntryCommission, Credit: 200, Timestamp: time.Now()},
			{EntryID: uuid.New().String(), Kind: models.EntryWithdrawalHold, Debit: 100, Timestamp: time.Now().Add(-1 * time.Minute)},
		}
		mockStorage.On("ListLedgerEntries", mock.Anything, int32(20)).Return(expectedEntries, nil)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{})

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)

		var returnedEntries []api.LedgerEntry
		json.Unmarshal(rr.Body.Bytes(), &returnedEntries)
		assert.Len(t, returnedEntries, 2)
		assert.Equal(t, expectedEntries[0].EntryID, *returnedEntries[0].EntryId)
		assert.Equal(t, "commission", returnedEntries[0].Kind)
		assert.Nil(t, returnedEntries[0].Debit)

		mockStorage.AssertExpectations(t)
	})

	t.Run("Storage Error", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.ApiStore)
		mockStorage.On("ListLedgerEntries", mock.Anything, mock.Anything).Return(nil, assert.AnError)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{})

		// Assert
		assert.Equal(t, http.StatusInternalServerError, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("With Limit", func(t *testing.T) {
		// Arrange
		mockStorage := new(mocks.ApiStore)
		limit := int32(10)
		expectedEntries := []models.LedgerEntry{{EntryID: uuid.New().String()}}
		mockStorage.On("ListLedgerEntries", mock.Anything, limit).Return(expectedEntries, nil)

		h := ledger.NewLedgerHandler(mockStorage)

		req := httptest.NewRequest(http.MethodGet, "/admin/ledger?limit=10", nil)
		rr := httptest.NewRecorder()

		// Act
		h.ListLedgerEntries(rr, req, api.ListLedgerEntriesParams{Limit: &limit})

		// Assert
		assert.Equal(t, http.StatusOK, rr.Code)
		mockStorage.AssertExpectations(t)
	})

	t.Run("Invalid Limit", func(t *testing.T) {
		mockStorage := new(mocks.ApiStore)
		limit := int32(0)

		h := ledger.NewLedgerHandler(mockStorage)
		rr := httptest.NewRecorder()
		h.ListLedgerEntries(rr, httptest.NewRequest(http.MethodGet, "/admin/ledger?limit=0", nil), api.ListLedgerEntriesParams{Limit: &limit})

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		mockStorage.AssertNotCalled(t, "ListLedgerEntries", mock.Anything, mock.Anything)
	})
}
