package dynamodb

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage/dynamodb/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newStore(client DynamoDBAPI) *Store {
	return New(client, "accounts", "purchases", "withdrawals", "ledger")
}

func scanOf(table string) interface{} {
	return mock.MatchedBy(func(in *dynamodb.ScanInput) bool { return *in.TableName == table })
}

func batchOf(table string, puts, deletes int) interface{} {
	return mock.MatchedBy(func(in *dynamodb.BatchWriteItemInput) bool {
		reqs, ok := in.RequestItems[table]
		if !ok || len(in.RequestItems) != 1 {
			return false
		}
		p, d := 0, 0
		for _, r := range reqs {
			if r.PutRequest != nil {
				p++
			}
			if r.DeleteRequest != nil {
				d++
			}
		}
		return p == puts && d == deletes
	})
}

// txOf matches a transaction holding exactly the given puts and deletes per table.
func txOf(puts, deletes map[string]int) interface{} {
	return mock.MatchedBy(func(in *dynamodb.TransactWriteItemsInput) bool {
		p, d := map[string]int{}, map[string]int{}
		for _, it := range in.TransactItems {
			if it.Put != nil {
				p[*it.Put.TableName]++
			}
			if it.Delete != nil {
				d[*it.Delete.TableName]++
			}
		}
		return assert.ObjectsAreEqual(puts, p) && assert.ObjectsAreEqual(deletes, d)
	})
}

// batchedStore writes every change set through BatchWriteItem.
func batchedStore(client DynamoDBAPI) *Store {
	store := newStore(client)
	store.transactLimit = 0
	return store
}

func sampleState() *models.State {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	return &models.State{
		Accounts: []models.Account{
			{Id: "a", ReferralCode: "AAAAAAAA", Balance: 100, CreatedAt: now},
			{Id: "b", ReferralCode: "BBBBBBBB", ReferredBy: "AAAAAAAA", Package: "Basic", PackageConfirmedAt: &now, CreatedAt: now},
		},
		PendingPurchases: []models.PendingPurchase{{Id: "p1", AccountId: "b", PackageName: "Premium", CreatedAt: now}},
		Withdrawals:      []models.WithdrawalRequest{{Id: "w1", AccountId: "a", Amount: 100, PaymentMethod: models.CBE, Status: models.PENDING, CreatedAt: now, UpdatedAt: now}},
		Ledger: []models.LedgerEntry{
			{EntryID: "e1", TransactionID: "commission:b:basic", AccountID: "a", Kind: models.EntryCommission, Credit: 200, Timestamp: now},
			{EntryID: "e2", TransactionID: "w1", AccountID: "a", Kind: models.EntryWithdrawalHold, Debit: 100, Timestamp: now},
		},
	}
}

func TestLoadAll(t *testing.T) {
	t.Run("Success with pagination", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)
		state := sampleState()

		first, _ := attributevalue.MarshalMap(state.Accounts[0])
		second, _ := attributevalue.MarshalMap(state.Accounts[1])
		lastKey := map[string]types.AttributeValue{"id": &types.AttributeValueMemberS{Value: "a"}}

		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return *in.TableName == "accounts" && in.ExclusiveStartKey == nil
		})).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{first}, LastEvaluatedKey: lastKey}, nil)
		mockClient.On("Scan", mock.Anything, mock.MatchedBy(func(in *dynamodb.ScanInput) bool {
			return *in.TableName == "accounts" && in.ExclusiveStartKey != nil
		})).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{second}}, nil)

		p1, _ := attributevalue.MarshalMap(state.PendingPurchases[0])
		mockClient.On("Scan", mock.Anything, scanOf("purchases")).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{p1}}, nil)
		w1, _ := attributevalue.MarshalMap(state.Withdrawals[0])
		mockClient.On("Scan", mock.Anything, scanOf("withdrawals")).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{w1}}, nil)
		e1, _ := attributevalue.MarshalMap(state.Ledger[0])
		e2, _ := attributevalue.MarshalMap(state.Ledger[1])
		mockClient.On("Scan", mock.Anything, scanOf("ledger")).Once().Return(&dynamodb.ScanOutput{Items: []map[string]types.AttributeValue{e1, e2}}, nil)

		loaded, err := store.LoadAll(context.Background())

		require.NoError(t, err)
		assert.Equal(t, state, loaded)
		mockClient.AssertExpectations(t)

		// Everything loaded is already stored, so persisting it again writes nothing.
		assert.NoError(t, store.Persist(context.Background(), loaded))
		mockClient.AssertNotCalled(t, "BatchWriteItem", mock.Anything, mock.Anything)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Empty tables", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)
		mockClient.On("Scan", mock.Anything, mock.Anything).Times(4).Return(&dynamodb.ScanOutput{}, nil)

		loaded, err := store.LoadAll(context.Background())

		require.NoError(t, err)
		assert.Empty(t, loaded.Accounts)
		assert.NotNil(t, loaded.Ledger)
		mockClient.AssertExpectations(t)
	})

	t.Run("Scan Fails", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)
		mockClient.On("Scan", mock.Anything, scanOf("accounts")).Once().Return(nil, errors.New("throttled"))

		_, err := store.LoadAll(context.Background())

		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to scan accounts table")
		mockClient.AssertExpectations(t)
	})
}

func TestPersist(t *testing.T) {
	ctx := context.Background()

	t.Run("Writes every table in one transaction on first persist", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		mockClient.On("TransactWriteItems", mock.Anything, txOf(
			map[string]int{"accounts": 2, "purchases": 1, "withdrawals": 1, "ledger": 2}, map[string]int{},
		)).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, sampleState()))
		mockClient.AssertExpectations(t)
		mockClient.AssertNotCalled(t, "BatchWriteItem", mock.Anything, mock.Anything)
	})

	t.Run("Writes only changes and deletes consumed purchases", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)
		mockClient.On("TransactWriteItems", mock.Anything, mock.Anything).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		require.NoError(t, store.Persist(ctx, sampleState()))

		next := sampleState()
		next.Accounts[0].Balance = 300
		next.PendingPurchases = nil

		mockClient.On("TransactWriteItems", mock.Anything, txOf(
			map[string]int{"accounts": 1}, map[string]int{"purchases": 1},
		)).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, next))
		mockClient.AssertExpectations(t)
	})

	t.Run("Failed transaction writes nothing and is resent whole", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)
		all := txOf(map[string]int{"accounts": 2, "purchases": 1, "withdrawals": 1, "ledger": 2}, map[string]int{})

		mockClient.On("TransactWriteItems", mock.Anything, all).Once().Return(nil, errors.New("TransactionCanceledException"))
		err := store.Persist(ctx, sampleState())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to execute transaction")

		mockClient.On("TransactWriteItems", mock.Anything, all).Once().Return(&dynamodb.TransactWriteItemsOutput{}, nil)
		assert.NoError(t, store.Persist(ctx, sampleState()))
		mockClient.AssertExpectations(t)
	})

	t.Run("Large change sets are batched journal first", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := batchedStore(mockClient)

		var order []string
		record := func(args mock.Arguments) {
			for name := range args.Get(1).(*dynamodb.BatchWriteItemInput).RequestItems {
				order = append(order, name)
			}
		}
		mockClient.On("BatchWriteItem", mock.Anything, mock.Anything).Times(4).Run(record).Return(&dynamodb.BatchWriteItemOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, sampleState()))
		assert.Equal(t, []string{"ledger", "withdrawals", "purchases", "accounts"}, order)
		mockClient.AssertExpectations(t)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Second table failing leaves balances unwritten", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := batchedStore(mockClient)

		mockClient.On("BatchWriteItem", mock.Anything, batchOf("ledger", 2, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("withdrawals", 1, 0)).Once().Return(nil, errors.New("network"))

		err := store.Persist(ctx, sampleState())
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "failed to batch write to withdrawals")
		mockClient.AssertNotCalled(t, "BatchWriteItem", mock.Anything, batchOf("accounts", 2, 0))
		mockClient.AssertNotCalled(t, "BatchWriteItem", mock.Anything, batchOf("purchases", 1, 0))

		// The journal is recorded as written; everything after it is resent.
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("withdrawals", 1, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("purchases", 1, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("accounts", 2, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, sampleState()))
		mockClient.AssertExpectations(t)
		mockClient.AssertNumberOfCalls(t, "BatchWriteItem", 5)
	})

	t.Run("Falls back to batches past the transaction limit", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := newStore(mockClient)

		state := &models.State{}
		for i := 0; i < maxTransactItems+5; i++ {
			state.Ledger = append(state.Ledger, models.LedgerEntry{EntryID: fmt.Sprintf("e%d", i), AccountID: "a", Kind: models.EntryCommission, Credit: 1})
		}

		mockClient.On("BatchWriteItem", mock.Anything, batchOf("ledger", 25, 0)).Times(4).Return(&dynamodb.BatchWriteItemOutput{}, nil)
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("ledger", 5, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, state))
		mockClient.AssertExpectations(t)
		mockClient.AssertNotCalled(t, "TransactWriteItems", mock.Anything, mock.Anything)
	})

	t.Run("Retries unprocessed items", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := batchedStore(mockClient)
		state := &models.State{Accounts: []models.Account{{Id: "a"}, {Id: "b"}}}

		mockClient.On("BatchWriteItem", mock.Anything, batchOf("accounts", 2, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{
			UnprocessedItems: map[string][]types.WriteRequest{"accounts": {{PutRequest: &types.PutRequest{}}}},
		}, nil)
		mockClient.On("BatchWriteItem", mock.Anything, batchOf("accounts", 1, 0)).Once().Return(&dynamodb.BatchWriteItemOutput{}, nil)

		assert.NoError(t, store.Persist(ctx, state))
		mockClient.AssertExpectations(t)
	})

	t.Run("Gives up after repeated unprocessed items", func(t *testing.T) {
		mockClient := new(mocks.DynamoDBAPI)
		store := batchedStore(mockClient)
		state := &models.State{Accounts: []models.Account{{Id: "a"}}}

		mockClient.On("BatchWriteItem", mock.Anything, mock.Anything).Times(maxBatchAttempts).Return(&dynamodb.BatchWriteItemOutput{
			UnprocessedItems: map[string][]types.WriteRequest{"accounts": {{PutRequest: &types.PutRequest{}}}},
		}, nil)

		err := store.Persist(ctx, state)
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "unprocessed after")
		mockClient.AssertExpectations(t)
	})
}
