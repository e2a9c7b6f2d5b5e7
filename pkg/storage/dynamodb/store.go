package dynamodb

import (
	"context"
	"sync"

	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/referral-ledger/pkg/storage"
)

// DynamoDBAPI is the subset of the DynamoDB client used by Store.
type DynamoDBAPI interface {
	Scan(ctx context.Context, params *dynamodb.ScanInput, optFns ...func(*dynamodb.Options)) (*dynamodb.ScanOutput, error)
	BatchWriteItem(ctx context.Context, params *dynamodb.BatchWriteItemInput, optFns ...func(*dynamodb.Options)) (*dynamodb.BatchWriteItemOutput, error)
	TransactWriteItems(ctx context.Context, params *dynamodb.TransactWriteItemsInput, optFns ...func(*dynamodb.Options)) (*dynamodb.TransactWriteItemsOutput, error)
}

// Store implements the Persister interface using AWS DynamoDB. Each kind of
// record lives in its own table keyed by its id.
type Store struct {
	Client               DynamoDBAPI
	AccountsTableName    string
	PurchasesTableName   string
	WithdrawalsTableName string
	LedgerTableName      string

	// written holds a fingerprint of every item known to be in DynamoDB, per
	// table, so Persist only sends what changed.
	mu      sync.Mutex
	written map[string]map[string]string

	// transactLimit is the largest change set written in one transaction.
	transactLimit int
}

// New creates a new Store.
func New(client DynamoDBAPI, accountsTable, purchasesTable, withdrawalsTable, ledgerTable string) *Store {
	return &Store{
		Client:               client,
		AccountsTableName:    accountsTable,
		PurchasesTableName:   purchasesTable,
		WithdrawalsTableName: withdrawalsTable,
		LedgerTableName:      ledgerTable,
		written:              make(map[string]map[string]string),
		transactLimit:        maxTransactItems,
	}
}

// Make sure we conform to the interface
var _ storage.Persister = (*Store)(nil)
