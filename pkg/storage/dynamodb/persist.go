package dynamodb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/referral-ledger/pkg/models"
)

// maxBatchSize is the BatchWriteItem request limit.
const maxBatchSize = 25

const maxBatchAttempts = 5

// maxTransactItems is the TransactWriteItems request limit.
const maxTransactItems = 100

// item is one record to be stored, keyed by its id attribute.
type item struct {
	key   string
	value interface{}
}

type table struct {
	name    string
	keyAttr string
	items   []item
	// prune deletes stored items that are no longer part of the state.
	prune bool
}

func (s *Store) tablesFor(state *models.State) []table {
	accounts := table{name: s.AccountsTableName, keyAttr: "id"}
	for i := range state.Accounts {
		accounts.items = append(accounts.items, item{key: state.Accounts[i].Id, value: state.Accounts[i]})
	}
	purchases := table{name: s.PurchasesTableName, keyAttr: "id", prune: true}
	for i := range state.PendingPurchases {
		purchases.items = append(purchases.items, item{key: state.PendingPurchases[i].Id, value: state.PendingPurchases[i]})
	}
	requests := table{name: s.WithdrawalsTableName, keyAttr: "id"}
	for i := range state.Withdrawals {
		requests.items = append(requests.items, item{key: state.Withdrawals[i].Id, value: state.Withdrawals[i]})
	}
	ledger := table{name: s.LedgerTableName, keyAttr: "entry_id"}
	for i := range state.Ledger {
		ledger.items = append(ledger.items, item{key: state.Ledger[i].EntryID, value: state.Ledger[i]})
	}
	// Journal first, balances last, for writes too large for one transaction.
	return []table{ledger, requests, purchases, accounts}
}

func fingerprints(tables []table) (map[string]map[string]string, error) {
	out := make(map[string]map[string]string, len(tables))
	for _, t := range tables {
		prints := make(map[string]string, len(t.items))
		for _, it := range t.items {
			b, err := json.Marshal(it.value)
			if err != nil {
				return nil, fmt.Errorf("failed to fingerprint %s item %s: %w", t.name, it.key, err)
			}
			prints[it.key] = string(b)
		}
		out[t.name] = prints
	}
	return out, nil
}

// Persist writes the items that changed since the last successful call and
// deletes pending purchases that were consumed. A change set that fits in one
// TransactWriteItems call is written atomically. Larger sets fall back to
// per-table batches in journal-first order, and a table that fails is resent
// on the next call.
func (s *Store) Persist(ctx context.Context, state *models.State) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.written == nil {
		s.written = make(map[string]map[string]string)
	}

	tables := s.tablesFor(state)
	next, err := fingerprints(tables)
	if err != nil {
		return err
	}

	writes := make([][]types.WriteRequest, len(tables))
	total := 0
	for i, t := range tables {
		writes[i], err = s.changes(t, next[t.name])
		if err != nil {
			return err
		}
		total += len(writes[i])
	}

	if total > 0 && total <= s.transactLimit {
		if err := s.transactWrite(ctx, tables, writes, total); err != nil {
			return err
		}
	}

	for i, t := range tables {
		if total > s.transactLimit {
			if err := s.batchWrite(ctx, t.name, writes[i]); err != nil {
				return err
			}
		}
		s.written[t.name] = next[t.name]
	}

	return nil
}

// changes returns the puts for items whose fingerprint moved and, for pruned
// tables, the deletes for items no longer in the state.
func (s *Store) changes(t table, next map[string]string) ([]types.WriteRequest, error) {
	previous := s.written[t.name]
	var requests []types.WriteRequest

	for _, it := range t.items {
		if previous[it.key] == next[it.key] {
			continue
		}
		av, err := attributevalue.MarshalMap(it.value)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal %s item %s: %w", t.name, it.key, err)
		}
		requests = append(requests, types.WriteRequest{PutRequest: &types.PutRequest{Item: av}})
	}

	if t.prune {
		var stale []string
		for key := range previous {
			if _, ok := next[key]; !ok {
				stale = append(stale, key)
			}
		}
		sort.Strings(stale)
		for _, key := range stale {
			requests = append(requests, types.WriteRequest{DeleteRequest: &types.DeleteRequest{
				Key: map[string]types.AttributeValue{t.keyAttr: &types.AttributeValueMemberS{Value: key}},
			}})
		}
	}

	return requests, nil
}

// transactWrite sends every change in a single all-or-nothing request.
func (s *Store) transactWrite(ctx context.Context, tables []table, writes [][]types.WriteRequest, total int) error {
	items := make([]types.TransactWriteItem, 0, total)
	for i, t := range tables {
		for _, w := range writes[i] {
			if w.PutRequest != nil {
				items = append(items, types.TransactWriteItem{Put: &types.Put{TableName: aws.String(t.name), Item: w.PutRequest.Item}})
			} else {
				items = append(items, types.TransactWriteItem{Delete: &types.Delete{TableName: aws.String(t.name), Key: w.DeleteRequest.Key}})
			}
		}
	}

	if _, err := s.Client.TransactWriteItems(ctx, &dynamodb.TransactWriteItemsInput{TransactItems: items}); err != nil {
		return fmt.Errorf("failed to execute transaction: %w", err)
	}
	return nil
}

// batchWrite sends requests in chunks, resending unprocessed items a bounded number of times.
func (s *Store) batchWrite(ctx context.Context, tableName string, requests []types.WriteRequest) error {
	for start := 0; start < len(requests); start += maxBatchSize {
		end := start + maxBatchSize
		if end > len(requests) {
			end = len(requests)
		}

		pending := map[string][]types.WriteRequest{tableName: requests[start:end]}
		for attempt := 1; len(pending[tableName]) > 0; attempt++ {
			if attempt > maxBatchAttempts {
				return fmt.Errorf("failed to write %d items to %s: unprocessed after %d attempts", len(pending[tableName]), tableName, maxBatchAttempts)
			}

			result, err := s.Client.BatchWriteItem(ctx, &dynamodb.BatchWriteItemInput{RequestItems: pending})
			if err != nil {
				return fmt.Errorf("failed to batch write to %s: %w", tableName, err)
			}
			pending = map[string][]types.WriteRequest{tableName: result.UnprocessedItems[tableName]}
		}
	}
	return nil
}
