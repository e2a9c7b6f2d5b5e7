package dynamodb

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/feature/dynamodb/attributevalue"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb/types"
	"github.com/chris/referral-ledger/pkg/models"
)

// LoadAll scans every table and returns the stored state. Empty tables yield an empty state.
func (s *Store) LoadAll(ctx context.Context) (*models.State, error) {
	state := &models.State{
		Accounts:         []models.Account{},
		PendingPurchases: []models.PendingPurchase{},
		Withdrawals:      []models.WithdrawalRequest{},
		Ledger:           []models.LedgerEntry{},
	}

	if err := s.scanInto(ctx, s.AccountsTableName, &state.Accounts); err != nil {
		return nil, err
	}
	if err := s.scanInto(ctx, s.PurchasesTableName, &state.PendingPurchases); err != nil {
		return nil, err
	}
	if err := s.scanInto(ctx, s.WithdrawalsTableName, &state.Withdrawals); err != nil {
		return nil, err
	}
	if err := s.scanInto(ctx, s.LedgerTableName, &state.Ledger); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	written, err := fingerprints(s.tablesFor(state))
	if err != nil {
		return nil, err
	}
	s.written = written

	return state, nil
}

// scanInto reads every page of a table and unmarshals the items into out.
func (s *Store) scanInto(ctx context.Context, table string, out interface{}) error {
	var items []map[string]types.AttributeValue
	input := &dynamodb.ScanInput{
		TableName: aws.String(table),
	}

	for {
		result, err := s.Client.Scan(ctx, input)
		if err != nil {
			return fmt.Errorf("failed to scan %s table: %w", table, err)
		}
		items = append(items, result.Items...)

		if len(result.LastEvaluatedKey) == 0 {
			break
		}
		input.ExclusiveStartKey = result.LastEvaluatedKey
	}

	if err := attributevalue.UnmarshalListOfMaps(items, out); err != nil {
		return fmt.Errorf("failed to unmarshal %s items: %w", table, err)
	}
	return nil
}
