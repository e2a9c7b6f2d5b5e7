package main

import (
	"context"
	"log"
	"reflect"

	"github.com/aws/aws-lambda-go/lambda"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/reconcile"
	"github.com/chris/referral-ledger/pkg/storage"
	dydbstore "github.com/chris/referral-ledger/pkg/storage/dynamodb"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Handler audits the persisted ledger.
type Handler struct {
	Persister storage.Persister
}

// maxLoads bounds how often an unbalanced ledger is reloaded.
const maxLoads = 3

// HandleRequest is triggered by an EventBridge Schedule. An unbalanced ledger
// fails the invocation so that it surfaces in the function's error metrics.
//
// LoadAll scans each table separately, so one load is not a point-in-time
// snapshot and can straddle a write made by the running service. An imbalance
// is only reported once two consecutive loads return the same state, or after
// maxLoads loads that never settled.
func (h *Handler) HandleRequest(ctx context.Context) (*reconcile.Report, error) {
	log.Println("Starting ledger reconciliation...")

	var previous *models.State
	for attempt := 1; ; attempt++ {
		state, err := h.Persister.LoadAll(ctx)
		if err != nil {
			log.Printf("ERROR: failed to load ledger state: %v", err)
			return nil, err
		}

		report := reconcile.Audit(state)
		if report.Balanced() {
			log.Printf("Ledger balanced: %d accounts, %d in balances, %d pending, %d paid out",
				len(state.Accounts), report.TotalBalances, report.TotalPending, report.TotalApproved)
			return report, nil
		}

		if !reflect.DeepEqual(previous, state) && attempt < maxLoads {
			log.Printf("Ledger out of balance on load %d, reloading", attempt)
			previous = state
			continue
		}

		err = report.Err()
		log.Printf("ERROR: %v", err)
		for _, m := range report.Mismatches {
			log.Printf("ERROR: account %s balance %d does not match journal %d", m.AccountID, m.Balance, m.Journal)
		}
		return report, err
	}
}

func main() {
	// Load environment variables for local testing.
	godotenv.Load()
	viper.AutomaticEnv()

	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		log.Fatalf("unable to load SDK config, %v", err)
	}

	accountsTable := viper.GetString("DYNAMODB_ACCOUNTS_TABLE_NAME")
	purchasesTable := viper.GetString("DYNAMODB_PURCHASES_TABLE_NAME")
	withdrawalsTable := viper.GetString("DYNAMODB_WITHDRAWALS_TABLE_NAME")
	ledgerTable := viper.GetString("DYNAMODB_LEDGER_TABLE_NAME")
	if accountsTable == "" || purchasesTable == "" || withdrawalsTable == "" || ledgerTable == "" {
		log.Fatal("One or more DynamoDB table name environment variables are not set")
	}

	h := &Handler{Persister: dydbstore.New(dynamodb.NewFromConfig(cfg), accountsTable, purchasesTable, withdrawalsTable, ledgerTable)}
	lambda.Start(h.HandleRequest)
}
