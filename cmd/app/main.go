package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awsdynamodb "github.com/aws/aws-sdk-go-v2/service/dynamodb"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/chris/referral-ledger/pkg/commission"
	"github.com/chris/referral-ledger/pkg/config"
	"github.com/chris/referral-ledger/pkg/dialogue"
	"github.com/chris/referral-ledger/pkg/handlers"
	"github.com/chris/referral-ledger/pkg/logging"
	"github.com/chris/referral-ledger/pkg/middleware"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/reconcile"
	"github.com/chris/referral-ledger/pkg/storage"
	dydbstore "github.com/chris/referral-ledger/pkg/storage/dynamodb"
	"github.com/chris/referral-ledger/pkg/storage/file"
	"github.com/chris/referral-ledger/pkg/storage/memory"
	"github.com/chris/referral-ledger/pkg/withdrawals"
	"github.com/go-redis/redis/v8"
)

func main() {
	printToken := flag.Duration("admin-token", 0, "print an administrator token valid for the given duration and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}
	if err := cfg.RequireAdmin(); err != nil {
		log.Fatal(err)
	}

	if *printToken > 0 {
		token, err := middleware.IssueToken([]byte(cfg.AdminJWTSecret), cfg.AdminAccountID, *printToken)
		if err != nil {
			log.Fatalf("failed to issue token: %v", err)
		}
		fmt.Println(token)
		return
	}

	logger := logging.Init(cfg.LogLevel, cfg.LogJSON)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	persister, notifier, err := backends(ctx, cfg, logger)
	if err != nil {
		log.Fatal(err)
	}

	store, err := memory.Load(ctx, persister, memory.WithLogger(logger))
	if err != nil {
		log.Fatalf("failed to load ledger state: %v", err)
	}
	if err := checkReconciled(store.Snapshot()); err != nil {
		log.Fatal(err)
	}

	var sessions dialogue.SessionStore = dialogue.NewMemorySessionStore()
	if cfg.RedisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPassword, DB: cfg.RedisDB})
		if err := client.Ping(ctx).Err(); err != nil {
			log.Fatalf("failed to connect to redis at %s: %v", cfg.RedisAddr, err)
		}
		defer client.Close()
		sessions = dialogue.NewRedisSessionStore(client)
		logger.Info("dialogue sessions stored in redis", "addr", cfg.RedisAddr)
	}

	dispatcher := notify.NewDispatcher(notifier, logger)
	ledger := withdrawals.NewLedger(store, cfg.MinWithdraw, cfg.AdminAccountID, logger)
	controller := dialogue.NewController(store, ledger, sessions,
		dialogue.WithSessionTTL(cfg.DialogueSessionTTL),
		dialogue.WithLogger(logger),
	)

	handler := handlers.NewApiHandler(store, commission.NewEngine(store, cfg.Catalog, logger), ledger, controller, dispatcher)
	router := handlers.NewRouter(handler, handlers.RouterConfig{
		Logger:         logger,
		AdminID:        cfg.AdminAccountID,
		AdminSecret:    []byte(cfg.AdminJWTSecret),
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", "error", err)
		}
	}()

	logger.Info("starting server", "port", cfg.HTTPPort, "backend", cfg.PersistenceBackend)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatalf("Failed to start server: %v", err)
	}

	dispatcher.Wait()
	logger.Info("server stopped")
}

// checkReconciled refuses a stored ledger that does not balance, such as one
// left torn by an interrupted write.
func checkReconciled(state *models.State) error {
	if report := reconcile.Audit(state); !report.Balanced() {
		return fmt.Errorf("loaded state does not reconcile: %w", report.Err())
	}
	return nil
}

// backends builds the persister and the notifier selected by the configuration.
func backends(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Persister, notify.Notifier, error) {
	needAWS := cfg.PersistenceBackend == config.BackendDynamoDB || cfg.SQSQueueURL != ""

	var persister storage.Persister = file.New(cfg.StateFile)
	var notifier notify.Notifier = &notify.LogNotifier{Logger: logger}

	if !needAWS {
		if cfg.BotToken != "" {
			tg, err := notify.NewTelegramNotifier(cfg.BotToken)
			if err != nil {
				return nil, nil, err
			}
			notifier = tg
		}
		return persister, notifier, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	if cfg.PersistenceBackend == config.BackendDynamoDB {
		persister = dydbstore.New(awsdynamodb.NewFromConfig(awsCfg),
			cfg.AccountsTableName, cfg.PurchasesTableName, cfg.WithdrawalsTableName, cfg.LedgerTableName)
	}

	switch {
	case cfg.SQSQueueURL != "":
		notifier = notify.NewSQSNotifier(sqs.NewFromConfig(awsCfg), cfg.SQSQueueURL)
	case cfg.BotToken != "":
		tg, err := notify.NewTelegramNotifier(cfg.BotToken)
		if err != nil {
			return nil, nil, err
		}
		notifier = tg
	}
	return persister, notifier, nil
}
