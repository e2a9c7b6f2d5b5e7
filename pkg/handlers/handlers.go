package handlers

import (
	"log/slog"
	"net/http"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/commission"
	dialogueCtl "github.com/chris/referral-ledger/pkg/dialogue"
	"github.com/chris/referral-ledger/pkg/handlers/accounts"
	"github.com/chris/referral-ledger/pkg/handlers/dialogue"
	"github.com/chris/referral-ledger/pkg/handlers/ledger"
	"github.com/chris/referral-ledger/pkg/handlers/purchases"
	"github.com/chris/referral-ledger/pkg/handlers/respond"
	"github.com/chris/referral-ledger/pkg/handlers/withdrawals"
	mw "github.com/chris/referral-ledger/pkg/middleware"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/storage"
	withdrawalLedger "github.com/chris/referral-ledger/pkg/withdrawals"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ApiHandler implements api.ServerInterface by composing the per-resource handlers.
type ApiHandler struct {
	*accounts.AccountHandler
	*purchases.PurchaseHandler
	*withdrawals.WithdrawalHandler
	*dialogue.DialogueHandler
	*ledger.LedgerHandler
}

// Make sure we conform to the interface
var _ api.ServerInterface = (*ApiHandler)(nil)

// NewApiHandler wires the handlers to the application services. Notifications
// produced by a request are handed to dispatcher after the response is decided.
func NewApiHandler(store storage.ApiStore, engine *commission.Engine, ledgerSvc *withdrawalLedger.Ledger, controller *dialogueCtl.Controller, dispatcher *notify.Dispatcher) *ApiHandler {
	return &ApiHandler{
		AccountHandler:    accounts.NewAccountHandler(store),
		PurchaseHandler:   purchases.NewPurchaseHandler(engine, dispatcher),
		WithdrawalHandler: withdrawals.NewWithdrawalHandler(ledgerSvc, dispatcher),
		DialogueHandler:   dialogue.NewDialogueHandler(controller, dispatcher),
		LedgerHandler:     ledger.NewLedgerHandler(store),
	}
}

// RouterConfig configures NewRouter.
type RouterConfig struct {
	Logger         *slog.Logger
	AdminID        string
	AdminSecret    []byte
	AllowedOrigins []string
}

// NewRouter mounts the API with its middleware stack, plus /healthz and /metrics.
func NewRouter(si api.ServerInterface, cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))
	r.Use(mw.NewStructuredLogger(logger))
	r.Use(mw.Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return api.HandlerWithOptions(si, api.ChiServerOptions{
		BaseRouter:       r,
		AdminMiddlewares: []api.MiddlewareFunc{mw.AdminAuth(cfg.AdminSecret, cfg.AdminID)},
		ErrorHandlerFunc: func(w http.ResponseWriter, r *http.Request, err error) {
			respond.Error(w, err.Error(), http.StatusBadRequest, nil)
		},
	})
}
