package api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ServerInterface represents all server handlers.
type ServerInterface interface {
	// Register an account or return the existing one
	// (POST /accounts)
	RegisterAccount(w http.ResponseWriter, r *http.Request)
	// (GET /accounts/{accountId})
	GetAccount(w http.ResponseWriter, r *http.Request, accountId string)
	// (GET /accounts/{accountId}/referrals)
	ListReferrals(w http.ResponseWriter, r *http.Request, accountId string)
	// (GET /accounts/{accountId}/withdrawals)
	ListAccountWithdrawals(w http.ResponseWriter, r *http.Request, accountId string)
	// Open a withdrawal dialogue
	// (POST /accounts/{accountId}/dialogue)
	BeginWithdrawalDialogue(w http.ResponseWriter, r *http.Request, accountId string)
	// Send the next dialogue input
	// (POST /accounts/{accountId}/messages)
	PostDialogueMessage(w http.ResponseWriter, r *http.Request, accountId string)

	// (POST /admin/purchases)
	RecordPurchase(w http.ResponseWriter, r *http.Request)
	// (GET /admin/purchases)
	ListPendingPurchases(w http.ResponseWriter, r *http.Request)
	// (POST /admin/purchases/confirm)
	ConfirmPurchase(w http.ResponseWriter, r *http.Request)
	// (GET /admin/withdrawals)
	ListWithdrawals(w http.ResponseWriter, r *http.Request, params ListWithdrawalsParams)
	// (POST /admin/withdrawals/{withdrawalId}/approve)
	ApproveWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalId openapi_types.UUID)
	// (POST /admin/withdrawals/{withdrawalId}/reject)
	RejectWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalId openapi_types.UUID)
	// (GET /admin/ledger)
	ListLedgerEntries(w http.ResponseWriter, r *http.Request, params ListLedgerEntriesParams)
}

// MiddlewareFunc wraps a handler.
type MiddlewareFunc func(http.Handler) http.Handler

// ServerInterfaceWrapper converts request parameters into handler arguments.
type ServerInterfaceWrapper struct {
	Handler          ServerInterface
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// InvalidParamFormatError is returned when a parameter cannot be bound.
type InvalidParamFormatError struct {
	ParamName string
	Err       error
}

func (e *InvalidParamFormatError) Error() string {
	return fmt.Sprintf("Invalid format for parameter %s: %s", e.ParamName, e.Err.Error())
}

func (e *InvalidParamFormatError) Unwrap() error {
	return e.Err
}

func (siw *ServerInterfaceWrapper) accountParam(w http.ResponseWriter, r *http.Request) (string, bool) {
	var accountId string
	err := runtime.BindStyledParameterWithOptions("simple", "accountId", chi.URLParam(r, "accountId"), &accountId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "accountId", Err: err})
		return "", false
	}
	return accountId, true
}

func (siw *ServerInterfaceWrapper) withdrawalParam(w http.ResponseWriter, r *http.Request) (openapi_types.UUID, bool) {
	var withdrawalId openapi_types.UUID
	err := runtime.BindStyledParameterWithOptions("simple", "withdrawalId", chi.URLParam(r, "withdrawalId"), &withdrawalId, runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "withdrawalId", Err: err})
		return withdrawalId, false
	}
	return withdrawalId, true
}

func (siw *ServerInterfaceWrapper) withAccount(fn func(http.ResponseWriter, *http.Request, string)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if accountId, ok := siw.accountParam(w, r); ok {
			fn(w, r, accountId)
		}
	}
}

func (siw *ServerInterfaceWrapper) withWithdrawal(fn func(http.ResponseWriter, *http.Request, openapi_types.UUID)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if withdrawalId, ok := siw.withdrawalParam(w, r); ok {
			fn(w, r, withdrawalId)
		}
	}
}

// ListWithdrawals operation middleware
func (siw *ServerInterfaceWrapper) ListWithdrawals(w http.ResponseWriter, r *http.Request) {
	var params ListWithdrawalsParams
	if err := runtime.BindQueryParameter("form", true, false, "status", r.URL.Query(), &params.Status); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "status", Err: err})
		return
	}
	siw.Handler.ListWithdrawals(w, r, params)
}

// ListLedgerEntries operation middleware
func (siw *ServerInterfaceWrapper) ListLedgerEntries(w http.ResponseWriter, r *http.Request) {
	var params ListLedgerEntriesParams
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &params.Limit); err != nil {
		siw.ErrorHandlerFunc(w, r, &InvalidParamFormatError{ParamName: "limit", Err: err})
		return
	}
	siw.Handler.ListLedgerEntries(w, r, params)
}

// ChiServerOptions configures HandlerWithOptions.
type ChiServerOptions struct {
	BaseURL    string
	BaseRouter chi.Router
	// Middlewares wrap every route.
	Middlewares []MiddlewareFunc
	// AdminMiddlewares additionally wrap the /admin routes.
	AdminMiddlewares []MiddlewareFunc
	ErrorHandlerFunc func(w http.ResponseWriter, r *http.Request, err error)
}

// HandlerFromMux creates an http.Handler with routing matching the API and mounts it on r.
func HandlerFromMux(si ServerInterface, r chi.Router) http.Handler {
	return HandlerWithOptions(si, ChiServerOptions{BaseRouter: r})
}

// HandlerWithOptions creates an http.Handler with additional options.
func HandlerWithOptions(si ServerInterface, options ChiServerOptions) http.Handler {
	r := options.BaseRouter
	if r == nil {
		r = chi.NewRouter()
	}
	if options.ErrorHandlerFunc == nil {
		options.ErrorHandlerFunc = func(w http.ResponseWriter, r *http.Request, err error) {
			http.Error(w, err.Error(), http.StatusBadRequest)
		}
	}
	wrapper := ServerInterfaceWrapper{
		Handler:          si,
		ErrorHandlerFunc: options.ErrorHandlerFunc,
	}

	r.Group(func(r chi.Router) {
		for _, mw := range options.Middlewares {
			r.Use(mw)
		}

		r.Post(options.BaseURL+"/accounts", si.RegisterAccount)
		r.Get(options.BaseURL+"/accounts/{accountId}", wrapper.withAccount(si.GetAccount))
		r.Get(options.BaseURL+"/accounts/{accountId}/referrals", wrapper.withAccount(si.ListReferrals))
		r.Get(options.BaseURL+"/accounts/{accountId}/withdrawals", wrapper.withAccount(si.ListAccountWithdrawals))
		r.Post(options.BaseURL+"/accounts/{accountId}/dialogue", wrapper.withAccount(si.BeginWithdrawalDialogue))
		r.Post(options.BaseURL+"/accounts/{accountId}/messages", wrapper.withAccount(si.PostDialogueMessage))

		r.Group(func(r chi.Router) {
			for _, mw := range options.AdminMiddlewares {
				r.Use(mw)
			}
			r.Post(options.BaseURL+"/admin/purchases", si.RecordPurchase)
			r.Get(options.BaseURL+"/admin/purchases", si.ListPendingPurchases)
			r.Post(options.BaseURL+"/admin/purchases/confirm", si.ConfirmPurchase)
			r.Get(options.BaseURL+"/admin/withdrawals", wrapper.ListWithdrawals)
			r.Post(options.BaseURL+"/admin/withdrawals/{withdrawalId}/approve", wrapper.withWithdrawal(si.ApproveWithdrawal))
			r.Post(options.BaseURL+"/admin/withdrawals/{withdrawalId}/reject", wrapper.withWithdrawal(si.RejectWithdrawal))
			r.Get(options.BaseURL+"/admin/ledger", wrapper.ListLedgerEntries)
		})
	})

	return r
}
