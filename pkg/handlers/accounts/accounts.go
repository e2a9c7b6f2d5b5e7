package accounts

import (
	"net/http"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/handlers/respond"
	"github.com/chris/referral-ledger/pkg/mapping"
	"github.com/chris/referral-ledger/pkg/storage"
)

// AccountHandler holds the dependencies for account-related handlers.
type AccountHandler struct {
	Store storage.ApiStore
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(store storage.ApiStore) *AccountHandler {
	return &AccountHandler{Store: store}
}

// RegisterAccount registers the account or returns the existing one. A new
// account answers 201, an existing one 200.
func (h *AccountHandler) RegisterAccount(w http.ResponseWriter, r *http.Request) {
	var body api.RegisterAccount
	if !respond.Decode(w, r, &body, false) {
		return
	}

	acc, created, err := h.Store.RegisterOrGet(r.Context(), body.Id, body.DisplayName, body.InviterCode)
	if err != nil {
		respond.Fail(w, "register account", err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	respond.JSON(w, status, api.Registration{Account: *mapping.ToApiAccount(acc), Created: created})
}

func (h *AccountHandler) GetAccount(w http.ResponseWriter, r *http.Request, accountId string) {
	acc, err := h.Store.GetAccount(r.Context(), accountId)
	if err != nil {
		respond.Fail(w, "retrieve account", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccount(acc))
}

// ListReferrals lists the accounts that registered with the account's referral code.
func (h *AccountHandler) ListReferrals(w http.ResponseWriter, r *http.Request, accountId string) {
	acc, err := h.Store.GetAccount(r.Context(), accountId)
	if err != nil {
		respond.Fail(w, "retrieve account", err)
		return
	}

	referrals, err := h.Store.ListReferrals(r.Context(), acc.ReferralCode)
	if err != nil {
		respond.Fail(w, "retrieve referrals", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiAccounts(referrals))
}

func (h *AccountHandler) ListAccountWithdrawals(w http.ResponseWriter, r *http.Request, accountId string) {
	if _, err := h.Store.GetAccount(r.Context(), accountId); err != nil {
		respond.Fail(w, "retrieve account", err)
		return
	}

	reqs, err := h.Store.ListWithdrawalsByAccount(r.Context(), accountId)
	if err != nil {
		respond.Fail(w, "retrieve withdrawals", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiWithdrawals(reqs))
}
