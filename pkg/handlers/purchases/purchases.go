package purchases

import (
	"net/http"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/commission"
	"github.com/chris/referral-ledger/pkg/handlers/respond"
	"github.com/chris/referral-ledger/pkg/mapping"
	"github.com/chris/referral-ledger/pkg/notify"
)

// PurchaseHandler holds the dependencies for the administrator's purchase handlers.
type PurchaseHandler struct {
	Engine     *commission.Engine
	Dispatcher *notify.Dispatcher
}

// NewPurchaseHandler creates a new PurchaseHandler.
func NewPurchaseHandler(engine *commission.Engine, dispatcher *notify.Dispatcher) *PurchaseHandler {
	return &PurchaseHandler{Engine: engine, Dispatcher: dispatcher}
}

// RecordPurchase adds a purchase to the pending queue.
func (h *PurchaseHandler) RecordPurchase(w http.ResponseWriter, r *http.Request) {
	var body api.NewPurchase
	if !respond.Decode(w, r, &body, false) {
		return
	}

	purchase := mapping.ToDomainPendingPurchase(&body)
	recorded, err := h.Engine.RecordPurchase(r.Context(), purchase.AccountId, purchase.PackageName, purchase.Note)
	if err != nil {
		respond.Fail(w, "record purchase", err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiPendingPurchase(recorded))
}

func (h *PurchaseHandler) ListPendingPurchases(w http.ResponseWriter, r *http.Request) {
	pending, err := h.Engine.PendingPurchases(r.Context())
	if err != nil {
		respond.Fail(w, "retrieve pending purchases", err)
		return
	}

	out := make([]*api.PendingPurchase, len(pending))
	for i := range pending {
		out[i] = mapping.ToApiPendingPurchase(&pending[i])
	}
	respond.JSON(w, http.StatusOK, out)
}

// ConfirmPurchase activates the package and pays the referrer's commission.
func (h *PurchaseHandler) ConfirmPurchase(w http.ResponseWriter, r *http.Request) {
	var body api.ConfirmPurchaseRequest
	if !respond.Decode(w, r, &body, false) {
		return
	}

	result, err := h.Engine.ConfirmPurchase(r.Context(), body.AccountId, body.PackageName)
	if err != nil {
		respond.Fail(w, "confirm purchase", err)
		return
	}

	h.Dispatcher.Dispatch(r.Context(), result.Notifications...)
	respond.JSON(w, http.StatusOK, mapping.ToApiPurchaseConfirmation(result.Confirmation))
}
