package withdrawals

import (
	"fmt"
	"net/http"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/handlers/respond"
	"github.com/chris/referral-ledger/pkg/mapping"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/withdrawals"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// WithdrawalHandler holds the dependencies for the administrator's withdrawal handlers.
type WithdrawalHandler struct {
	Ledger     *withdrawals.Ledger
	Dispatcher *notify.Dispatcher
}

// NewWithdrawalHandler creates a new WithdrawalHandler.
func NewWithdrawalHandler(ledger *withdrawals.Ledger, dispatcher *notify.Dispatcher) *WithdrawalHandler {
	return &WithdrawalHandler{Ledger: ledger, Dispatcher: dispatcher}
}

func (h *WithdrawalHandler) ListWithdrawals(w http.ResponseWriter, r *http.Request, params api.ListWithdrawalsParams) {
	var status models.WithdrawalStatus
	if params.Status != nil {
		switch *params.Status {
		case api.Pending, api.Approved, api.Rejected:
			status = models.WithdrawalStatus(*params.Status)
		default:
			respond.Error(w, fmt.Sprintf("Invalid status %q", *params.Status), http.StatusBadRequest, nil)
			return
		}
	}

	reqs, err := h.Ledger.List(r.Context(), status)
	if err != nil {
		respond.Fail(w, "retrieve withdrawals", err)
		return
	}
	respond.JSON(w, http.StatusOK, mapping.ToApiWithdrawals(reqs))
}

// ApproveWithdrawal approves a pending request. The reserved funds stay debited.
func (h *WithdrawalHandler) ApproveWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalId openapi_types.UUID) {
	var body api.WithdrawalDecision
	if !respond.Decode(w, r, &body, true) {
		return
	}

	result, err := h.Ledger.Approve(r.Context(), withdrawalId.String(), body.Note)
	if err != nil {
		respond.Fail(w, "approve withdrawal", err)
		return
	}

	h.Dispatcher.Dispatch(r.Context(), result.Notifications...)
	respond.JSON(w, http.StatusOK, mapping.ToApiWithdrawal(result.Request))
}

// RejectWithdrawal rejects a pending request and refunds the reserved funds.
func (h *WithdrawalHandler) RejectWithdrawal(w http.ResponseWriter, r *http.Request, withdrawalId openapi_types.UUID) {
	var body api.WithdrawalDecision
	if !respond.Decode(w, r, &body, true) {
		return
	}

	result, err := h.Ledger.Reject(r.Context(), withdrawalId.String(), body.Note)
	if err != nil {
		respond.Fail(w, "reject withdrawal", err)
		return
	}

	h.Dispatcher.Dispatch(r.Context(), result.Notifications...)
	respond.JSON(w, http.StatusOK, mapping.ToApiWithdrawal(result.Request))
}
