package dialogue

import (
	"net/http"

	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/dialogue"
	"github.com/chris/referral-ledger/pkg/handlers/respond"
	"github.com/chris/referral-ledger/pkg/mapping"
	"github.com/chris/referral-ledger/pkg/notify"
)

// DialogueHandler exposes the withdrawal dialogue over HTTP.
type DialogueHandler struct {
	Controller *dialogue.Controller
	Dispatcher *notify.Dispatcher
}

// NewDialogueHandler creates a new DialogueHandler.
func NewDialogueHandler(controller *dialogue.Controller, dispatcher *notify.Dispatcher) *DialogueHandler {
	return &DialogueHandler{Controller: controller, Dispatcher: dispatcher}
}

// BeginWithdrawalDialogue opens a dialogue, replacing any open one.
func (h *DialogueHandler) BeginWithdrawalDialogue(w http.ResponseWriter, r *http.Request, accountId string) {
	reply, err := h.Controller.Begin(r.Context(), accountId)
	if err != nil {
		respond.Fail(w, "open withdrawal dialogue", err)
		return
	}
	respond.JSON(w, http.StatusCreated, mapping.ToApiDialogueReply(reply))
}

// PostDialogueMessage applies one message. Reprompts and failures are normal
// replies and answer 200; only operation errors map to an error status.
func (h *DialogueHandler) PostDialogueMessage(w http.ResponseWriter, r *http.Request, accountId string) {
	var body api.DialogueMessage
	if !respond.Decode(w, r, &body, false) {
		return
	}

	reply, err := h.Controller.Handle(r.Context(), accountId, body.Text)
	if err != nil {
		respond.Fail(w, "handle dialogue message", err)
		return
	}

	h.Dispatcher.Dispatch(r.Context(), reply.Notifications...)
	status := http.StatusOK
	if reply.Outcome == dialogue.OutcomeSubmitted {
		status = http.StatusCreated
	}
	respond.JSON(w, status, mapping.ToApiDialogueReply(reply))
}
