package mapping

import (
	"github.com/chris/referral-ledger/pkg/api"
	"github.com/chris/referral-ledger/pkg/dialogue"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/google/uuid"
	openapi_types "github.com/oapi-codegen/runtime/types"
)

// ToApiAccount converts a domain Account model to an API Account model.
func ToApiAccount(acc *models.Account) *api.Account {
	out := &api.Account{
		Id:                 acc.Id,
		DisplayName:        acc.DisplayName,
		ReferralCode:       acc.ReferralCode,
		Balance:            acc.Balance,
		PackageConfirmedAt: acc.PackageConfirmedAt,
		CreatedAt:          acc.CreatedAt,
	}
	if acc.ReferredBy != "" {
		out.ReferredBy = &acc.ReferredBy
	}
	if acc.Package != "" {
		out.Package = &acc.Package
	}
	return out
}

// ToApiAccounts converts a list of domain accounts.
func ToApiAccounts(accounts []models.Account) []*api.Account {
	out := make([]*api.Account, len(accounts))
	for i := range accounts {
		out[i] = ToApiAccount(&accounts[i])
	}
	return out
}

// ToApiPendingPurchase converts a domain PendingPurchase model to an API PendingPurchase model.
func ToApiPendingPurchase(p *models.PendingPurchase) *api.PendingPurchase {
	out := &api.PendingPurchase{
		Id:          toUUID(p.Id),
		AccountId:   p.AccountId,
		PackageName: p.PackageName,
		CreatedAt:   p.CreatedAt,
	}
	if p.Note != "" {
		out.Note = &p.Note
	}
	return out
}

// ToDomainPendingPurchase converts an API NewPurchase model to a domain PendingPurchase model.
func ToDomainPendingPurchase(p *api.NewPurchase) *models.PendingPurchase {
	return &models.PendingPurchase{
		AccountId:   p.AccountId,
		PackageName: p.PackageName,
		Note:        p.Note,
	}
}

// ToApiPurchaseConfirmation converts the outcome of a confirmation.
func ToApiPurchaseConfirmation(c *models.PurchaseConfirmation) *api.PurchaseConfirmation {
	out := &api.PurchaseConfirmation{
		PackageName:    c.PackageName,
		Commission:     c.Commission,
		CommissionPaid: c.CommissionPaid,
		AlreadyPaid:    c.AlreadyPaid,
		RemovedPending: c.RemovedPending,
		ConfirmedAt:    c.ConfirmedAt,
	}
	if c.Account != nil {
		out.Account = *ToApiAccount(c.Account)
	}
	if c.ReferrerId != "" {
		out.ReferrerId = &c.ReferrerId
	}
	return out
}

// ToApiWithdrawal converts a domain WithdrawalRequest model to an API Withdrawal model.
func ToApiWithdrawal(req *models.WithdrawalRequest) *api.Withdrawal {
	out := &api.Withdrawal{
		Id:            toUUID(req.Id),
		AccountId:     req.AccountId,
		Amount:        req.Amount,
		PaymentMethod: string(req.PaymentMethod),
		Status:        api.WithdrawalStatus(req.Status),
		CreatedAt:     req.CreatedAt,
		UpdatedAt:     req.UpdatedAt,
	}
	if req.Note != "" {
		out.Note = &req.Note
	}
	return out
}

// ToApiWithdrawals converts a list of domain withdrawal requests.
func ToApiWithdrawals(reqs []models.WithdrawalRequest) []*api.Withdrawal {
	out := make([]*api.Withdrawal, len(reqs))
	for i := range reqs {
		out[i] = ToApiWithdrawal(&reqs[i])
	}
	return out
}

// ToApiLedgerEntry converts a domain LedgerEntry model to an API LedgerEntry model.
func ToApiLedgerEntry(entry *models.LedgerEntry) *api.LedgerEntry {
	out := &api.LedgerEntry{
		TransactionId: entry.TransactionID,
		AccountId:     entry.AccountID,
		Kind:          string(entry.Kind),
		Description:   entry.Description,
		Timestamp:     entry.Timestamp,
	}
	if entry.EntryID != "" {
		out.EntryId = &entry.EntryID
	}
	if entry.Debit != 0 {
		out.Debit = &entry.Debit
	}
	if entry.Credit != 0 {
		out.Credit = &entry.Credit
	}
	return out
}

// ToApiDialogueReply converts a dialogue step result. Zero amounts and stages are omitted.
func ToApiDialogueReply(r *dialogue.Reply) *api.DialogueReply {
	out := &api.DialogueReply{Outcome: api.DialogueOutcome(r.Outcome)}
	if r.Stage != "" {
		stage := string(r.Stage)
		out.Stage = &stage
	}
	if r.Amount != 0 {
		out.Amount = &r.Amount
	}
	if r.Outcome == dialogue.OutcomeStarted || r.Outcome == dialogue.OutcomeAwaitingMethod {
		out.Balance = &r.Balance
		out.MinWithdraw = &r.MinWithdraw
	}
	if r.Err != nil {
		msg := r.Err.Error()
		out.Error = &msg
	}
	if r.Request != nil {
		out.Withdrawal = ToApiWithdrawal(r.Request)
	}
	return out
}

// toUUID parses a stored id. Ids not created by the store map to the nil UUID.
func toUUID(id string) openapi_types.UUID {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return uuid.Nil
	}
	return parsed
}
