// Package dialogue drives the two-step withdrawal conversation: the account
// first sends an amount, then picks a payment method.
package dialogue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/chris/referral-ledger/pkg/metrics"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/notify"
	"github.com/chris/referral-ledger/pkg/storage"
	"github.com/chris/referral-ledger/pkg/withdrawals"
)

// DefaultSessionTTL is how long an unanswered dialogue stays open.
const DefaultSessionTTL = 15 * time.Minute

const cancelCommand = "cancel"

// Outcome describes what handling a message did.
type Outcome string

const (
	OutcomeStarted        Outcome = "started"
	OutcomeNoSession      Outcome = "no_session"
	OutcomeCancelled      Outcome = "cancelled"
	OutcomeReprompt       Outcome = "reprompt"
	OutcomeAwaitingMethod Outcome = "awaiting_method"
	OutcomeFailed         Outcome = "failed"
	OutcomeSubmitted      Outcome = "submitted"
)

// Reply is the result of a dialogue step. Err carries the reason for a
// reprompt or failure; it is part of the reply, not an operation error.
type Reply struct {
	Outcome       Outcome
	Stage         Stage
	Amount        int64
	Balance       int64
	MinWithdraw   int64
	Err           error
	Request       *models.WithdrawalRequest
	Notifications []notify.Notification
}

// Withdrawer creates withdrawal requests.
type Withdrawer interface {
	Create(ctx context.Context, accountID string, amount int64, method models.PaymentMethod) (*withdrawals.Result, error)
	MinWithdraw() int64
}

// Controller owns the session table and applies the dialogue transitions.
// Messages for one account are handled one at a time.
type Controller struct {
	accounts storage.AccountReader
	ledger   Withdrawer
	sessions SessionStore
	ttl      time.Duration
	locks    *keyedMutex
	now      func() time.Time
	logger   *slog.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithSessionTTL sets the session lifetime. Zero disables expiry.
func WithSessionTTL(ttl time.Duration) Option {
	return func(c *Controller) { c.ttl = ttl }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(c *Controller) { c.now = now }
}

// WithLogger sets the controller's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) { c.logger = logger }
}

// NewController creates a new Controller.
func NewController(accounts storage.AccountReader, ledger Withdrawer, sessions SessionStore, opts ...Option) *Controller {
	c := &Controller{
		accounts: accounts,
		ledger:   ledger,
		sessions: sessions,
		ttl:      DefaultSessionTTL,
		locks:    newKeyedMutex(),
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Begin opens a dialogue for the account, replacing any open one. It is
// refused before a session exists when the balance is below the minimum.
func (c *Controller) Begin(ctx context.Context, accountID string) (*Reply, error) {
	unlock := c.locks.Lock(accountID)
	defer unlock()

	acc, err := c.accounts.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	minWithdraw := c.ledger.MinWithdraw()
	if acc.Balance < minWithdraw {
		return nil, storage.ErrBelowMinimumWithdrawal
	}

	now := c.now()
	session := &Session{AccountID: accountID, Stage: StageCollectingAmount, StartedAt: now}
	if c.ttl > 0 {
		session.ExpiresAt = now.Add(c.ttl)
	}
	if err := c.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to open withdrawal dialogue: %w", err)
	}

	return c.reply(&Reply{Outcome: OutcomeStarted, Stage: StageCollectingAmount, Balance: acc.Balance, MinWithdraw: minWithdraw}), nil
}

// Handle applies one inbound message to the account's dialogue.
func (c *Controller) Handle(ctx context.Context, accountID, text string) (*Reply, error) {
	unlock := c.locks.Lock(accountID)
	defer unlock()

	session, err := c.sessions.Get(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to load withdrawal dialogue: %w", err)
	}
	if session == nil {
		return c.reply(&Reply{Outcome: OutcomeNoSession}), nil
	}

	input := strings.TrimSpace(text)
	if strings.EqualFold(input, cancelCommand) {
		if err := c.sessions.Delete(ctx, accountID); err != nil {
			return nil, fmt.Errorf("failed to close withdrawal dialogue: %w", err)
		}
		return c.reply(&Reply{Outcome: OutcomeCancelled}), nil
	}

	switch session.Stage {
	case StageCollectingAmount:
		return c.handleAmount(ctx, session, input)
	case StageCollectingMethod:
		return c.handleMethod(ctx, session, input)
	default:
		c.logger.Warn("dropping dialogue in unknown stage", "account_id", accountID, "stage", session.Stage)
		if err := c.sessions.Delete(ctx, accountID); err != nil {
			return nil, fmt.Errorf("failed to close withdrawal dialogue: %w", err)
		}
		return c.reply(&Reply{Outcome: OutcomeNoSession}), nil
	}
}

func (c *Controller) handleAmount(ctx context.Context, session *Session, input string) (*Reply, error) {
	amount, err := ParseAmount(input)
	if err != nil {
		return c.reply(&Reply{Outcome: OutcomeReprompt, Stage: StageCollectingAmount, Err: err}), nil
	}

	acc, err := c.accounts.GetAccount(ctx, session.AccountID)
	if err != nil {
		return c.fail(ctx, session, err)
	}
	minWithdraw := c.ledger.MinWithdraw()
	if amount > acc.Balance {
		return c.fail(ctx, session, storage.ErrInsufficientFunds)
	}
	if amount < minWithdraw {
		return c.fail(ctx, session, storage.ErrBelowMinimumWithdrawal)
	}

	session.Stage = StageCollectingMethod
	session.Amount = amount
	if err := c.sessions.Put(ctx, session); err != nil {
		return nil, fmt.Errorf("failed to store withdrawal dialogue: %w", err)
	}
	return c.reply(&Reply{Outcome: OutcomeAwaitingMethod, Stage: StageCollectingMethod, Amount: amount, Balance: acc.Balance, MinWithdraw: minWithdraw}), nil
}

func (c *Controller) handleMethod(ctx context.Context, session *Session, input string) (*Reply, error) {
	method, ok := models.MatchPaymentMethod(input)
	if !ok {
		return c.reply(&Reply{Outcome: OutcomeReprompt, Stage: StageCollectingMethod, Amount: session.Amount, Err: storage.ErrInvalidPaymentMethod}), nil
	}

	result, err := c.ledger.Create(ctx, session.AccountID, session.Amount, method)
	if err != nil {
		return c.fail(ctx, session, err)
	}

	if err := c.sessions.Delete(ctx, session.AccountID); err != nil {
		c.logger.Error("failed to close submitted withdrawal dialogue", "account_id", session.AccountID, "error", err)
	}
	return c.reply(&Reply{
		Outcome:       OutcomeSubmitted,
		Amount:        session.Amount,
		Request:       result.Request,
		Notifications: result.Notifications,
	}), nil
}

// fail ends the dialogue. The cause is reported in the reply.
func (c *Controller) fail(ctx context.Context, session *Session, cause error) (*Reply, error) {
	if err := c.sessions.Delete(ctx, session.AccountID); err != nil {
		return nil, fmt.Errorf("failed to close withdrawal dialogue: %w", err)
	}
	if !isDomainError(cause) {
		c.logger.Error("withdrawal dialogue failed", "account_id", session.AccountID, "error", cause)
	}
	return c.reply(&Reply{Outcome: OutcomeFailed, Amount: session.Amount, Err: cause}), nil
}

func (c *Controller) reply(r *Reply) *Reply {
	metrics.DialogueOutcomes.WithLabelValues(string(r.Outcome)).Inc()
	return r
}

// ParseAmount accepts a whole number whose decimal text ends in "00".
func ParseAmount(input string) (int64, error) {
	input = strings.TrimSpace(input)
	if !strings.HasSuffix(input, "00") {
		return 0, storage.ErrInvalidAmountFormat
	}
	amount, err := strconv.ParseInt(input, 10, 64)
	if err != nil {
		return 0, storage.ErrInvalidAmountFormat
	}
	return amount, nil
}

func isDomainError(err error) bool {
	for _, target := range []error{
		storage.ErrAccountNotFound,
		storage.ErrInsufficientFunds,
		storage.ErrBelowMinimumWithdrawal,
		storage.ErrInvalidPaymentMethod,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
