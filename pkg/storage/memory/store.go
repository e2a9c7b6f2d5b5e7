package memory

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/chris/referral-ledger/pkg/metrics"
	"github.com/chris/referral-ledger/pkg/models"
	"github.com/chris/referral-ledger/pkg/storage"
)

const defaultPersistTimeout = 10 * time.Second

// Store implements the Storage interface on top of in-memory state. Every
// mutation runs inside a single critical section, and the full state is handed
// to the Persister once the critical section ends.
type Store struct {
	mu          sync.RWMutex
	accounts    map[string]*models.Account
	accountIDs  []string
	byCode      map[string]string
	purchases   []models.PendingPurchase
	withdrawals map[string]*models.WithdrawalRequest
	requestIDs  []string
	ledger      []models.LedgerEntry
	paid        map[string]bool
	version     uint64

	persister      storage.Persister
	persistMu      sync.Mutex
	persisted      uint64
	persistTimeout time.Duration

	now     func() time.Time
	newCode func() (string, error)
	logger  *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithCodeGenerator overrides referral code generation.
func WithCodeGenerator(gen func() (string, error)) Option {
	return func(s *Store) { s.newCode = gen }
}

// WithLogger sets the logger used for persistence failures.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) { s.logger = logger }
}

// WithPersistTimeout bounds each call to the Persister.
func WithPersistTimeout(d time.Duration) Option {
	return func(s *Store) { s.persistTimeout = d }
}

// New creates an empty Store. A nil persister disables persistence.
func New(persister storage.Persister, opts ...Option) *Store {
	s := &Store{
		accounts:       make(map[string]*models.Account),
		byCode:         make(map[string]string),
		withdrawals:    make(map[string]*models.WithdrawalRequest),
		paid:           make(map[string]bool),
		persister:      persister,
		persistTimeout: defaultPersistTimeout,
		now:            time.Now,
		newCode:        GenerateReferralCode,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load creates a Store from the persister's last saved state.
func Load(ctx context.Context, persister storage.Persister, opts ...Option) (*Store, error) {
	s := New(persister, opts...)
	if persister == nil {
		return s, nil
	}

	state, err := persister.LoadAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load state: %w", err)
	}
	if err := s.restore(state); err != nil {
		return nil, fmt.Errorf("failed to restore state: %w", err)
	}
	return s, nil
}

// Make sure we conform to the interface
var _ storage.Storage = (*Store)(nil)

func (s *Store) restore(state *models.State) error {
	if state == nil {
		return nil
	}

	accounts := append([]models.Account(nil), state.Accounts...)
	sort.SliceStable(accounts, func(i, j int) bool { return accounts[i].CreatedAt.Before(accounts[j].CreatedAt) })
	for i := range accounts {
		acc := copyAccount(&accounts[i])
		if acc.Id == "" {
			return fmt.Errorf("account without id")
		}
		if _, dup := s.accounts[acc.Id]; dup {
			return fmt.Errorf("duplicate account %s", acc.Id)
		}
		if acc.Balance < 0 {
			return fmt.Errorf("account %s has negative balance %d", acc.Id, acc.Balance)
		}
		s.accounts[acc.Id] = acc
		s.accountIDs = append(s.accountIDs, acc.Id)
		if acc.ReferralCode != "" {
			s.byCode[acc.ReferralCode] = acc.Id
		}
	}

	s.purchases = append([]models.PendingPurchase(nil), state.PendingPurchases...)
	sort.SliceStable(s.purchases, func(i, j int) bool { return s.purchases[i].CreatedAt.Before(s.purchases[j].CreatedAt) })

	requests := append([]models.WithdrawalRequest(nil), state.Withdrawals...)
	sort.SliceStable(requests, func(i, j int) bool { return requests[i].CreatedAt.Before(requests[j].CreatedAt) })
	for i := range requests {
		req := requests[i]
		if _, dup := s.withdrawals[req.Id]; dup {
			return fmt.Errorf("duplicate withdrawal %s", req.Id)
		}
		s.withdrawals[req.Id] = &req
		s.requestIDs = append(s.requestIDs, req.Id)
	}

	s.ledger = append([]models.LedgerEntry(nil), state.Ledger...)
	sort.SliceStable(s.ledger, func(i, j int) bool { return s.ledger[i].Timestamp.Before(s.ledger[j].Timestamp) })
	for _, entry := range s.ledger {
		if entry.Kind == models.EntryCommission {
			s.paid[entry.TransactionID] = true
		}
	}

	return nil
}

// snapshot is a copy of the state taken inside a critical section.
type snapshot struct {
	version uint64
	state   *models.State
}

// mutate runs fn under the write lock. When fn reports a change, the state is
// copied before the lock is released and handed to the persister afterwards.
func (s *Store) mutate(ctx context.Context, fn func() (bool, error)) error {
	s.mu.Lock()
	changed, err := fn()
	if err != nil || !changed {
		s.mu.Unlock()
		return err
	}
	s.version++
	snap := snapshot{version: s.version, state: s.stateLocked()}
	s.mu.Unlock()

	s.persist(ctx, snap)
	return nil
}

// persist writes snap unless a newer snapshot has already been written.
// Failures are logged and do not undo the in-memory mutation.
func (s *Store) persist(ctx context.Context, snap snapshot) {
	if s.persister == nil {
		return
	}

	s.persistMu.Lock()
	defer s.persistMu.Unlock()

	if snap.version <= s.persisted {
		return
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.persistTimeout)
	defer cancel()

	if err := s.persister.Persist(ctx, snap.state); err != nil {
		metrics.PersistFailures.Inc()
		s.logger.Error("failed to persist state", "version", snap.version, "error", err)
		return
	}
	s.persisted = snap.version
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() *models.State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.stateLocked()
}

func (s *Store) stateLocked() *models.State {
	state := &models.State{
		Accounts:         make([]models.Account, 0, len(s.accountIDs)),
		PendingPurchases: append([]models.PendingPurchase{}, s.purchases...),
		Withdrawals:      make([]models.WithdrawalRequest, 0, len(s.requestIDs)),
		Ledger:           append([]models.LedgerEntry{}, s.ledger...),
	}
	for _, id := range s.accountIDs {
		state.Accounts = append(state.Accounts, *copyAccount(s.accounts[id]))
	}
	for _, id := range s.requestIDs {
		state.Withdrawals = append(state.Withdrawals, *s.withdrawals[id])
	}
	return state
}

func copyAccount(acc *models.Account) *models.Account {
	out := *acc
	if acc.PackageConfirmedAt != nil {
		t := *acc.PackageConfirmedAt
		out.PackageConfirmedAt = &t
	}
	return &out
}
