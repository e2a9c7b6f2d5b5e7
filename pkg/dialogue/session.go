package dialogue

import (
	"context"
	"sync"
	"time"
)

// Stage is the step a withdrawal dialogue is waiting on.
type Stage string

const (
	StageCollectingAmount Stage = "collecting-amount"
	StageCollectingMethod Stage = "collecting-method"
)

// Session is an open withdrawal dialogue for one account.
type Session struct {
	AccountID string    `json:"account_id"`
	Stage     Stage     `json:"stage"`
	Amount    int64     `json:"amount,omitempty"`
	StartedAt time.Time `json:"started_at"`
	// ExpiresAt is zero when the session never expires.
	ExpiresAt time.Time `json:"expires_at,omitempty"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// SessionStore is the per-account session table. Sessions are not durable and
// may be lost on restart.
type SessionStore interface {
	// Get returns the open session for the account, or nil when there is none.
	Get(ctx context.Context, accountID string) (*Session, error)

	// Put creates or replaces the account's session.
	Put(ctx context.Context, session *Session) error

	// Delete destroys the account's session. Deleting a missing session is not an error.
	Delete(ctx context.Context, accountID string) error
}

// MemorySessionStore keeps sessions in process memory.
type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	now      func() time.Time
}

// NewMemorySessionStore creates an empty MemorySessionStore.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]Session), now: time.Now}
}

// Make sure we conform to the interface
var _ SessionStore = (*MemorySessionStore)(nil)

func (m *MemorySessionStore) Get(ctx context.Context, accountID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[accountID]
	if !ok {
		return nil, nil
	}
	if s.Expired(m.now()) {
		delete(m.sessions, accountID)
		return nil, nil
	}
	return &s, nil
}

func (m *MemorySessionStore) Put(ctx context.Context, session *Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[session.AccountID] = *session
	return nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, accountID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, accountID)
	return nil
}

// Len returns the number of stored sessions, expired ones included.
func (m *MemorySessionStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}
