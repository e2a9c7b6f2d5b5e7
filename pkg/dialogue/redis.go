package dialogue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const redisKeyPrefix = "dialogue:withdrawal:"

// RedisSessionStore keeps sessions in Redis so they outlive a restart of the
// process. Expiry is delegated to the key TTL. Per-account locking and the
// ledger itself stay in process memory, so only a single instance may serve
// the dialogue at a time.
type RedisSessionStore struct {
	client *redis.Client
	now    func() time.Time
}

// NewRedisSessionStore creates a new RedisSessionStore.
func NewRedisSessionStore(client *redis.Client) *RedisSessionStore {
	return &RedisSessionStore{client: client, now: time.Now}
}

// Make sure we conform to the interface
var _ SessionStore = (*RedisSessionStore)(nil)

func redisKey(accountID string) string {
	return redisKeyPrefix + accountID
}

func (r *RedisSessionStore) Get(ctx context.Context, accountID string) (*Session, error) {
	data, err := r.client.Get(ctx, redisKey(accountID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session: %w", err)
	}
	if s.Expired(r.now()) {
		return nil, nil
	}
	return &s, nil
}

func (r *RedisSessionStore) Put(ctx context.Context, session *Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}

	var ttl time.Duration
	if !session.ExpiresAt.IsZero() {
		ttl = session.ExpiresAt.Sub(r.now())
		if ttl <= 0 {
			return r.Delete(ctx, session.AccountID)
		}
	}

	if err := r.client.Set(ctx, redisKey(session.AccountID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store session: %w", err)
	}
	return nil
}

func (r *RedisSessionStore) Delete(ctx context.Context, accountID string) error {
	if err := r.client.Del(ctx, redisKey(accountID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}
