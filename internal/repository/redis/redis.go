package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"myMealPlanner/business/bandit"

	"github.com/redis/go-redis/v9"
)

const defaultStateTTL = 6 * time.Hour

// StateCache is a read-through cache in front of the durable bandit
// state repository. State is read once per process per user, so the
// cache mainly absorbs restart storms; postgres stays the source of
// truth and every cache write is best effort.
type StateCache struct {
	client *redis.Client
	inner  bandit.StateRepository
	ttl    time.Duration
}

var _ bandit.StateRepository = (*StateCache)(nil)

func NewStateCache(client *redis.Client, inner bandit.StateRepository, ttl time.Duration) *StateCache {
	if ttl <= 0 {
		ttl = defaultStateTTL
	}
	return &StateCache{
		client: client,
		inner:  inner,
		ttl:    ttl,
	}
}

func stateKey(userID uint) string {
	// key format: "bandit:state:{user_id}"
	return fmt.Sprintf("bandit:state:%d", userID)
}

func (c *StateCache) GetState(ctx context.Context, userID uint) (*bandit.SavedState, error) {
	key := stateKey(userID)

	val, err := c.client.Get(ctx, key).Result()
	if err == nil {
		var state bandit.SavedState
		if jsonErr := json.Unmarshal([]byte(val), &state); jsonErr == nil {
			return &state, nil
		}
		// corrupt entry: drop it and fall through to the inner repo
		_ = c.client.Del(ctx, key).Err()
	}

	// redis.Nil and transport failures both read through to postgres
	state, err := c.inner.GetState(ctx, userID)
	if err != nil {
		return nil, err
	}
	if state != nil {
		c.refresh(ctx, key, state)
	}
	return state, nil
}

func (c *StateCache) SaveState(ctx context.Context, userID uint, state *bandit.SavedState) error {
	if err := c.inner.SaveState(ctx, userID, state); err != nil {
		return err
	}

	c.refresh(ctx, stateKey(userID), state)
	return nil
}

// refresh re-seeds the cache entry; failures are swallowed since the
// durable write already happened.
func (c *StateCache) refresh(ctx context.Context, key string, state *bandit.SavedState) {
	raw, err := json.Marshal(state)
	if err != nil {
		return
	}
	_ = c.client.Set(ctx, key, raw, c.ttl).Err()
}
