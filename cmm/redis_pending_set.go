package cmm

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/oran-ric/near-rt-ric/internal/fatal"
)

// pendingStore is the storage abstraction the Handover CMM dedups against.
// Splitting it out lets a single-process deployment use an in-memory set
// and a multi-instance deployment share state through Redis, without
// changing Filter's logic.
type pendingStore interface {
	// addIfAbsent records key as pending if it is not already, returning
	// whether this call newly added it.
	addIfAbsent(key handoverKey) bool
}

type memoryPendingStore struct {
	set *pendingSet
}

func newMemoryPendingStore() *memoryPendingStore {
	return &memoryPendingStore{set: newPendingSet()}
}

func (m *memoryPendingStore) addIfAbsent(key handoverKey) bool {
	return m.set.addIfAbsent(key)
}

// RedisPendingSet is a Redis-backed pendingStore, grounded on this
// codebase's Redis client wrapper conventions: a single *redis.Client, a
// fixed key prefix, and SetNX as the atomic "insert if absent" primitive.
// Entries are never evicted (see pendingSet's doc comment), mirroring the
// in-memory store and the source's never-GC'd pending set.
type RedisPendingSet struct {
	client *redis.Client
	prefix string
}

// NewRedisPendingSet constructs a RedisPendingSet. prefix namespaces keys
// so multiple RIC instances (or CMM pipelines) sharing one Redis database
// do not collide.
func NewRedisPendingSet(client *redis.Client, prefix string) *RedisPendingSet {
	return &RedisPendingSet{client: client, prefix: prefix}
}

func (r *RedisPendingSet) addIfAbsent(key handoverKey) bool {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	ok, err := r.client.SetNX(ctx, r.prefix+key.String(), 1, 0).Result()
	fatal.AbortIf(err != nil, "cmm: Redis pending-set lookup for %s failed: %v", key, err)
	return ok
}
