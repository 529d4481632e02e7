package repository

import (
	"context"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/revgate/revgate/internal/domain/ledger"
	"github.com/revgate/revgate/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultShardCount = 8
)

// shard holds one partition of the keyspace under its own lock.
type shard struct {
	mu       sync.RWMutex
	profiles map[string]ledger.Profile
	progress map[string]SavedProgress // key: customerID + "/" + toolKey
}

// MemStore implements Store with sharded in-memory maps. Profiles are point
// lookups by customer id, so sharded maps beat any ordered structure here.
type MemStore struct {
	shards []*shard
}

// Option applies a configuration option to the MemStore.
type Option func(*MemStore)

// WithShardCount sets the number of shards.
func WithShardCount(count int) Option {
	return func(s *MemStore) {
		if count > 0 {
			s.shards = make([]*shard, count)
		}
	}
}

// NewMemStore creates a sharded in-memory store.
func NewMemStore(opts ...Option) *MemStore {
	s := &MemStore{
		shards: make([]*shard, defaultShardCount),
	}
	for _, opt := range opts {
		opt(s)
	}
	for i := range s.shards {
		s.shards[i] = &shard{
			profiles: make(map[string]ledger.Profile),
			progress: make(map[string]SavedProgress),
		}
	}
	return s
}

func (s *MemStore) shardFor(key string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return s.shards[h.Sum32()%uint32(len(s.shards))]
}

// SaveProfile persists a profile snapshot.
func (s *MemStore) SaveProfile(_ context.Context, profile ledger.Profile) error {
	if profile.CustomerID == "" {
		return fmt.Errorf("%w: empty customer id", ErrNotFound)
	}
	sh := s.shardFor(profile.CustomerID)
	sh.mu.Lock()
	sh.profiles[profile.CustomerID] = profile
	sh.mu.Unlock()
	metrics.UpdateProfileCount(s.Count(context.Background()))
	return nil
}

// Profile loads the persisted snapshot for a customer.
func (s *MemStore) Profile(_ context.Context, customerID string) (ledger.Profile, error) {
	sh := s.shardFor(customerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	p, ok := sh.profiles[customerID]
	if !ok {
		return ledger.Profile{}, fmt.Errorf("%w: profile %s", ErrNotFound, customerID)
	}
	return p, nil
}

// SaveProgress persists saved form state for (customer, tool).
func (s *MemStore) SaveProgress(_ context.Context, progress SavedProgress) error {
	sh := s.shardFor(progress.CustomerID)
	key := progress.CustomerID + "/" + progress.ToolKey
	// Copy the state map so later caller mutations cannot leak in.
	copied := make(map[string]string, len(progress.State))
	for k, v := range progress.State {
		copied[k] = v
	}
	progress.State = copied
	sh.mu.Lock()
	sh.progress[key] = progress
	sh.mu.Unlock()
	return nil
}

// Progress loads saved form state for (customer, tool).
func (s *MemStore) Progress(_ context.Context, customerID, toolKey string) (SavedProgress, error) {
	sh := s.shardFor(customerID)
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	p, ok := sh.progress[customerID+"/"+toolKey]
	if !ok {
		return SavedProgress{}, fmt.Errorf("%w: progress %s/%s", ErrNotFound, customerID, toolKey)
	}
	return p, nil
}

// Count returns the number of customers with a persisted profile.
func (s *MemStore) Count(_ context.Context) int {
	total := 0
	for _, sh := range s.shards {
		sh.mu.RLock()
		total += len(sh.profiles)
		sh.mu.RUnlock()
	}
	return total
}
