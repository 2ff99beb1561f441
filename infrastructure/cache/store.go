package cache

import (
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"coursehub-backend/pkg/observability"
)

const (
	// DefaultTTL is how long an entry stays fresh in either tier
	DefaultTTL = 24 * time.Hour

	keyPrefix = "coursehub-"
)

// Entry is the stored form of a cached value in both tiers
type Entry struct {
	Data      json.RawMessage `json:"data"`
	Timestamp int64           `json:"timestamp"` // epoch milliseconds
}

// Stats reports the store's current occupancy per tier
type Stats struct {
	MemoryEntries     int    `json:"memory_entries"`
	PersistentEntries int    `json:"persistent_entries"`
	SchemaVersion     string `json:"schema_version"`
}

// Store is a two-tier expiring key-value cache: an in-process map backed
// by an optional persistent tier. Entries are tagged with a schema
// version so a deploy that changes cached shapes starts from a clean
// slate. The persistent tier is best-effort throughout: any failure
// there is logged and the store degrades to memory-only behavior.
type Store struct {
	mu         sync.Mutex
	memory     map[string]Entry
	persistent PersistentTier
	version    string
	ttl        time.Duration
	policy     EvictionPolicy
	logger     *zap.Logger
	metrics    *observability.Metrics
	now        func() time.Time
}

// StoreOption configures a Store
type StoreOption func(*Store)

// WithPersistentTier attaches a durable tier. Without one the store is
// memory-only.
func WithPersistentTier(tier PersistentTier) StoreOption {
	return func(s *Store) { s.persistent = tier }
}

// WithTTL overrides the default entry lifetime
func WithTTL(ttl time.Duration) StoreOption {
	return func(s *Store) { s.ttl = ttl }
}

// WithEvictionPolicy overrides the quota-recovery eviction policy
func WithEvictionPolicy(policy EvictionPolicy) StoreOption {
	return func(s *Store) { s.policy = policy }
}

// WithMetrics attaches cache metrics
func WithMetrics(m *observability.Metrics) StoreOption {
	return func(s *Store) { s.metrics = m }
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) StoreOption {
	return func(s *Store) { s.now = now }
}

// NewStore creates a store for the given schema version and purges any
// persisted entries left over from prior schema versions.
func NewStore(version string, logger *zap.Logger, opts ...StoreOption) *Store {
	s := &Store{
		memory:  make(map[string]Entry),
		version: version,
		ttl:     DefaultTTL,
		policy:  OldestHalfPolicy{},
		logger:  logger,
		metrics: observability.NewNopMetrics(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.clearOldVersions()

	return s
}

// Get returns the cached value for (namespace, id), or absent. Expired
// entries are evicted on the way out; persistent hits are promoted into
// the memory tier.
func (s *Store) Get(namespace, id string) (json.RawMessage, bool) {
	key := s.key(namespace, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.memory[key]; ok {
		if !s.expired(entry.Timestamp) {
			s.metrics.CacheHits.WithLabelValues(namespace, "memory").Inc()
			return entry.Data, true
		}
		delete(s.memory, key)
		s.metrics.CacheEvictions.WithLabelValues("expired").Inc()
	}

	if s.persistent != nil {
		if data, ok := s.readPersistent(key); ok {
			s.metrics.CacheHits.WithLabelValues(namespace, "persistent").Inc()
			return data, true
		}
	}

	s.metrics.CacheMisses.WithLabelValues(namespace).Inc()
	return nil, false
}

// readPersistent reads, freshness-checks, and promotes one entry.
// Corrupted entries are purged and reported absent. Caller holds s.mu.
func (s *Store) readPersistent(key string) (json.RawMessage, bool) {
	stored, err := s.persistent.Read(key)
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			s.logger.Warn("cache read error", zap.String("key", key), zap.Error(err))
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(stored, &entry); err != nil {
		s.logger.Warn("purging corrupted cache entry", zap.String("key", key), zap.Error(err))
		s.deletePersistent(key)
		return nil, false
	}

	if s.expired(entry.Timestamp) {
		s.deletePersistent(key)
		s.metrics.CacheEvictions.WithLabelValues("expired").Inc()
		return nil, false
	}

	s.memory[key] = entry
	return entry.Data, true
}

// Set writes a timestamped entry into both tiers. A quota failure on the
// persistent tier triggers one eviction-and-retry cycle; if that also
// fails the write is dropped there, with the memory tier still holding
// the value for the rest of the process lifetime.
func (s *Store) Set(namespace, id string, data json.RawMessage) {
	key := s.key(namespace, id)
	entry := Entry{Data: data, Timestamp: s.now().UnixMilli()}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory[key] = entry

	if s.persistent == nil {
		return
	}

	serialized, err := json.Marshal(entry)
	if err != nil {
		s.logger.Warn("cache serialize error", zap.String("key", key), zap.Error(err))
		return
	}

	err = s.persistent.Write(key, serialized)
	if errors.Is(err, ErrQuotaExceeded) {
		s.logger.Warn("cache quota exceeded, evicting old entries", zap.String("key", key))
		s.evictForSpace()
		err = s.persistent.Write(key, serialized)
	}
	if err != nil {
		s.logger.Warn("unable to persist cache entry", zap.String("key", key), zap.Error(err))
	}
}

// Remove deletes the entry from both tiers; idempotent
func (s *Store) Remove(namespace, id string) {
	key := s.key(namespace, id)

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.memory, key)
	s.deletePersistent(key)
	s.metrics.CacheEvictions.WithLabelValues("invalidated").Inc()
}

// Clear deletes every entry under the current schema version from both
// tiers
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.memory = make(map[string]Entry)
	s.forEachPersistedKey(func(key string) {
		if strings.HasPrefix(key, s.versionPrefix()) {
			s.deletePersistent(key)
		}
	})
}

// ClearNamespace deletes every entry in one namespace from both tiers,
// leaving other namespaces untouched
func (s *Store) ClearNamespace(namespace string) {
	prefix := s.versionPrefix() + namespace + "-"

	s.mu.Lock()
	defer s.mu.Unlock()

	for key := range s.memory {
		if strings.HasPrefix(key, prefix) {
			delete(s.memory, key)
		}
	}
	s.forEachPersistedKey(func(key string) {
		if strings.HasPrefix(key, prefix) {
			s.deletePersistent(key)
			s.metrics.CacheEvictions.WithLabelValues("invalidated").Inc()
		}
	})
}

// Stats reports entry counts per tier
func (s *Store) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := Stats{
		MemoryEntries: len(s.memory),
		SchemaVersion: s.version,
	}
	s.forEachPersistedKey(func(key string) {
		if strings.HasPrefix(key, s.versionPrefix()) {
			stats.PersistentEntries++
		}
	})
	return stats
}

// clearOldVersions purges persisted entries written under a prior schema
// version. Runs once at construction.
func (s *Store) clearOldVersions() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.forEachPersistedKey(func(key string) {
		if strings.HasPrefix(key, keyPrefix) && !strings.HasPrefix(key, s.versionPrefix()) {
			s.deletePersistent(key)
		}
	})
}

// evictForSpace frees persistent-tier space by handing every current-
// version entry to the eviction policy. Corrupted entries found along
// the way are purged outright. Caller holds s.mu.
func (s *Store) evictForSpace() {
	var entries []EntryInfo
	s.forEachPersistedKey(func(key string) {
		if !strings.HasPrefix(key, s.versionPrefix()) {
			return
		}
		stored, err := s.persistent.Read(key)
		if err != nil {
			return
		}
		var entry Entry
		if err := json.Unmarshal(stored, &entry); err != nil {
			s.deletePersistent(key)
			return
		}
		entries = append(entries, EntryInfo{Key: key, Timestamp: entry.Timestamp})
	})

	for _, key := range s.policy.Victims(entries) {
		s.deletePersistent(key)
		delete(s.memory, key)
		s.metrics.CacheEvictions.WithLabelValues("quota").Inc()
	}
}

func (s *Store) forEachPersistedKey(fn func(key string)) {
	if s.persistent == nil {
		return
	}
	keys, err := s.persistent.Keys()
	if err != nil {
		s.logger.Warn("cache key listing error", zap.Error(err))
		return
	}
	for _, key := range keys {
		fn(key)
	}
}

func (s *Store) deletePersistent(key string) {
	if s.persistent == nil {
		return
	}
	if err := s.persistent.Delete(key); err != nil {
		s.logger.Warn("cache delete error", zap.String("key", key), zap.Error(err))
	}
}

func (s *Store) expired(timestamp int64) bool {
	return s.now().UnixMilli()-timestamp > s.ttl.Milliseconds()
}

// key composes the deterministic cache key for (namespace, id)
func (s *Store) key(namespace, id string) string {
	return s.versionPrefix() + namespace + "-" + id
}

func (s *Store) versionPrefix() string {
	return keyPrefix + s.version + "-"
}
