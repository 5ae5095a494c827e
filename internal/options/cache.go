package options

import (
	"context"
	"strconv"
	"time"

	"github.com/jonesrussell/north-cloud/pinned-nav/infrastructure/logger"
	"github.com/jonesrussell/north-cloud/pinned-nav/internal/telemetry"
	"github.com/redis/go-redis/v9"
)

const (
	// DefaultCacheTTL is how long a cached option stays valid.
	DefaultCacheTTL = 5 * time.Minute

	cacheKeyPrefix = "pinned-nav:option:"
)

// CachedStore is a read-through Redis cache in front of another Store.
// Each cached entry is a hash holding the raw value and its revision. Every cache
// write, from a read fill or a successful store write, only lands when it carries a
// newer revision than the entry it replaces, so a slow fill never hides a save.
// Redis failures are logged and bypassed.
type CachedStore struct {
	next   Store
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
	tel    *telemetry.Provider
}

var _ Store = (*CachedStore)(nil)

// NewCachedStore wraps next with a Redis cache. tel may be nil.
func NewCachedStore(next Store, client *redis.Client, ttl time.Duration, log logger.Logger, tel *telemetry.Provider) *CachedStore {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	return &CachedStore{next: next, client: client, ttl: ttl, log: log, tel: tel}
}

const (
	fieldRaw      = "raw"
	fieldRevision = "rev"
)

// putIfNewer stores ARGV[1] at revision ARGV[2] unless the entry already holds that
// revision or a later one. ARGV[3] is the TTL in milliseconds.
var putIfNewer = redis.NewScript(`
	local current = redis.call("hget", KEYS[1], "rev")
	if current and tonumber(current) >= tonumber(ARGV[2]) then
		return 0
	end
	redis.call("hset", KEYS[1], "raw", ARGV[1], "rev", ARGV[2])
	redis.call("pexpire", KEYS[1], ARGV[3])
	return 1
`)

// Get serves key from Redis, falling back to the underlying store.
func (s *CachedStore) Get(ctx context.Context, key string) (StoredValue, error) {
	fields, err := s.client.HGetAll(ctx, cacheKeyPrefix+key).Result()
	switch {
	case err != nil:
		s.log.Warn("Options cache read failed", logger.String("option_key", key), logger.Error(err))
		s.tel.RecordCacheLookup("error")
	case len(fields) == 0:
		s.tel.RecordCacheLookup("miss")
	default:
		if value, ok := decodeCached(fields); ok {
			s.tel.RecordCacheLookup("hit")
			return value, nil
		}
		s.log.Warn("Discarding undecodable cached option", logger.String("option_key", key))
		s.tel.RecordCacheLookup("error")
	}

	value, err := s.next.Get(ctx, key)
	if err != nil {
		return StoredValue{}, err
	}

	s.put(ctx, key, value)
	return value, nil
}

// Set writes through and refreshes the cached entry.
func (s *CachedStore) Set(ctx context.Context, key string, raw []byte) (int64, error) {
	revision, err := s.next.Set(ctx, key, raw)
	if err != nil {
		return 0, err
	}
	s.put(ctx, key, StoredValue{Raw: raw, Revision: revision})
	return revision, nil
}

// CompareAndSet writes through and refreshes the cached entry.
func (s *CachedStore) CompareAndSet(ctx context.Context, key string, raw []byte, expected int64) (int64, error) {
	revision, err := s.next.CompareAndSet(ctx, key, raw, expected)
	if err != nil {
		return 0, err
	}
	s.put(ctx, key, StoredValue{Raw: raw, Revision: revision})
	return revision, nil
}

func (s *CachedStore) put(ctx context.Context, key string, value StoredValue) {
	err := putIfNewer.Run(ctx, s.client, []string{cacheKeyPrefix + key},
		string(value.Raw), value.Revision, s.ttl.Milliseconds()).Err()
	if err != nil {
		s.log.Warn("Options cache write failed", logger.String("option_key", key), logger.Error(err))
	}
}

func decodeCached(fields map[string]string) (StoredValue, bool) {
	raw, hasRaw := fields[fieldRaw]
	rev, err := strconv.ParseInt(fields[fieldRevision], 10, 64)
	if !hasRaw || err != nil {
		return StoredValue{}, false
	}
	return StoredValue{Raw: []byte(raw), Revision: rev}, true
}
