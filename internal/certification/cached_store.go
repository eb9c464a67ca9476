package certification

import (
	"context"
	"time"

	"github.com/wonny/quotecert/internal/contracts"
	"github.com/wonny/quotecert/pkg/logger"
	"github.com/wonny/quotecert/pkg/redis"
)

// CachedStore is a Redis read-through decorator.
// 레코드는 불변이므로 캐시 무효화가 필요 없음; 캐시 장애 시 원본 저장소 사용
type CachedStore struct {
	next  contracts.CertificationRepository
	cache *redis.Cache
	ttl   time.Duration
	log   *logger.Logger
}

// NewCachedStore wraps next with a Redis cache
func NewCachedStore(next contracts.CertificationRepository, cache *redis.Cache, ttl time.Duration, log *logger.Logger) *CachedStore {
	if ttl <= 0 {
		ttl = redis.TTLLong
	}
	if log == nil {
		log = logger.Nop()
	}
	return &CachedStore{
		next:  next,
		cache: cache,
		ttl:   ttl,
		log:   log.WithComponent("certification_cache"),
	}
}

var _ contracts.CertificationRepository = (*CachedStore)(nil)

// Save writes through to the backing store, then warms the cache
func (s *CachedStore) Save(ctx context.Context, rec *contracts.CertificationRecord) error {
	if err := s.next.Save(ctx, rec); err != nil {
		return err
	}
	if err := s.cache.Set(ctx, redis.CertificationKey(rec.ID), rec, s.ttl); err != nil {
		s.log.WithError(err).Warn("Cache warm failed")
	}
	return nil
}

// Get serves from cache, falling back to the backing store on miss or cache error
func (s *CachedStore) Get(ctx context.Context, id string) (*contracts.CertificationRecord, error) {
	key := redis.CertificationKey(id)

	var cached contracts.CertificationRecord
	hit, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.WithError(err).Warn("Cache read failed, using backing store")
	}
	if hit {
		return &cached, nil
	}

	rec, err := s.next.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, key, rec, s.ttl); err != nil {
		s.log.WithError(err).Warn("Cache fill failed")
	}
	return rec, nil
}

// ListExpiring is never cached
func (s *CachedStore) ListExpiring(ctx context.Context, from, to time.Time) ([]contracts.CertificationRecord, error) {
	return s.next.ListExpiring(ctx, from, to)
}
