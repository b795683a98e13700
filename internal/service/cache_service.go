package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	appErrors "github.com/bailakids/registration-api/pkg/errors"
)

// CacheRepository stores JSON payloads with an expiry.
type CacheRepository interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
	Incr(ctx context.Context, key string) (int64, error)
}

// CacheService owns one key namespace in Redis. Every key it writes starts with
// "<namespace>:", so Purge drops them all with a single pattern delete.
// Purge also bumps the namespace generation, which is part of every stored key:
// a load that started before the purge writes under the old generation, where
// no reader looks. A nil *CacheService is a valid, always-missing cache.
type CacheService struct {
	repo      CacheRepository
	namespace string
	ttl       time.Duration
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewCacheService scopes repo to namespace. Entries expire after ttl (30s when unset).
func NewCacheService(repo CacheRepository, namespace string, ttl time.Duration, metrics *MetricsService, logger *zap.Logger) *CacheService {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CacheService{
		repo:      repo,
		namespace: strings.TrimSuffix(namespace, ":"),
		ttl:       ttl,
		metrics:   metrics,
		logger:    logger.With(zap.String("cache", namespace)),
	}
}

// Key joins parts under the namespace, e.g. "sections:FALL_2025".
func (s *CacheService) Key(parts ...string) string {
	if s == nil {
		return strings.Join(parts, ":")
	}
	return s.namespace + ":" + strings.Join(parts, ":")
}

// Purge retires the current generation and drops every entry in the namespace.
func (s *CacheService) Purge(ctx context.Context) error {
	if s == nil || s.repo == nil {
		return nil
	}
	_, genErr := s.repo.Incr(ctx, s.generationKey())
	if genErr != nil {
		s.logger.Warn("cache generation bump failed", zap.Error(genErr))
	}
	if err := s.repo.DeleteByPattern(ctx, s.namespace+":*"); err != nil {
		s.logger.Warn("cache purge failed", zap.Error(err))
		return errors.Join(genErr, err)
	}
	return genErr
}

// generationKey sits outside the "<namespace>:*" pattern so Purge never deletes it.
func (s *CacheService) generationKey() string {
	return s.namespace + ".gen"
}

// generation returns the current namespace generation. ok is false when it
// cannot be read, in which case the cache must be bypassed.
func (s *CacheService) generation(ctx context.Context) (gen int64, ok bool) {
	if s == nil || s.repo == nil {
		return 0, false
	}
	err := s.repo.Get(ctx, s.generationKey(), &gen)
	switch {
	case err == nil:
		return gen, true
	case errors.Is(err, appErrors.ErrCacheMiss):
		return 0, true
	}
	s.logger.Warn("cache generation read failed", zap.Error(err))
	return 0, false
}

// versioned stores generation zero under the bare key.
func versioned(key string, gen int64) string {
	if gen == 0 {
		return key
	}
	return key + "@" + strconv.FormatInt(gen, 10)
}

func (s *CacheService) get(ctx context.Context, key string, dest interface{}) bool {
	if s == nil || s.repo == nil {
		return false
	}
	start := time.Now()
	err := s.repo.Get(ctx, key, dest)
	s.metrics.RecordCacheLookup(s.namespace, err == nil, time.Since(start))
	if err != nil && !errors.Is(err, appErrors.ErrCacheMiss) {
		s.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
	}
	return err == nil
}

func (s *CacheService) set(ctx context.Context, key string, value interface{}) {
	if s == nil || s.repo == nil {
		return
	}
	start := time.Now()
	err := s.repo.Set(ctx, key, value, s.ttl)
	s.metrics.ObserveCacheWrite(s.namespace, time.Since(start))
	if err != nil {
		s.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
	}
}

// Cached returns the value stored under key, or calls load and stores its result.
// Cache failures fall through to load; load errors are returned unchanged and not cached.
// The result is stored under the generation read before load, so a Purge that
// lands while load runs leaves it unreachable.
func Cached[T any](ctx context.Context, cache *CacheService, key string, load func(context.Context) (T, error)) (T, error) {
	gen, ok := cache.generation(ctx)
	if !ok {
		return load(ctx)
	}
	key = versioned(key, gen)

	var value T
	if cache.get(ctx, key, &value) {
		return value, nil
	}
	value, err := load(ctx)
	if err != nil {
		return value, err
	}
	cache.set(ctx, key, value)
	return value, nil
}
