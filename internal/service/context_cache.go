// context_cache.go — LRU-кэш разрешённых контекстов с TTL.
// Кэшируются только метаданные контекстов, не результаты отчётов.
package service

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus-метрики кэша контекстов.
var (
	contextCacheHits = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fi_context_cache_hits_total",
		Help: "Общее количество попаданий в кэш контекстов.",
	})
	contextCacheMisses = promauto.NewCounter(prometheus.CounterOpts{
		Name: "fi_context_cache_misses_total",
		Help: "Общее количество промахов кэша контекстов.",
	})
)

// CachedContextResolver — ContextResolver с кэшем поверх другого резолвера.
// Ошибки не кэшируются.
type CachedContextResolver struct {
	next  ContextResolver
	cache *expirable.LRU[int64, Context]
}

// NewCachedContextResolver оборачивает next кэшем на maxSize записей с временем жизни ttl.
func NewCachedContextResolver(next ContextResolver, maxSize int, ttl time.Duration) *CachedContextResolver {
	return &CachedContextResolver{
		next:  next,
		cache: expirable.NewLRU[int64, Context](maxSize, nil, ttl),
	}
}

// Resolve возвращает контекст из кэша или разрешает его через next.
func (c *CachedContextResolver) Resolve(ctx context.Context, id int64) (Context, error) {
	if v, ok := c.cache.Get(id); ok {
		contextCacheHits.Inc()
		return v, nil
	}
	contextCacheMisses.Inc()

	v, err := c.next.Resolve(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.Add(id, v)
	return v, nil
}

// Len возвращает количество записей в кэше.
func (c *CachedContextResolver) Len() int {
	return c.cache.Len()
}
