package main

import (
	"context"
	"time"

	"github.com/turtacn/H2Siting/internal/application/events"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/postgres"
	"github.com/turtacn/H2Siting/internal/infrastructure/database/redis"
	"github.com/turtacn/H2Siting/internal/infrastructure/llm/openrouter"
	"github.com/turtacn/H2Siting/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/H2Siting/pkg/types/common"
)

const llmOperation = "completion"

// llmObserver feeds OpenRouter call outcomes into the LLM metrics.
func llmObserver(m *prometheus.AppMetrics) openrouter.Observer {
	return func(model string, err error, elapsed time.Duration) {
		m.RecordLLMCall(model, llmOperation, err, elapsed)
	}
}

// meteredPublisher counts published events by type and outcome.
type meteredPublisher struct {
	next    events.Publisher
	metrics *prometheus.AppMetrics
}

func (p *meteredPublisher) PublishEvent(ctx context.Context, event common.DomainEvent) error {
	err := p.next.PublishEvent(ctx, event)
	p.metrics.RecordEvent(event.EventType(), err)
	return err
}

// dbObserver feeds statement timings into the query metrics.
func dbObserver(m *prometheus.AppMetrics) postgres.QueryObserver {
	return func(operation string, d time.Duration, err error) {
		m.RecordDBQuery("postgres", operation, d, err)
	}
}

// meteredCache counts GetOrSet hits and misses under name.
type meteredCache struct {
	redis.Cache
	name    string
	metrics *prometheus.AppMetrics
}

func newMeteredCache(c redis.Cache, name string, m *prometheus.AppMetrics) *meteredCache {
	return &meteredCache{Cache: c, name: name, metrics: m}
}

func (c *meteredCache) GetOrSet(ctx context.Context, key string, dest interface{}, ttl time.Duration, loader func(ctx context.Context) (interface{}, error)) error {
	hit := true
	err := c.Cache.GetOrSet(ctx, key, dest, ttl, func(ctx context.Context) (interface{}, error) {
		hit = false
		return loader(ctx)
	})
	c.metrics.RecordCacheAccess(c.name, hit)
	return err
}

//Personal.AI order the ending
