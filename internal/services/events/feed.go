package events

import (
	"context"

	"go.uber.org/zap"
)

// Broker is the pub/sub transport behind the feed. The Redis implementation
// lives in repo/redis.
type Broker interface {
	Publish(ctx context.Context, collection string) error
	Subscribe(ctx context.Context, collection string) (<-chan struct{}, func(), error)
}

type CacheInvalidator interface {
	InvalidatePortfolio(ctx context.Context) error
}

// Feed fans collection change notifications out to watchers and keeps the
// portfolio cache honest. Publishing is best effort: a write that already
// landed must not fail because the notification leg is down.
type Feed struct {
	broker Broker
	cache  CacheInvalidator
	logger *zap.Logger
}

func NewFeed(broker Broker, cache CacheInvalidator, logger *zap.Logger) *Feed {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Feed{
		broker: broker,
		cache:  cache,
		logger: logger,
	}
}

func (f *Feed) Publish(ctx context.Context, collection string) {
	if f.cache != nil {
		if err := f.cache.InvalidatePortfolio(ctx); err != nil {
			f.logger.Warn("invalidate portfolio cache", zap.String("collection", collection), zap.Error(err))
		}
	}

	if f.broker != nil {
		if err := f.broker.Publish(ctx, collection); err != nil {
			f.logger.Warn("publish change event", zap.String("collection", collection), zap.Error(err))
		}
	}
}

func (f *Feed) Watch(ctx context.Context, collection string) (<-chan struct{}, func(), error) {
	return f.broker.Subscribe(ctx, collection)
}
