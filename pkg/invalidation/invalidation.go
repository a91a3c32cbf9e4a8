// Package invalidation signals path-based view invalidation to whatever
// renders list and detail pages. Delivery is fire-and-forget: a lost signal
// costs a stale render, never correctness.
package invalidation

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Invalidator receives the set of route paths whose rendered views became
// stale after a mutation, e.g. "/contracts", "/contracts/{id}".
type Invalidator interface {
	Invalidate(ctx context.Context, paths ...string)
}

type noop struct{}

func (noop) Invalidate(ctx context.Context, paths ...string) {}

// Noop returns an Invalidator that drops every signal. Used in tests and
// when Redis is disabled.
func Noop() Invalidator {
	return noop{}
}

type redisInvalidator struct {
	client  *redis.Client
	channel string
	log     *logrus.Logger
}

// NewRedis publishes each path on a pub/sub channel consumed by the render
// layer. Publish errors are logged and swallowed.
func NewRedis(client *redis.Client, channel string, log *logrus.Logger) Invalidator {
	return &redisInvalidator{client: client, channel: channel, log: log}
}

func (r *redisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	for _, path := range paths {
		if err := r.client.Publish(ctx, r.channel, path).Err(); err != nil {
			if r.log != nil {
				r.log.WithError(err).WithField("path", path).Warn("failed to publish invalidation")
			}
		}
	}
}
