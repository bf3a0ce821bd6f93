// Package dedup short-circuits repeated webhook deliveries for the same
// conversation before they hit the database. It is best-effort only: the
// submissions upsert keyed on conversation_id remains the authoritative
// idempotency layer, so the guard fails open when Redis is unavailable.
package dedup

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/oakhurst-health/intake-ai-platform/pkg/logging"
)

// DefaultTTL is how long a conversation stays marked as seen. Provider
// retries cluster within minutes of the original delivery; a day covers
// manual redeliveries too.
const DefaultTTL = 24 * time.Hour

// Guard marks conversations as seen in Redis.
type Guard struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
	logger *logging.Logger
}

// NewGuard creates a guard. A nil client disables deduplication (every
// delivery is treated as first-seen).
func NewGuard(client *redis.Client, ttl time.Duration, logger *logging.Logger) *Guard {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Guard{
		redis:  client,
		ttl:    ttl,
		tracer: otel.Tracer("intake/dedup"),
		logger: logger,
	}
}

// MarkSeen records the conversation and reports whether it had already been
// seen within the TTL. Redis failures are logged and reported as unseen so
// processing continues.
func (g *Guard) MarkSeen(ctx context.Context, conversationID string) bool {
	if g == nil || g.redis == nil || conversationID == "" {
		return false
	}
	ctx, span := g.tracer.Start(ctx, "dedup.mark_seen")
	defer span.End()

	firstSeen, err := g.redis.SetNX(ctx, seenKey(conversationID), 1, g.ttl).Result()
	if err != nil {
		span.RecordError(err)
		g.logger.Warn("dedup: redis unavailable, continuing without guard",
			"error", err, "conversation_id", conversationID)
		return false
	}
	return !firstSeen
}

// Forget clears the seen marker, used by the manual resync path so a
// re-fetched conversation is processed even if recently delivered.
func (g *Guard) Forget(ctx context.Context, conversationID string) {
	if g == nil || g.redis == nil || conversationID == "" {
		return
	}
	if err := g.redis.Del(ctx, seenKey(conversationID)).Err(); err != nil {
		g.logger.Warn("dedup: failed to clear seen marker",
			"error", err, "conversation_id", conversationID)
	}
}

func seenKey(conversationID string) string {
	return fmt.Sprintf("webhook_seen:%s", conversationID)
}
