package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"discord-quiz-bot/internal/domain"
)

// LeaderboardExporter publishes finalized run results to a Redis sorted
// set, one member per participant scored by their total. This is an export
// port adapter: the in-process leaderboard stays authoritative, Redis only
// receives the artifact.
type LeaderboardExporter struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

func NewLeaderboardExporter(client *redis.Client, prefix string, ttl time.Duration) *LeaderboardExporter {
	if prefix == "" {
		prefix = "quizbot"
	}
	return &LeaderboardExporter{client: client, prefix: prefix, ttl: ttl}
}

func (e *LeaderboardExporter) Publish(ctx context.Context, quiz string, rows []domain.ResultRow) error {
	key := e.key(quiz)

	members := make([]redis.Z, 0, len(rows))
	for _, row := range rows {
		members = append(members, redis.Z{
			Score:  float64(row.Score),
			Member: row.UserID,
		})
	}

	pipe := e.client.TxPipeline()
	pipe.Del(ctx, key)
	if len(members) > 0 {
		pipe.ZAdd(ctx, key, members...)
	}
	if e.ttl > 0 {
		pipe.Expire(ctx, key, e.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("publish leaderboard: %w", err)
	}
	return nil
}

func (e *LeaderboardExporter) key(quiz string) string {
	return fmt.Sprintf("%s:%s:leaderboard", e.prefix, quiz)
}
