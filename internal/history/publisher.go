// internal/history/publisher.go
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/misfortune-gg/misfortune/internal/game"
)

// DefaultQueueName is the Redis list every recorded round is pushed to.
// A downstream consumer drains it into long-term audit storage.
const DefaultQueueName = "misfortune_rounds"

// Publisher pushes round audit records onto a Redis list. It implements
// game.RoundAuditor. The push is a single quick network send; gameplay
// never waits on the consumer.
type Publisher struct {
	rdb   *redis.Client
	queue string
}

// Connect dials Redis using REDIS_ADDR / REDIS_DB (defaults
// "localhost:6379" / 0) and ROUND_QUEUE_NAME for the list name.
func Connect(ctx context.Context) (*Publisher, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr: getEnv("REDIS_ADDR", "localhost:6379"),
		DB:   getEnvInt("REDIS_DB", 0),
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	return &Publisher{
		rdb:   rdb,
		queue: getEnv("ROUND_QUEUE_NAME", DefaultQueueName),
	}, nil
}

// PublishRound serializes the record and appends it to the queue.
func (p *Publisher) PublishRound(ctx context.Context, rec game.AuditRecord) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal audit record: %w", err)
	}
	if err := p.rdb.RPush(ctx, p.queue, data).Err(); err != nil {
		return fmt.Errorf("rpush to %q: %w", p.queue, err)
	}
	return nil
}

// Close releases the Redis connection.
func (p *Publisher) Close() error {
	return p.rdb.Close()
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	s := os.Getenv(key)
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
