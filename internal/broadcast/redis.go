// Package broadcast публикует доставленные решения в Redis Pub/Sub для внешних подписчиков.
// Это сигнал, а не хранилище: без подписчиков сообщение просто теряется.
package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xela07ax/approval-relay/internal/domain"
)

const publishTimeout = 2 * time.Second

type RedisPublisher struct {
	rdb     redis.UniversalClient
	channel string
}

func NewRedisPublisher(rdb redis.UniversalClient, channel string) *RedisPublisher {
	return &RedisPublisher{rdb: rdb, channel: channel}
}

// Message — формат сообщения в канале.
type Message struct {
	RequesterID string         `json:"requester_id"`
	ApproverID  string         `json:"approver_id"`
	Outcome     domain.Outcome `json:"outcome"`
	DecidedAt   time.Time      `json:"decided_at"`
}

func (p *RedisPublisher) Publish(ctx context.Context, d domain.Decision) error {
	payload, err := json.Marshal(Message{
		RequesterID: d.RequesterID,
		ApproverID:  d.ApproverID,
		Outcome:     d.Outcome,
		DecidedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("broadcast: marshal decision: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	if err := p.rdb.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("broadcast: publish to %s: %w", p.channel, err)
	}
	return nil
}
