package webhook

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/trashunter/internal/models"
)

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

const (
	webhookQueueKey = "webhook_events"
)

type EventType string

const (
	EventMarkerReported EventType = "marker.reported"
	EventMarkerCleaned  EventType = "marker.cleaned"
)

// MarkerEvent - событие об изменении маркера для внешних подписчиков
type MarkerEvent struct {
	Type      EventType            `json:"type"`
	Marker    *models.MarkerRecord `json:"marker"`
	Timestamp time.Time            `json:"timestamp"`
}

// Publisher - публикация событий в очередь доставки
type Publisher interface {
	Publish(ctx context.Context, event MarkerEvent) error
}

// RedisPublisher кладет события в список Redis, который читает Worker
type RedisPublisher struct {
	redisClient *redis.Client
}

func NewRedisPublisher(client *redis.Client) *RedisPublisher {
	return &RedisPublisher{
		redisClient: client,
	}
}

func (p *RedisPublisher) Publish(ctx context.Context, event MarkerEvent) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal webhook event: %w", err)
	}

	// LPUSH слева, воркер забирает справа
	if err := p.redisClient.LPush(ctx, webhookQueueKey, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish webhook event to Redis: %w", err)
	}
	return nil
}
