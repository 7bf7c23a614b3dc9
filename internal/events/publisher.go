package events

//go:generate mockgen -source=publisher.go -destination=mocks/mock_publisher.go -package=mocks

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sisocc/internal/models"
)

// DefaultChannel - канал Redis Pub/Sub для событий происшествий
const DefaultChannel = "occurrence_events"

// Type - тип события канала живых обновлений
type Type string

const (
	OccurrenceCreated Type = "occurrence:new"
	OccurrenceUpdated Type = "occurrence:update"
	OccurrenceDeleted Type = "occurrence:delete"
)

// Event - конверт, который получают клиенты: {"type": ..., "payload": ..., "timestamp": ...}
type Event struct {
	Type      Type               `json:"type"`
	Payload   *models.Occurrence `json:"payload"`
	Timestamp time.Time          `json:"timestamp"`
}

// NewEvent создает событие с текущим временем
func NewEvent(t Type, occ *models.Occurrence) Event {
	return Event{Type: t, Payload: occ, Timestamp: time.Now().UTC()}
}

// Decode разбирает кадр канала
func Decode(data []byte) (Event, error) {
	var event Event
	if err := json.Unmarshal(data, &event); err != nil {
		return Event{}, fmt.Errorf("failed to unmarshal event: %w", err)
	}
	switch event.Type {
	case OccurrenceCreated, OccurrenceUpdated, OccurrenceDeleted:
	default:
		return Event{}, fmt.Errorf("unknown event type %q", event.Type)
	}
	if event.Payload == nil {
		return Event{}, fmt.Errorf("event %s without payload", event.Type)
	}
	return event, nil
}

// Publisher - интерфейс для публикации событий
type Publisher interface {
	Publish(ctx context.Context, event Event) error
}

// RedisPublisher - реализация Publisher через Redis Pub/Sub.
// Каждый экземпляр сервера подписан на канал и раздает события своим WebSocket клиентам.
type RedisPublisher struct {
	redisClient *redis.Client
	channel     string
}

// NewRedisPublisher создает новый RedisPublisher
func NewRedisPublisher(client *redis.Client, channel string) *RedisPublisher {
	if channel == "" {
		channel = DefaultChannel
	}
	return &RedisPublisher{
		redisClient: client,
		channel:     channel,
	}
}

// Publish публикует событие в канал Redis
func (p *RedisPublisher) Publish(ctx context.Context, event Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	if err := p.redisClient.Publish(ctx, p.channel, payload).Err(); err != nil {
		return fmt.Errorf("failed to publish event to Redis: %w", err)
	}
	return nil
}
