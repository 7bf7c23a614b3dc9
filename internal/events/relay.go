package events

import (
	"context"

	"github.com/redis/go-redis/v9"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/sirupsen/logrus"
)

// Broadcaster раздает готовый кадр всем подключенным клиентам
type Broadcaster interface {
	Broadcast(message []byte)
}

// Relay - подписчик канала Redis, пересылающий события в WebSocket hub
type Relay struct {
	redisClient *redis.Client
	channel     string
	hub         Broadcaster
	logger      *logrus.Logger
}

// NewRelay создает новый Relay
func NewRelay(redisClient *redis.Client, channel string, hub Broadcaster, logger *logrus.Logger) *Relay {
	if channel == "" {
		channel = DefaultChannel
	}
	return &Relay{
		redisClient: redisClient,
		channel:     channel,
		hub:         hub,
		logger:      logger,
	}
}

// Start запускает горутину чтения канала; остановка по отмене ctx.
// Переподключение к Redis выполняет сам go-redis.
func (r *Relay) Start(ctx context.Context) {
	r.logger.WithField("channel", r.channel).Info("Starting event relay...")
	pubsub := r.redisClient.Subscribe(ctx, r.channel)

	go func() {
		defer pubsub.Close()
		messages := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				r.logger.Info("Stopping event relay.")
				return
			case msg, ok := <-messages:
				if !ok {
					r.logger.Warn("Event subscription channel closed")
					return
				}
				r.forward([]byte(msg.Payload))
			}
		}
	}()
}

// forward проверяет кадр и передает его в hub без перекодирования
func (r *Relay) forward(payload []byte) {
	event, err := Decode(payload)
	if err != nil {
		r.logger.WithError(err).Error("Dropping malformed event from Redis")
		return
	}

	r.logger.WithFields(logrus.Fields{
		"event_type":    event.Type,
		"occurrence_id": event.Payload.ID,
	}).Debug("Relaying event to live clients")
	metrics.LiveEventsTotal.WithLabelValues("out", string(event.Type)).Inc()
	r.hub.Broadcast(payload)
}
