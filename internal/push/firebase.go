package push

import (
	"context"
	"fmt"
	"strconv"
	"time"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
	"google.golang.org/api/option"
)

// DefaultTopic - тема FCM, на которую подписаны мобильные клиенты дежурных
const DefaultTopic = "ocorrencias-prioritarias"

// sender - часть messaging.Client, которая нужна уведомителю
type sender interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// FirebaseNotifier рассылает push-уведомления о срочных происшествиях через FCM
type FirebaseNotifier struct {
	client sender
	topic  string
	logger *logrus.Logger
}

// NewFirebaseNotifier инициализирует клиента FCM по файлу сервисного аккаунта
func NewFirebaseNotifier(ctx context.Context, credentialsPath, topic string, logger *logrus.Logger) (*FirebaseNotifier, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsPath))
	if err != nil {
		return nil, fmt.Errorf("push: error initializing Firebase app: %w", err)
	}

	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("push: error getting Messaging client: %w", err)
	}

	logger.WithField("topic", topic).Info("Firebase push notifier initialized")
	return newNotifier(client, topic, logger), nil
}

func newNotifier(client sender, topic string, logger *logrus.Logger) *FirebaseNotifier {
	if topic == "" {
		topic = DefaultTopic
	}
	return &FirebaseNotifier{client: client, topic: topic, logger: logger}
}

// NotifyUrgent отправляет уведомление о новом происшествии высокого приоритета
func (n *FirebaseNotifier) NotifyUrgent(ctx context.Context, occ *models.Occurrence) error {
	id, err := n.client.Send(ctx, buildMessage(n.topic, occ))
	if err != nil {
		metrics.PushSentTotal.WithLabelValues("error").Inc()
		return fmt.Errorf("push: error sending notification: %w", err)
	}

	metrics.PushSentTotal.WithLabelValues("ok").Inc()
	n.logger.WithFields(logrus.Fields{
		"occurrence_id": occ.ID,
		"message_id":    id,
	}).Info("Urgent occurrence push sent")
	return nil
}

func buildMessage(topic string, occ *models.Occurrence) *messaging.Message {
	body := occ.Local
	if occ.Endereco != "" {
		body = fmt.Sprintf("%s - %s", occ.Local, occ.Endereco)
	}
	return &messaging.Message{
		Topic: topic,
		Notification: &messaging.Notification{
			Title: fmt.Sprintf("%s: %s", occ.Prioridade, occ.Tipo),
			Body:  body,
		},
		Data: map[string]string{
			"type":         "occurrence:new",
			"occurrenceId": occ.ID.String(),
			"tipo":         occ.Tipo,
			"prioridade":   string(occ.Prioridade),
			"latitude":     strconv.FormatFloat(occ.Latitude, 'f', -1, 64),
			"longitude":    strconv.FormatFloat(occ.Longitude, 'f', -1, 64),
			"timestamp":    strconv.FormatInt(time.Now().Unix(), 10),
		},
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				Sound:        "default",
				Priority:     messaging.PriorityHigh,
				ChannelID:    "sisocc_alertas",
				DefaultSound: true,
			},
		},
	}
}
