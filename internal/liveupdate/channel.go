package liveupdate

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"github.com/shenikar/sisocc/internal/events"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// DefaultReconnectDelay - пауза перед повторным подключением после обрыва
const DefaultReconnectDelay = 5 * time.Second

// Handlers - обработчики событий; nil-обработчик пропускается
type Handlers struct {
	OnCreated func(occ models.Occurrence)
	OnUpdated func(occ models.Occurrence)
	OnDeleted func(occ models.Occurrence)
}

// Options - параметры подключения
type Options struct {
	URL            string
	ReconnectDelay time.Duration
	// TokenSource дает актуальный JWT при каждом подключении
	TokenSource func() string
}

// Channel - клиент канала живых обновлений со счетчиком ссылок.
// Соединение открывается при первом Acquire и закрывается, когда последний держатель вызвал Release.
// Доставка не более одного раза: пропущенные за время обрыва события не запрашиваются повторно.
type Channel struct {
	opts     Options
	handlers Handlers
	dialer   *websocket.Dialer
	logger   *logrus.Logger

	mu     sync.Mutex
	refs   int
	cancel context.CancelFunc
	done   chan struct{}

	connected atomic.Bool
}

func New(opts Options, handlers Handlers, logger *logrus.Logger) *Channel {
	if opts.ReconnectDelay <= 0 {
		opts.ReconnectDelay = DefaultReconnectDelay
	}
	return &Channel{
		opts:     opts,
		handlers: handlers,
		dialer:   &websocket.Dialer{HandshakeTimeout: 10 * time.Second},
		logger:   logger,
	}
}

// Acquire регистрирует держателя; первый держатель запускает подключение
func (c *Channel) Acquire() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.refs++
	if c.refs > 1 {
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.done = make(chan struct{})
	go c.run(ctx, c.done)
}

// Release снимает держателя; последний закрывает соединение и дожидается остановки.
// Нельзя вызывать из обработчика событий.
func (c *Channel) Release() {
	c.mu.Lock()
	if c.refs == 0 {
		c.mu.Unlock()
		return
	}
	c.refs--
	if c.refs > 0 {
		c.mu.Unlock()
		return
	}
	cancel, done := c.cancel, c.done
	c.cancel, c.done = nil, nil
	c.mu.Unlock()

	cancel()
	<-done
}

// Connected сообщает, открыто ли соединение сейчас
func (c *Channel) Connected() bool {
	return c.connected.Load()
}

// Refs - текущее число держателей
func (c *Channel) Refs() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.refs
}

func (c *Channel) run(ctx context.Context, done chan struct{}) {
	defer close(done)
	log := c.logger.WithFields(logrus.Fields{"component": "liveupdate", "url": c.opts.URL})

	for {
		if err := c.session(ctx, log); err != nil && ctx.Err() == nil {
			log.WithError(err).Warn("Live channel disconnected")
		}
		if ctx.Err() != nil {
			log.Info("Live channel released")
			return
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(c.opts.ReconnectDelay):
		}
	}
}

// session держит одно соединение до обрыва или отмены ctx
func (c *Channel) session(ctx context.Context, log *logrus.Entry) error {
	header := http.Header{}
	if c.opts.TokenSource != nil {
		if token := c.opts.TokenSource(); token != "" {
			header.Set("Authorization", "Bearer "+token)
		}
	}

	conn, resp, err := c.dialer.DialContext(ctx, c.opts.URL, header)
	if err != nil {
		if resp != nil {
			return fmt.Errorf("dial: status %d: %w", resp.StatusCode, err)
		}
		return fmt.Errorf("dial: %w", err)
	}
	defer conn.Close()

	c.connected.Store(true)
	defer c.connected.Store(false)
	log.Info("Live channel connected")

	// ReadMessage не смотрит на ctx, поэтому соединение закрывается отдельно
	stop := make(chan struct{})
	defer close(stop)
	go func() {
		select {
		case <-ctx.Done():
			conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
			conn.Close()
		case <-stop:
		}
	}()

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			return err
		}
		c.dispatch(frame, log)
	}
}

// dispatch - неразборчивый кадр логируется и отбрасывается
func (c *Channel) dispatch(frame []byte, log *logrus.Entry) {
	event, err := events.Decode(frame)
	if err != nil {
		log.WithError(err).Warn("Dropping undecodable live frame")
		return
	}
	metrics.LiveEventsTotal.WithLabelValues("in", string(event.Type)).Inc()

	var handler func(models.Occurrence)
	switch event.Type {
	case events.OccurrenceCreated:
		handler = c.handlers.OnCreated
	case events.OccurrenceUpdated:
		handler = c.handlers.OnUpdated
	case events.OccurrenceDeleted:
		handler = c.handlers.OnDeleted
	}
	if handler != nil {
		handler(*event.Payload)
	}
}
