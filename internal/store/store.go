package store

//go:generate mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/metrics"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// RemoteClient - то, что хранилищу нужно от REST-клиента сервера
type RemoteClient interface {
	ListOccurrences(ctx context.Context) ([]models.Occurrence, error)
	CreateOccurrence(ctx context.Context, draft models.Draft) (*models.Occurrence, error)
	UpdateOccurrence(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error)
	DeleteOccurrence(ctx context.Context, id uuid.UUID) error
}

type eventKind int

const (
	eventCreated eventKind = iota
	eventUpdated
	eventDeleted
)

// journalEntry - живое событие, пришедшее во время обновления.
// issued - номер последнего выданного обновления на момент прихода.
type journalEntry struct {
	kind   eventKind
	occ    models.Occurrence
	issued uint64
}

// Store - единственный владелец клиентской коллекции происшествий.
// Коллекция меняется только результатом обновления и живыми событиями.
type Store struct {
	remote RemoteClient
	logger *logrus.Logger

	mu         sync.RWMutex
	items      map[uuid.UUID]models.Occurrence
	issuedSeq  uint64
	appliedSeq uint64
	inflight   int
	journal    []journalEntry

	subMu       sync.Mutex
	subscribers []func()
}

// New создает пустое хранилище
func New(remote RemoteClient, logger *logrus.Logger) *Store {
	return &Store{
		remote: remote,
		logger: logger,
		items:  make(map[uuid.UUID]models.Occurrence),
	}
}

// Refresh заменяет коллекцию списком сервера. События, пришедшие пока запрос
// был в полете, накладываются поверх результата, поэтому порядок обновления и
// живых событий не важен. Результат запроса, выданного раньше уже примененного, отбрасывается.
// При ошибке коллекция не меняется.
func (s *Store) Refresh(ctx context.Context) error {
	log := s.logger.WithFields(logrus.Fields{
		"component": "store",
		"method":    "Refresh",
	})

	s.mu.Lock()
	s.issuedSeq++
	seq := s.issuedSeq
	s.inflight++
	s.mu.Unlock()

	list, err := s.remote.ListOccurrences(ctx)

	s.mu.Lock()
	s.inflight--
	if err != nil {
		s.trimJournal()
		s.mu.Unlock()
		metrics.StoreRefreshTotal.WithLabelValues("error").Inc()
		log.WithError(err).Warn("Refresh failed, keeping previous collection")
		return fmt.Errorf("store: refresh: %w", err)
	}
	if applied := s.appliedSeq; seq < applied {
		s.trimJournal()
		s.mu.Unlock()
		metrics.StoreRefreshTotal.WithLabelValues("stale").Inc()
		log.WithFields(logrus.Fields{"seq": seq, "applied": applied}).Debug("Discarding stale refresh result")
		return nil
	}

	fresh := make(map[uuid.UUID]models.Occurrence, len(list))
	for _, occ := range list {
		upsert(fresh, occ)
	}
	replayed := 0
	for _, e := range s.journal {
		if e.issued >= seq {
			apply(fresh, e.kind, e.occ)
			replayed++
		}
	}
	s.items = fresh
	s.appliedSeq = seq
	s.trimJournal()
	size := len(s.items)
	s.mu.Unlock()

	metrics.StoreRefreshTotal.WithLabelValues("ok").Inc()
	metrics.StoreSize.Set(float64(size))
	log.WithFields(logrus.Fields{"size": size, "replayed": replayed}).Debug("Collection refreshed")
	s.notify()
	return nil
}

// Add отправляет новое происшествие на сервер. Локально запись не вставляется:
// она появится после обновления или живого события.
func (s *Store) Add(ctx context.Context, draft models.Draft) (*models.Occurrence, error) {
	occ, err := s.remote.CreateOccurrence(ctx, draft)
	if err != nil {
		return nil, fmt.Errorf("store: add: %w", err)
	}
	s.refreshAfter(ctx, "Add")
	return occ, nil
}

// Update пересылает частичное обновление на сервер
func (s *Store) Update(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error) {
	occ, err := s.remote.UpdateOccurrence(ctx, id, patch)
	if err != nil {
		return nil, fmt.Errorf("store: update %s: %w", id, err)
	}
	s.refreshAfter(ctx, "Update")
	return occ, nil
}

// Remove удаляет происшествие на сервере
func (s *Store) Remove(ctx context.Context, id uuid.UUID) error {
	if err := s.remote.DeleteOccurrence(ctx, id); err != nil {
		return fmt.Errorf("store: remove %s: %w", id, err)
	}
	s.refreshAfter(ctx, "Remove")
	return nil
}

// ошибка обновления после мутации только логируется
func (s *Store) refreshAfter(ctx context.Context, method string) {
	if err := s.Refresh(ctx); err != nil {
		s.logger.WithError(err).WithField("method", method).Warn("Refresh after mutation failed")
	}
}

// HandleCreated - живое событие "создано": вставка или замена по id
func (s *Store) HandleCreated(occ models.Occurrence) {
	s.handle(eventCreated, occ)
}

// HandleUpdated - живое событие "обновлено": замена по id, неизвестный id игнорируется
func (s *Store) HandleUpdated(occ models.Occurrence) {
	s.handle(eventUpdated, occ)
}

// HandleDeleted - живое событие "удалено"
func (s *Store) HandleDeleted(occ models.Occurrence) {
	s.handle(eventDeleted, occ)
}

func (s *Store) handle(kind eventKind, occ models.Occurrence) {
	s.mu.Lock()
	changed := apply(s.items, kind, occ)
	if s.inflight > 0 {
		s.journal = append(s.journal, journalEntry{kind: kind, occ: occ, issued: s.issuedSeq})
	}
	size := len(s.items)
	s.mu.Unlock()

	if !changed {
		s.logger.WithFields(logrus.Fields{
			"component":     "store",
			"occurrence_id": occ.ID,
		}).Debug("Live event left collection unchanged")
		return
	}
	metrics.StoreSize.Set(float64(size))
	s.notify()
}

// журнал нужен только пока есть запросы в полете
func (s *Store) trimJournal() {
	if s.inflight == 0 {
		s.journal = nil
	}
}

// apply применяет событие к коллекции и сообщает, изменилась ли она
func apply(items map[uuid.UUID]models.Occurrence, kind eventKind, occ models.Occurrence) bool {
	switch kind {
	case eventCreated:
		return upsert(items, occ)
	case eventUpdated:
		if _, ok := items[occ.ID]; !ok {
			return false
		}
		return upsert(items, occ)
	case eventDeleted:
		if _, ok := items[occ.ID]; !ok {
			return false
		}
		delete(items, occ.ID)
		return true
	}
	return false
}

// upsert никогда не заменяет запись более старой версией
func upsert(items map[uuid.UUID]models.Occurrence, occ models.Occurrence) bool {
	if current, ok := items[occ.ID]; ok {
		if occ.Version().Before(current.Version()) {
			return false
		}
	}
	items[occ.ID] = occ
	return true
}

// Snapshot возвращает копию коллекции, новые записи первыми
func (s *Store) Snapshot() []models.Occurrence {
	s.mu.RLock()
	out := make([]models.Occurrence, 0, len(s.items))
	for _, occ := range s.items {
		out = append(out, occ)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	return out
}

// Get возвращает запись по id
func (s *Store) Get(id uuid.UUID) (models.Occurrence, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	occ, ok := s.items[id]
	return occ, ok
}

// Len - размер коллекции
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Stats пересчитывает сводку полным проходом
func (s *Store) Stats() models.Stats {
	return models.ComputeStats(s.Snapshot())
}

// Subscribe регистрирует наблюдателя, вызываемого после каждого изменения коллекции
func (s *Store) Subscribe(fn func()) {
	s.subMu.Lock()
	s.subscribers = append(s.subscribers, fn)
	s.subMu.Unlock()
}

func (s *Store) notify() {
	s.subMu.Lock()
	subs := make([]func(), len(s.subscribers))
	copy(subs, s.subscribers)
	s.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// Run обновляет коллекцию по таймеру до отмены ctx. Ошибки только логируются.
func (s *Store) Run(ctx context.Context, interval time.Duration) {
	s.logger.WithField("interval", interval).Info("Starting periodic refresh...")
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("Stopping periodic refresh.")
			return
		case <-ticker.C:
			_ = s.Refresh(ctx)
		}
	}
}
