package service

//go:generate mockgen -source=occurrence.go -destination=mocks/mock_occurrence.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/sisocc/internal/config"
	"github.com/shenikar/sisocc/internal/events"
	"github.com/shenikar/sisocc/internal/geocode"
	"github.com/shenikar/sisocc/internal/models"
	"github.com/sirupsen/logrus"
)

// ErrEmptyPatch - в запросе на обновление нет ни одного поля
var ErrEmptyPatch = errors.New("empty patch")

const maxListLimit = 1000

// OccurrenceRepository определяет контракт для работы с бд происшествий
type OccurrenceRepository interface {
	Create(ctx context.Context, occ *models.Occurrence) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Occurrence, error)
	Update(ctx context.Context, occ *models.Occurrence) error
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, filter models.Filter) ([]*models.Occurrence, error)
	GetOccurrenceFromCache(ctx context.Context, id uuid.UUID) (*models.Occurrence, error)
	SetOccurrenceCache(ctx context.Context, occ *models.Occurrence) error
	InvalidateOccurrenceCache(ctx context.Context, id uuid.UUID) error
}

// Notifier оповещает дежурных о срочных происшествиях
type Notifier interface {
	NotifyUrgent(ctx context.Context, occ *models.Occurrence) error
}

// OccurrenceService определяет контракт бизнес-логики управления происшествиями
type OccurrenceService interface {
	CreateOccurrence(ctx context.Context, draft models.Draft, userID *uuid.UUID) (*models.Occurrence, error)
	GetOccurrence(ctx context.Context, id uuid.UUID) (*models.Occurrence, error)
	ListOccurrences(ctx context.Context, filter models.Filter) ([]*models.Occurrence, error)
	UpdateOccurrence(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error)
	DeleteOccurrence(ctx context.Context, id uuid.UUID) error
	GetStats(ctx context.Context, start, end *time.Time) (*models.Report, error)
}

type occurrenceService struct {
	repo      OccurrenceRepository
	geocoder  geocode.Geocoder
	publisher events.Publisher
	notifier  Notifier
	fallback  models.Point
	logger    *logrus.Logger
}

// NewOccurrenceService создает сервис; geocoder и notifier могут быть nil
func NewOccurrenceService(
	repo OccurrenceRepository,
	geocoder geocode.Geocoder,
	publisher events.Publisher,
	notifier Notifier,
	logger *logrus.Logger,
	cfg *config.Config,
) OccurrenceService {
	return &occurrenceService{
		repo:      repo,
		geocoder:  geocoder,
		publisher: publisher,
		notifier:  notifier,
		fallback:  models.Point{Lat: cfg.FallbackLat, Lng: cfg.FallbackLng},
		logger:    logger,
	}
}

// CreateOccurrence регистрирует происшествие. Статус всегда NOVO;
// если клиент не прислал координаты, сервер геокодирует адрес сам.
func (s *occurrenceService) CreateOccurrence(ctx context.Context, draft models.Draft, userID *uuid.UUID) (*models.Occurrence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "occurrence",
		"method":  "CreateOccurrence",
		"tipo":    draft.Tipo,
	})
	log.Info("Attempting to create a new occurrence")

	occ := draft.ToOccurrence()
	occ.Status = models.StatusNovo
	occ.UserID = userID
	if occ.Prioridade == "" {
		occ.Prioridade = models.PriorityMedia
	}
	if occ.CoordSource == models.CoordUnresolved {
		address := occ.Endereco
		if address == "" {
			address = occ.Local
		}
		point, source := geocode.Resolve(ctx, s.geocoder, address, s.fallback, s.logger)
		occ.Latitude, occ.Longitude, occ.CoordSource = point.Lat, point.Lng, source
	}

	if err := s.repo.Create(ctx, occ); err != nil {
		log.WithError(err).Error("Failed to create occurrence in repository")
		return nil, fmt.Errorf("service: could not create occurrence: %w", err)
	}
	log = log.WithField("occurrence_id", occ.ID)

	s.publish(ctx, log, events.OccurrenceCreated, occ)

	if occ.Prioridade.Urgent() && s.notifier != nil {
		if err := s.notifier.NotifyUrgent(ctx, occ); err != nil {
			log.WithError(err).Warn("Failed to send urgent occurrence push")
		}
	}

	log.Info("Occurrence created successfully")
	return occ, nil
}

// GetOccurrence получает происшествие по ID, сначала из кеша
func (s *occurrenceService) GetOccurrence(ctx context.Context, id uuid.UUID) (*models.Occurrence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "occurrence",
		"method":        "GetOccurrence",
		"occurrence_id": id,
	})

	cached, err := s.repo.GetOccurrenceFromCache(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to read occurrence cache")
	}
	if cached != nil {
		log.Debug("Occurrence served from cache")
		return cached, nil
	}

	occ, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Failed to get occurrence in repository")
		return nil, fmt.Errorf("service: could not get occurrence: %w", err)
	}

	if err := s.repo.SetOccurrenceCache(ctx, occ); err != nil {
		log.WithError(err).Warn("Failed to cache occurrence")
	}
	return occ, nil
}

// ListOccurrences возвращает происшествия по фильтру; Limit 0 - весь список
func (s *occurrenceService) ListOccurrences(ctx context.Context, filter models.Filter) ([]*models.Occurrence, error) {
	if filter.Limit < 0 || filter.Limit > maxListLimit {
		filter.Limit = maxListLimit
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}

	log := s.logger.WithFields(logrus.Fields{
		"service": "occurrence",
		"method":  "ListOccurrences",
		"limit":   filter.Limit,
		"offset":  filter.Offset,
	})

	occurrences, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list occurrences from repository")
		return nil, fmt.Errorf("service: could not list occurrences: %w", err)
	}

	log.WithField("count", len(occurrences)).Debug("Occurrences listed successfully")
	return occurrences, nil
}

// UpdateOccurrence применяет частичное обновление; переход статуса проверяется по жизненному циклу
func (s *occurrenceService) UpdateOccurrence(ctx context.Context, id uuid.UUID, patch models.Patch) (*models.Occurrence, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "occurrence",
		"method":        "UpdateOccurrence",
		"occurrence_id": id,
	})
	log.Info("Attempting to update occurrence")

	if patch.Empty() {
		return nil, fmt.Errorf("service: %w", ErrEmptyPatch)
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent occurrence")
		return nil, fmt.Errorf("service: occurrence %s not found for update: %w", id, err)
	}

	if err := patch.Apply(existing); err != nil {
		log.WithError(err).Warn("Rejected status transition")
		return nil, fmt.Errorf("service: %w", err)
	}

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update occurrence in repository")
		return nil, fmt.Errorf("service: could not update occurrence: %w", err)
	}
	if err := s.repo.InvalidateOccurrenceCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate occurrence cache")
	}

	s.publish(ctx, log, events.OccurrenceUpdated, existing)
	log.WithField("status", existing.Status).Info("Occurrence updated successfully")
	return existing, nil
}

// DeleteOccurrence удаляет происшествие
func (s *occurrenceService) DeleteOccurrence(ctx context.Context, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":       "occurrence",
		"method":        "DeleteOccurrence",
		"occurrence_id": id,
	})
	log.Info("Attempting to delete occurrence")

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to delete a non-existent occurrence")
		return fmt.Errorf("service: occurrence %s not found for delete: %w", id, err)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		log.WithError(err).Error("Failed to delete occurrence in repository")
		return fmt.Errorf("service: could not delete occurrence: %w", err)
	}
	if err := s.repo.InvalidateOccurrenceCache(ctx, id); err != nil {
		log.WithError(err).Warn("Failed to invalidate occurrence cache")
	}

	s.publish(ctx, log, events.OccurrenceDeleted, existing)
	log.Info("Occurrence deleted successfully")
	return nil
}

// GetStats считает сводку по всем происшествиям, опционально за период
func (s *occurrenceService) GetStats(ctx context.Context, start, end *time.Time) (*models.Report, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "occurrence",
		"method":  "GetStats",
	})

	list, err := s.repo.List(ctx, models.Filter{})
	if err != nil {
		log.WithError(err).Error("Failed to list occurrences for stats")
		return nil, fmt.Errorf("service: could not get stats: %w", err)
	}

	occurrences := make([]models.Occurrence, 0, len(list))
	for _, occ := range list {
		occurrences = append(occurrences, *occ)
	}
	report := models.BuildReport(models.FilterByDate(occurrences, start, end))

	log.WithField("total", report.Total).Debug("Stats computed")
	return &report, nil
}

// publish - ошибка публикации не отменяет уже выполненную запись в бд
func (s *occurrenceService) publish(ctx context.Context, log *logrus.Entry, t events.Type, occ *models.Occurrence) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, events.NewEvent(t, occ)); err != nil {
		log.WithError(err).WithField("event_type", t).Error("Failed to publish occurrence event")
	}
}
